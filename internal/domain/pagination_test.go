package domain

import (
	"errors"
	"math"
	"testing"
)

func TestListQuery_NormalizeAndOffset(t *testing.T) {
	q := ListQuery{}.Normalize()
	if q.Page != DefaultPage || q.Limit != DefaultLimit {
		t.Fatalf("unexpected defaults: %+v", q)
	}
	if q.Offset() != 0 {
		t.Fatalf("expected offset 0, got %d", q.Offset())
	}

	q = ListQuery{Page: 3, Limit: 10}.Normalize()
	if q.Offset() != 20 {
		t.Fatalf("expected offset 20, got %d", q.Offset())
	}
}

func TestListQuery_Validate(t *testing.T) {
	bad := OrderStatus("SHIPPED")
	paid := OrderStatusPaid

	tests := []struct {
		name string
		q    ListQuery
		want error
	}{
		{name: "ok", q: ListQuery{Page: 1, Limit: 10}},
		{name: "ok with status", q: ListQuery{Page: 2, Limit: 5, Status: &paid}},
		{name: "negative page", q: ListQuery{Page: -1, Limit: 10}, want: ErrInvalidPagination},
		{name: "negative limit", q: ListQuery{Page: 1, Limit: -3}, want: ErrInvalidPagination},
		{name: "max limit", q: ListQuery{Page: 1, Limit: MaxLimit}},
		{name: "limit above max", q: ListQuery{Page: 1, Limit: MaxLimit + 1}, want: ErrInvalidPagination},
		{name: "offset overflow", q: ListQuery{Page: math.MaxInt, Limit: 2}, want: ErrInvalidPagination},
		{name: "wrapping offset", q: ListQuery{Page: 1<<32 + 1, Limit: 1 << 32}, want: ErrInvalidPagination},
		{name: "largest page", q: ListQuery{Page: math.MaxInt/MaxLimit + 1, Limit: MaxLimit}},
		{name: "unknown status", q: ListQuery{Page: 1, Limit: 10, Status: &bad}, want: ErrInvalidStatus},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.q.Validate()
			if !errors.Is(err, tc.want) {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestLastPage(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{total: 25, limit: 10, want: 3},
		{total: 20, limit: 10, want: 2},
		{total: 1, limit: 10, want: 1},
		{total: 0, limit: 10, want: 0},
		{total: 5, limit: 0, want: 0},
	}

	for _, tc := range tests {
		if got := LastPage(tc.total, tc.limit); got != tc.want {
			t.Errorf("LastPage(%d, %d) = %d, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}

func TestDistinctProductIDs(t *testing.T) {
	ids := DistinctProductIDs([]CreateItem{
		{ProductID: 3, Quantity: 1},
		{ProductID: 1, Quantity: 2},
		{ProductID: 3, Quantity: 5},
	})
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 1 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}
