package domain

import "github.com/shopspring/decimal"

// Product — запись каталога товаров, которую возвращает ProductValidator.
type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

// CreateItem — позиция во входящем запросе на создание заказа.
type CreateItem struct {
	ProductID int64
	Quantity  int32
}

// DistinctProductIDs возвращает уникальные идентификаторы товаров в порядке первого появления.
func DistinctProductIDs(items []CreateItem) []int64 {
	ids := make([]int64, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// ProductsByID строит индекс товаров по идентификатору.
func ProductsByID(products []Product) map[int64]Product {
	index := make(map[int64]Product, len(products))
	for _, p := range products {
		index[p.ID] = p
	}
	return index
}
