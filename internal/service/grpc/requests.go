package grpcsvc

import (
	"errors"
	"reflect"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Nest-Microservices-dev/orders-ms/internal/domain"
	"github.com/Nest-Microservices-dev/orders-ms/internal/transport/rpc"
)

// newValidator возвращает валидатор, который называет поля по JSON-тегам.
func newValidator() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest проверяет запрос и превращает ошибки валидации в InvalidArgument.
func (s *OrderService) validateRequest(req any) error {
	if req == nil || reflect.ValueOf(req).IsNil() {
		return status.Error(codes.InvalidArgument, "request is required")
	}
	if err := s.validate.Struct(req); err != nil {
		var ve validatorv10.ValidationErrors
		if !errors.As(err, &ve) {
			return status.Error(codes.InvalidArgument, err.Error())
		}
		fields := make([]string, 0, len(ve))
		for _, fe := range ve {
			fields = append(fields, fieldMessage(fe))
		}
		return status.Error(codes.InvalidArgument, strings.Join(fields, "; "))
	}
	return nil
}

func fieldMessage(fe validatorv10.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		ns = ns[idx+1:]
	}
	switch fe.Tag() {
	case "required":
		return ns + " is required"
	case "min":
		return ns + " must contain at least " + fe.Param() + " element(s)"
	case "gt":
		return ns + " must be greater than " + fe.Param()
	case "gte":
		return ns + " must be greater than or equal to " + fe.Param()
	case "oneof":
		return ns + " must be one of [" + fe.Param() + "]"
	case "uuid":
		return ns + " must be a valid UUID"
	case "url":
		return ns + " must be a valid URL"
	default:
		return ns + " failed on " + fe.Tag()
	}
}

func toCreateItems(items []rpc.CreateOrderItem) []domain.CreateItem {
	result := make([]domain.CreateItem, 0, len(items))
	for _, item := range items {
		result = append(result, domain.CreateItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return result
}

func toListQuery(req *rpc.FindAllOrdersRequest) (domain.ListQuery, error) {
	query := domain.ListQuery{Page: req.Page, Limit: req.Limit}
	if req.Status != "" {
		st, err := domain.ParseOrderStatus(req.Status)
		if err != nil {
			return domain.ListQuery{}, err
		}
		query.Status = &st
	}
	return query, nil
}
