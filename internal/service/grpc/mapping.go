package grpcsvc

import (
	"github.com/Nest-Microservices-dev/orders-ms/internal/domain"
	"github.com/Nest-Microservices-dev/orders-ms/internal/transport/rpc"
)

func toRPCOrder(order domain.Order) *rpc.Order {
	out := &rpc.Order{
		ID:             order.ID,
		TotalAmount:    order.TotalAmount,
		TotalItems:     order.TotalItems,
		Status:         string(order.Status),
		Paid:           order.Paid,
		PaidAt:         order.PaidAt,
		StripeChargeID: order.StripeChargeID,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
	if len(order.Items) > 0 {
		out.Items = make([]rpc.OrderItem, 0, len(order.Items))
		for _, item := range order.Items {
			out.Items = append(out.Items, rpc.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
				Name:      item.Name,
			})
		}
	}
	if order.Receipt != nil {
		out.Receipt = &rpc.OrderReceipt{
			ID:         order.Receipt.ID,
			ReceiptURL: order.Receipt.ReceiptURL,
			CreatedAt:  order.Receipt.CreatedAt,
		}
	}
	return out
}

func toRPCPage(page domain.OrderPage) *rpc.FindAllOrdersResponse {
	data := make([]rpc.Order, 0, len(page.Data))
	for _, order := range page.Data {
		data = append(data, *toRPCOrder(order))
	}
	return &rpc.FindAllOrdersResponse{
		Data: data,
		Meta: rpc.PageMeta{
			Total:    page.Meta.Total,
			Page:     page.Meta.Page,
			LastPage: page.Meta.LastPage,
		},
	}
}

func toRPCSession(session domain.PaymentSession) *rpc.PaymentSession {
	return &rpc.PaymentSession{
		CancelURL:  session.CancelURL,
		SuccessURL: session.SuccessURL,
		URL:        session.URL,
	}
}
