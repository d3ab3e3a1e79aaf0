package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/simplezakka/zakka-backend/internal/customers"
	"github.com/simplezakka/zakka-backend/pkg/db/models"
)

const placedMessage = "ご注文ありがとうございます。注文が確定しました。"

// PlaceOrderInput is the confirmation payload. CustomerInfo.CustomerID is
// zero for guest checkouts.
type PlaceOrderInput struct {
	CustomerInfo  *customers.CustomerInfo `json:"customerInfo" validate:"required"`
	PaymentMethod string                  `json:"paymentMethod" validate:"notblank,max=50"`
}

// LineItemDTO is one frozen order line.
type LineItemDTO struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse is returned after a successful placement.
type OrderResponse struct {
	OrderID       int64                  `json:"orderId"`
	OrderDate     time.Time              `json:"orderDate"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	ShippingFee   decimal.Decimal        `json:"shippingFee"`
	TotalPrice    decimal.Decimal        `json:"totalPrice"`
	PaymentMethod string                 `json:"paymentMethod"`
	Status        string                 `json:"status"`
	Items         []LineItemDTO          `json:"items"`
	CustomerInfo  customers.CustomerInfo `json:"customerInfo"`
	Message       string                 `json:"message"`
}

// OrderSummary is one row of a customer's order history.
type OrderSummary struct {
	OrderID     int64           `json:"orderId"`
	OrderDate   time.Time       `json:"orderDate"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
}

// OrderDetail is the full view of a past order, contact block included.
type OrderDetail struct {
	OrderID       int64                  `json:"orderId"`
	OrderDate     time.Time              `json:"orderDate"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	ShippingFee   decimal.Decimal        `json:"shippingFee"`
	TotalAmount   decimal.Decimal        `json:"totalAmount"`
	PaymentMethod string                 `json:"paymentMethod"`
	Status        string                 `json:"status"`
	CustomerInfo  customers.CustomerInfo `json:"customerInfo"`
	Items         []LineItemDTO          `json:"items"`
}

func lineItemsFromModels(items []models.OrderLineItem) []LineItemDTO {
	out := make([]LineItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, LineItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ImageURL:    item.ImageURL,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	return out
}

func detailFromModel(order *models.Order) *OrderDetail {
	info := customers.CustomerInfo{
		Name:        order.OrderName,
		Email:       order.OrderEmail,
		Address:     order.OrderAddress,
		PhoneNumber: order.OrderPhoneNumber,
	}
	if order.CustomerID != nil {
		info.CustomerID = *order.CustomerID
	}
	return &OrderDetail{
		OrderID:       order.ID,
		OrderDate:     order.OrderDate,
		Subtotal:      order.Subtotal,
		ShippingFee:   order.ShippingFee,
		TotalAmount:   order.TotalPrice,
		PaymentMethod: order.PaymentMethod,
		Status:        order.Status.String(),
		CustomerInfo:  info,
		Items:         lineItemsFromModels(order.Items),
	}
}
