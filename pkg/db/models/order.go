package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/simplezakka/zakka-backend/pkg/enums"
)

// Order is the persisted header of a placed order. Contact fields are copied
// from the request so later profile edits never rewrite history.
type Order struct {
	ID               int64             `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID       *int64            `gorm:"column:customer_id;index"`
	Customer         *Customer         `gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL"`
	OrderEmail       string            `gorm:"column:order_email;size:255;not null"`
	OrderName        string            `gorm:"column:order_name;size:100;not null"`
	OrderAddress     string            `gorm:"column:order_address;size:500;not null"`
	OrderPhoneNumber string            `gorm:"column:order_phone_number;size:20;not null"`
	PaymentMethod    string            `gorm:"column:payment_method;size:50;not null"`
	OrderDate        time.Time         `gorm:"column:order_date;not null"`
	Status           enums.OrderStatus `gorm:"column:status;size:20;not null"`
	IsGuest          bool              `gorm:"column:is_guest;not null;default:false"`
	Subtotal         decimal.Decimal   `gorm:"column:subtotal;type:numeric(10,2);not null"`
	ShippingFee      decimal.Decimal   `gorm:"column:shipping_fee;type:numeric(10,2);not null"`
	TotalPrice       decimal.Decimal   `gorm:"column:total_price;type:numeric(10,2);not null"`
	Items            []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
