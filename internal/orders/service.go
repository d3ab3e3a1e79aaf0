package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/simplezakka/zakka-backend/internal/cart"
	"github.com/simplezakka/zakka-backend/pkg/db/models"
	"github.com/simplezakka/zakka-backend/pkg/enums"
	pkgerrors "github.com/simplezakka/zakka-backend/pkg/errors"
	"github.com/simplezakka/zakka-backend/pkg/logger"
	"github.com/simplezakka/zakka-backend/pkg/metrics"
	"github.com/simplezakka/zakka-backend/pkg/pricing"
)

// Service places orders from a cart snapshot and serves order history.
type Service interface {
	PlaceOrder(ctx context.Context, snapshot *cart.Cart, input PlaceOrderInput, sessionID string) (*OrderResponse, error)
	History(ctx context.Context, customerID int64) ([]OrderSummary, error)
	Detail(ctx context.Context, customerID, orderID int64) (*OrderDetail, error)
}

// ServiceParams bundles the collaborators of the order service.
type ServiceParams struct {
	Tx        txRunner
	Orders    Repository
	Inventory InventoryFunc
	Customers CustomerLookupFunc
	Carts     CartClearer
	Metrics   placementRecorder
	Logger    *logger.Logger
	Now       func() time.Time
}

type service struct {
	tx        txRunner
	orders    Repository
	inventory InventoryFunc
	customers CustomerLookupFunc
	carts     CartClearer
	metrics   placementRecorder
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the order service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory required")
	}
	if params.Customers == nil {
		return nil, fmt.Errorf("customer lookup required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart clearer required")
	}
	s := &service{
		tx:        params.Tx,
		orders:    params.Orders,
		inventory: params.Inventory,
		customers: params.Customers,
		carts:     params.Carts,
		metrics:   params.Metrics,
		logg:      params.Logger,
		now:       params.Now,
	}
	if s.metrics == nil {
		s.metrics = (*metrics.ShopMetrics)(nil)
	}
	if s.logg == nil {
		s.logg = logger.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// PlaceOrder verifies stock, persists the order and decrements inventory in
// one transaction, then clears the session cart. Any failure before commit
// leaves both the database and the cart untouched.
func (s *service) PlaceOrder(ctx context.Context, snapshot *cart.Cart, input PlaceOrderInput, sessionID string) (*OrderResponse, error) {
	started := s.now()
	if snapshot.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeCartEmpty, "cart is empty")
	}
	if input.CustomerInfo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer info is required")
	}
	snapshot = snapshot.Clone()
	info := *input.CustomerInfo
	ctx = s.logg.WithSessionID(ctx, sessionID)

	var saved *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		inventory := s.inventory(tx)

		if err := verifyStock(ctx, inventory, snapshot.Items); err != nil {
			return err
		}

		order := &models.Order{
			IsGuest:          true,
			OrderEmail:       strings.TrimSpace(info.Email),
			OrderName:        strings.TrimSpace(info.Name),
			OrderAddress:     strings.TrimSpace(info.Address),
			OrderPhoneNumber: strings.TrimSpace(info.PhoneNumber),
			PaymentMethod:    strings.TrimSpace(input.PaymentMethod),
			OrderDate:        s.now().UTC(),
			Status:           enums.OrderStatusPending,
		}
		if info.CustomerID != 0 {
			customer, err := s.customers(tx).FindByID(ctx, info.CustomerID)
			if err != nil {
				return err
			}
			order.CustomerID = &customer.ID
			order.IsGuest = false
		}

		order.Subtotal = snapshot.Subtotal
		order.ShippingFee = pricing.ShippingFee(order.Subtotal)
		order.TotalPrice = order.Subtotal.Add(order.ShippingFee)

		for _, line := range snapshot.Items {
			product, err := inventory.FindByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			order.Items = append(order.Items, models.OrderLineItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				ImageURL:    product.ImageURL,
				Quantity:    line.Quantity,
				UnitPrice:   product.Price,
				Subtotal:    pricing.LineSubtotal(product.Price, line.Quantity),
			})

			rows, err := inventory.DecreaseStock(ctx, product.ID, line.Quantity)
			if err != nil {
				return err
			}
			if rows == 0 {
				return pkgerrors.New(pkgerrors.CodeStockConflict,
					fmt.Sprintf("stock for %s changed while placing the order, please try again", product.Name)).
					WithDetails(map[string]any{"product_id": product.ID})
			}
		}

		created, err := s.orders.WithTx(tx).Create(ctx, order)
		if err != nil {
			return err
		}
		saved = created
		return nil
	})
	if err != nil {
		s.observeFailure(ctx, err, started)
		return nil, err
	}

	s.metrics.OrderPlaced()
	s.metrics.ObservePlacement(metrics.OutcomeSuccess, s.now().Sub(started))
	ctx = s.logg.WithField(ctx, "order_id", saved.ID)
	s.logg.Info(ctx, "order.placed")

	// The order is committed; a failed clear only leaves a stale cart behind.
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.logg.Error(ctx, "order.cart_clear_failed", err)
	}

	return &OrderResponse{
		OrderID:       saved.ID,
		OrderDate:     saved.OrderDate,
		Subtotal:      saved.Subtotal,
		ShippingFee:   saved.ShippingFee,
		TotalPrice:    saved.TotalPrice,
		PaymentMethod: saved.PaymentMethod,
		Status:        saved.Status.String(),
		Items:         lineItemsFromModels(saved.Items),
		CustomerInfo:  info,
		Message:       placedMessage,
	}, nil
}

// verifyStock is a read-only pass; the conditional decrement stays the only
// oversell guard.
func verifyStock(ctx context.Context, inventory Inventory, lines []cart.LineItem) error {
	for _, line := range lines {
		if line.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeInvalidQuantity, fmt.Sprintf("invalid quantity for %s: %d", line.Name, line.Quantity)).
				WithDetails(map[string]any{"product_id": line.ProductID})
		}
		product, err := inventory.FindByID(ctx, line.ProductID)
		if err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeProductNotFound) {
				return pkgerrors.New(pkgerrors.CodeProductNotFound, fmt.Sprintf("product not found: %s", line.Name)).
					WithDetails(map[string]any{"product_id": line.ProductID})
			}
			return err
		}
		if product.Stock < line.Quantity {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock,
				fmt.Sprintf("insufficient stock for %s, %d left", product.Name, product.Stock)).
				WithDetails(map[string]any{
					"product_id": product.ID,
					"requested":  line.Quantity,
					"available":  product.Stock,
				})
		}
	}
	return nil
}

func (s *service) observeFailure(ctx context.Context, err error, started time.Time) {
	outcome := metrics.OutcomeRejected
	switch {
	case pkgerrors.HasCode(err, pkgerrors.CodeStockConflict):
		outcome = metrics.OutcomeConflict
		s.metrics.StockConflict()
		s.logg.Warn(ctx, "order.stock_conflict")
	case pkgerrors.As(err) == nil:
		outcome = metrics.OutcomeError
		s.logg.Error(ctx, "order.persist_failed", err)
	}
	s.metrics.ObservePlacement(outcome, s.now().Sub(started))
}

func (s *service) History(ctx context.Context, customerID int64) ([]OrderSummary, error) {
	if _, err := s.customers(nil).FindByID(ctx, customerID); err != nil {
		return nil, err
	}
	rows, err := s.orders.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := make([]OrderSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, OrderSummary{
			OrderID:     row.ID,
			OrderDate:   row.OrderDate,
			TotalAmount: row.TotalPrice,
			Status:      row.Status.String(),
		})
	}
	return out, nil
}

func (s *service) Detail(ctx context.Context, customerID, orderID int64) (*OrderDetail, error) {
	order, err := s.orders.FindForCustomer(ctx, orderID, customerID)
	if err != nil {
		return nil, err
	}
	return detailFromModel(order), nil
}
