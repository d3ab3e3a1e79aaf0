package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/simplezakka/zakka-backend/pkg/db/models"
	pkgerrors "github.com/simplezakka/zakka-backend/pkg/errors"
	"github.com/simplezakka/zakka-backend/pkg/metrics"
)

type productLoader interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
}

type mutationRecorder interface {
	CartMutation(op, outcome string)
}

// Service exposes the session cart operations.
type Service interface {
	GetOrCreateCart(ctx context.Context, sessionID string) (*Cart, error)
	AddItem(ctx context.Context, sessionID string, productID int64, quantity int) (*Cart, error)
	UpdateItemQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (*Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store    Store
	products productLoader
	metrics  mutationRecorder
}

// NewService builds a cart service. recorder may be nil.
func NewService(store Store, products productLoader, recorder mutationRecorder) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if recorder == nil {
		recorder = (*metrics.ShopMetrics)(nil)
	}
	return &service{store: store, products: products, metrics: recorder}, nil
}

func (s *service) GetOrCreateCart(ctx context.Context, sessionID string) (*Cart, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}
	c = New()
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) AddItem(ctx context.Context, sessionID string, productID int64, quantity int) (*Cart, error) {
	c, err := s.GetOrCreateCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		s.metrics.CartMutation("add", metrics.OutcomeRejected)
		return nil, err
	}
	if quantity <= 0 {
		s.metrics.CartMutation("add", metrics.OutcomeRejected)
		return nil, invalidQuantity(quantity)
	}
	inCart := c.QuantityOf(productID)
	// Compared without summing so a huge quantity cannot wrap around.
	if quantity > product.Stock-inCart {
		s.metrics.CartMutation("add", metrics.OutcomeRejected)
		return nil, insufficientStock(product, quantity)
	}

	c.AddItem(NewLineItem(product.ID, product.Name, product.Price, product.ImageURL, quantity))
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		s.metrics.CartMutation("add", metrics.OutcomeError)
		return nil, err
	}
	s.metrics.CartMutation("add", metrics.OutcomeSuccess)
	return c, nil
}

func (s *service) UpdateItemQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*Cart, error) {
	c, err := s.GetOrCreateCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	line, ok := c.Item(itemID)
	if !ok {
		s.metrics.CartMutation("update", metrics.OutcomeRejected)
		return nil, pkgerrors.New(pkgerrors.CodeItemNotInCart, "item not in cart").
			WithDetails(map[string]any{"item_id": itemID})
	}

	if quantity <= 0 {
		c.RemoveItem(itemID)
	} else {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			s.metrics.CartMutation("update", metrics.OutcomeRejected)
			return nil, err
		}
		if quantity > product.Stock {
			s.metrics.CartMutation("update", metrics.OutcomeRejected)
			return nil, insufficientStock(product, quantity)
		}
		c.UpdateQuantity(itemID, quantity)
	}

	if err := s.store.Save(ctx, sessionID, c); err != nil {
		s.metrics.CartMutation("update", metrics.OutcomeError)
		return nil, err
	}
	s.metrics.CartMutation("update", metrics.OutcomeSuccess)
	return c, nil
}

func (s *service) RemoveItem(ctx context.Context, sessionID, itemID string) (*Cart, error) {
	c, err := s.GetOrCreateCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.RemoveItem(itemID)
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		s.metrics.CartMutation("remove", metrics.OutcomeError)
		return nil, err
	}
	s.metrics.CartMutation("remove", metrics.OutcomeSuccess)
	return c, nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := validateSession(sessionID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		s.metrics.CartMutation("clear", metrics.OutcomeError)
		return err
	}
	s.metrics.CartMutation("clear", metrics.OutcomeSuccess)
	return nil
}

func validateSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}

func invalidQuantity(quantity int) error {
	return pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be at least 1").
		WithDetails(map[string]any{"quantity": quantity})
}

func insufficientStock(product *models.Product, requested int) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, fmt.Sprintf("only %d of %s left in stock", product.Stock, product.Name)).
		WithDetails(map[string]any{
			"product_id": product.ID,
			"requested":  requested,
			"available":  product.Stock,
		})
}
