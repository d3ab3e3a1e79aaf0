package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/simplezakka/zakka-backend/pkg/db/models"
	pkgerrors "github.com/simplezakka/zakka-backend/pkg/errors"
)

type catalogRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]models.Product, error)
	SearchByName(ctx context.Context, keyword string) ([]models.Product, error)
	ListStockGreaterThan(ctx context.Context, minStock int) ([]models.Product, error)
}

// Service exposes the read-only catalog.
type Service interface {
	List(ctx context.Context) ([]ProductDTO, error)
	Get(ctx context.Context, id int64) (*ProductDTO, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]ProductDTO, error)
	Search(ctx context.Context, keyword string) ([]ProductDTO, error)
	ListInStock(ctx context.Context, minStock int) ([]ProductDTO, error)
}

type service struct {
	repo catalogRepository
}

// NewService builds the catalog service.
func NewService(repo catalogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return fromModels(rows), nil
}

func (s *service) Get(ctx context.Context, id int64) (*ProductDTO, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(*row)
	return &dto, nil
}

func (s *service) ListByCategory(ctx context.Context, categoryID int64) ([]ProductDTO, error) {
	if categoryID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id must be positive")
	}
	rows, err := s.repo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return fromModels(rows), nil
}

func (s *service) Search(ctx context.Context, keyword string) ([]ProductDTO, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "keyword is required")
	}
	rows, err := s.repo.SearchByName(ctx, keyword)
	if err != nil {
		return nil, err
	}
	return fromModels(rows), nil
}

func (s *service) ListInStock(ctx context.Context, minStock int) ([]ProductDTO, error) {
	if minStock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min stock must not be negative")
	}
	rows, err := s.repo.ListStockGreaterThan(ctx, minStock)
	if err != nil {
		return nil, err
	}
	return fromModels(rows), nil
}
