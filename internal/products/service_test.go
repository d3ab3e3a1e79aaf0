package product

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/simplezakka/zakka-backend/pkg/db/models"
	pkgerrors "github.com/simplezakka/zakka-backend/pkg/errors"
)

func TestServiceGet(t *testing.T) {
	t.Parallel()

	repo := &stubCatalogRepo{byID: map[int64]*models.Product{
		3: {ID: 3, Name: "Diffuser", Price: decimal.NewFromInt(4200), Stock: 15},
	}}
	svc := newTestService(t, repo)

	got, err := svc.Get(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Diffuser" || got.Stock != 15 {
		t.Fatalf("unexpected product %+v", got)
	}

	_, err = svc.Get(context.Background(), 9)
	if !pkgerrors.HasCode(err, pkgerrors.CodeProductNotFound) {
		t.Fatalf("expected product not found, got %v", err)
	}

	_, err = svc.Get(context.Background(), 0)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceSearchRequiresKeyword(t *testing.T) {
	t.Parallel()

	repo := &stubCatalogRepo{}
	svc := newTestService(t, repo)

	if _, err := svc.Search(context.Background(), "   "); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.searched != "" {
		t.Fatalf("repository should not be queried for a blank keyword")
	}

	if _, err := svc.Search(context.Background(), "  mug "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.searched != "mug" {
		t.Fatalf("expected trimmed keyword, got %q", repo.searched)
	}
}

func TestServiceListInStockRejectsNegative(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubCatalogRepo{})
	if _, err := svc.ListInStock(context.Background(), -1); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServicePropagatesRepositoryErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	svc := newTestService(t, &stubCatalogRepo{err: boom})

	if _, err := svc.List(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected repository error, got %v", err)
	}
	if _, err := svc.ListByCategory(context.Background(), 1); !errors.Is(err, boom) {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func newTestService(t *testing.T, repo catalogRepository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

type stubCatalogRepo struct {
	byID     map[int64]*models.Product
	searched string
	err      error
}

func (s *stubCatalogRepo) FindByID(_ context.Context, id int64) (*models.Product, error) {
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found")
}

func (s *stubCatalogRepo) List(context.Context) ([]models.Product, error) {
	return nil, s.err
}

func (s *stubCatalogRepo) ListByCategory(context.Context, int64) ([]models.Product, error) {
	return nil, s.err
}

func (s *stubCatalogRepo) SearchByName(_ context.Context, keyword string) ([]models.Product, error) {
	s.searched = keyword
	return nil, s.err
}

func (s *stubCatalogRepo) ListStockGreaterThan(context.Context, int) ([]models.Product, error) {
	return nil, s.err
}
