package categories

import (
	"context"
	"fmt"

	"github.com/simplezakka/zakka-backend/pkg/db/models"
)

// CategoryDTO is the list item shown in navigation.
type CategoryDTO struct {
	ID   int64  `json:"categoryId"`
	Name string `json:"name"`
}

type categoryLister interface {
	ListOrderedByCreation(ctx context.Context) ([]models.Category, error)
}

// Service exposes category reads.
type Service interface {
	List(ctx context.Context) ([]CategoryDTO, error)
}

type service struct {
	repo categoryLister
}

func NewService(repo categoryLister) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListOrderedByCreation(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, CategoryDTO{ID: row.ID, Name: row.Name})
	}
	return out, nil
}
