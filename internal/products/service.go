package products

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/grocerly-app/storefront-backend/pkg/errors"
	"github.com/grocerly-app/storefront-backend/pkg/pagination"
)

// Service exposes catalog read operations for the storefront.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID, lang string) (*ProductDTO, error)
	ListProducts(ctx context.Context, params ListParams, lang string) (*ProductListDTO, error)
}

type service struct {
	repo        ProductRepository
	defaultLang string
}

// NewService constructs a catalog service instance.
func NewService(repo ProductRepository, defaultLang string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if defaultLang == "" {
		defaultLang = "en"
	}
	return &service{repo: repo, defaultLang: defaultLang}, nil
}

// GetProduct loads a single active product.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID, lang string) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	dto := NewProductDTO(product, s.lang(lang))
	return &dto, nil
}

// ListProducts returns one catalog page plus the cursor for the next.
func (s *service) ListProducts(ctx context.Context, params ListParams, lang string) (*ProductListDTO, error) {
	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(params.Page.Limit)
	result := &ProductListDTO{Items: make([]ProductDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.Items = append(result.Items, NewProductDTO(&rows[i], s.lang(lang)))
	}
	if hasMore {
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}

func (s *service) lang(lang string) string {
	if lang == "" {
		return s.defaultLang
	}
	return lang
}
