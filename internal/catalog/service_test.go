package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rcastell/dealerhub-backend/pkg/db/models"
	pkgerrors "github.com/rcastell/dealerhub-backend/pkg/errors"
)

type stubRepo struct {
	products    map[uuid.UUID]*models.Product
	listFilters *ListFilters
}

func (s *stubRepo) FindProduct(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubRepo) ListProducts(_ context.Context, filters ListFilters) ([]models.Product, error) {
	s.listFilters = &filters
	return nil, nil
}

func (s *stubRepo) ListCategories(_ context.Context) ([]models.Category, error) {
	return nil, nil
}

func TestGetProduct(t *testing.T) {
	id := uuid.New()
	repo := &stubRepo{products: map[uuid.UUID]*models.Product{
		id: {ID: id, SKU: "HW-1001", Name: "Workshop lift"},
	}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	product, err := svc.GetProduct(context.Background(), id)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if product.SKU != "HW-1001" {
		t.Errorf("sku = %s, want HW-1001", product.SKU)
	}

	_, err = svc.GetProduct(context.Background(), uuid.New())
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}

	_, err = svc.GetProduct(context.Background(), uuid.Nil)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Errorf("err = %v, want VALIDATION_ERROR", err)
	}
}

func TestListProductsClampsPaging(t *testing.T) {
	repo := &stubRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if _, err := svc.ListProducts(context.Background(), ListFilters{Limit: 500, Offset: -1}); err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if repo.listFilters.Limit != 20 || repo.listFilters.Offset != 0 {
		t.Errorf("filters = %+v, want limit 20 offset 0", repo.listFilters)
	}
}
