// Package repo is the only place that touches GORM. Services depend on the
// Store interfaces so the persistence engine can be swapped (postgres in
// production, in-memory sqlite in tests).
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/ndanilov/inventory_api/internal/models"
)

type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
	ListAll(ctx context.Context) ([]models.User, error)
}

type ProductStore interface {
	FindByID(ctx context.Context, id int) (*models.Product, error)
	Insert(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context, nameFilter string) (int64, error)
	ListPage(ctx context.Context, offset, limit int, nameFilter, priceOrder string) ([]models.Product, error)
}

type UserRepo struct {
	DB *gorm.DB
}

type ProductRepo struct {
	DB *gorm.DB
}
