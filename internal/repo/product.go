package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/ndanilov/inventory_api/internal/models"
)

func (r *ProductRepo) FindByID(ctx context.Context, id int) (*models.Product, error) {
	product := models.Product{}
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepo) Insert(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Create(product).Error
}

func (r *ProductRepo) Update(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Save(product).Error
}

func (r *ProductRepo) Delete(ctx context.Context, id int) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ProductRepo) filtered(ctx context.Context, nameFilter string) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if nameFilter != "" {
		q = q.Where("name LIKE ?", "%"+nameFilter+"%")
	}
	return q
}

func (r *ProductRepo) Count(ctx context.Context, nameFilter string) (int64, error) {
	var total int64
	if err := r.filtered(ctx, nameFilter).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// ListPage slices the filtered set. priceOrder is "asc", "desc" or empty;
// anything else already got normalized away by the service.
func (r *ProductRepo) ListPage(ctx context.Context, offset, limit int, nameFilter, priceOrder string) ([]models.Product, error) {
	order := "id ASC"
	switch priceOrder {
	case "asc":
		order = "price ASC"
	case "desc":
		order = "price DESC"
	}

	items := make([]models.Product, 0, limit)
	if err := r.filtered(ctx, nameFilter).Order(order).Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
