package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"gorm.io/gorm"

	"github.com/ndanilov/inventory_api/internal/apperror"
	"github.com/ndanilov/inventory_api/internal/es"
	"github.com/ndanilov/inventory_api/internal/logging"
	"github.com/ndanilov/inventory_api/internal/models"
	"github.com/ndanilov/inventory_api/internal/mykafka"
	"github.com/ndanilov/inventory_api/internal/repo"
	"github.com/ndanilov/inventory_api/internal/transport"
	"github.com/ndanilov/inventory_api/internal/util"
)

type ProductService struct {
	Products repo.ProductStore
	Producer EventPublisher
	ES       *elasticsearch.Client
	ESIndex  string
}

func (s *ProductService) List(ctx context.Context, pageNumber, pageSize int, nameFilter, sortByPrice string) (*transport.ProductPage, error) {
	page, size, offset := util.Normalize(pageNumber, pageSize)

	order := strings.ToLower(sortByPrice)
	if order != "asc" && order != "desc" {
		order = ""
	}

	total, err := s.Products.Count(ctx, nameFilter)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "cannot count products", err)
	}

	items, err := s.Products.ListPage(ctx, offset, size, nameFilter, order)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "cannot list products", err)
	}

	totalPages := util.TotalPages(total, size)
	return &transport.ProductPage{
		Items:       items,
		PageNumber:  page,
		PageSize:    size,
		TotalCount:  total,
		TotalPages:  totalPages,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
	}, nil
}

func (s *ProductService) Get(ctx context.Context, id int) (*models.Product, error) {
	product, err := s.Products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.NotFound, "product not found")
		}
		return nil, apperror.Wrap(apperror.Internal, "cannot look up product", err)
	}
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, name, description string, price float64) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "product.create")

	if name == "" {
		return nil, apperror.New(apperror.InvalidInput, "name is required")
	}
	if price <= 0 {
		return nil, apperror.New(apperror.InvalidInput, "price must be greater than zero")
	}

	product := models.Product{
		Name:        name,
		Description: description,
		Price:       price,
	}
	if err := s.Products.Insert(ctx, &product); err != nil {
		return nil, apperror.Wrap(apperror.Internal, "cannot create product", err)
	}

	publish(ctx, s.Producer, mykafka.TopicProductEvents, fmt.Sprint(product.ID), map[string]interface{}{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})
	s.index(ctx, product)

	l.Info("create_success", "id", product.ID)
	return &product, nil
}

// Update overwrites name, description and price; id and creation timestamp
// stay untouched. Price is only validated at creation.
func (s *ProductService) Update(ctx context.Context, id int, name, description string, price float64) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "product.update")

	product, err := s.Products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.NotFound, "product not found")
		}
		return nil, apperror.Wrap(apperror.Internal, "cannot look up product", err)
	}

	if name == "" {
		return nil, apperror.New(apperror.InvalidInput, "name is required")
	}

	product.Name = name
	product.Description = description
	product.Price = price

	if err := s.Products.Update(ctx, product); err != nil {
		return nil, apperror.Wrap(apperror.Internal, "cannot update product", err)
	}

	publish(ctx, s.Producer, mykafka.TopicProductEvents, fmt.Sprint(product.ID), map[string]interface{}{
		"type":      "product_updated",
		"productID": product.ID,
		"name":      product.Name,
	})
	s.index(ctx, *product)

	l.Info("update_success", "id", product.ID)
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id int) (int, error) {
	l := logging.FromContext(ctx).With("svc", "product.delete")

	if err := s.Products.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperror.New(apperror.NotFound, "product not found")
		}
		return 0, apperror.Wrap(apperror.Internal, "cannot delete product", err)
	}

	publish(ctx, s.Producer, mykafka.TopicProductEvents, fmt.Sprint(id), map[string]interface{}{
		"type":      "product_deleted",
		"productID": id,
	})
	if s.ES != nil {
		if err := es.RemoveProduct(ctx, s.ES, s.ESIndex, id); err != nil {
			logging.FromContext(ctx).Error("index_remove_failed", "id", id, "error", err)
		}
	}

	l.Info("delete_success", "id", id)
	return id, nil
}

// index mirrors the product into the search index, best effort.
func (s *ProductService) index(ctx context.Context, p models.Product) {
	if s.ES == nil {
		return
	}
	if err := es.IndexProduct(ctx, s.ES, s.ESIndex, p); err != nil {
		logging.FromContext(ctx).Error("index_failed", "id", p.ID, "error", err)
	}
}
