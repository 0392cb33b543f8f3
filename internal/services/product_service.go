package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/threadcart/backend/internal/dto"
	"github.com/threadcart/backend/internal/models"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) List() ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *ProductService) GetByID(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return &product, nil
}

// Search matches the term case-insensitively as a substring of name,
// description, category or color.
func (s *ProductService) Search(term string) ([]models.Product, error) {
	pattern := "%" + term + "%"
	var products []models.Product
	err := s.db.
		Where("name ILIKE ? OR description ILIKE ? OR category ILIKE ? OR color ILIKE ?",
			pattern, pattern, pattern, pattern).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

func (s *ProductService) Create(req *dto.CreateProductRequest) (*models.Product, error) {
	product := models.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Size:        req.Size,
		Color:       req.Color,
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

func (s *ProductService) Update(id uuid.UUID, req *dto.UpdateProductRequest) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Size != nil {
		updates["size"] = *req.Size
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}
	return &product, nil
}

// Delete removes the product and returns its name for the response
// message.
func (s *ProductService) Delete(id uuid.UUID) (string, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrProductNotFound
		}
		return "", fmt.Errorf("failed to fetch product: %w", err)
	}

	if err := s.db.Delete(&product).Error; err != nil {
		return "", fmt.Errorf("failed to delete product: %w", err)
	}
	return product.Name, nil
}

// Summary aggregates the catalog for the admin dashboard: total count,
// total stock and a per-category breakdown sorted by descending count.
func (s *ProductService) Summary() (*dto.ProductSummaryResponse, error) {
	summary := &dto.ProductSummaryResponse{Categories: []dto.CategorySummary{}}

	if err := s.db.Model(&models.Product{}).Count(&summary.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	if err := s.db.Model(&models.Product{}).
		Select("COALESCE(SUM(stock), 0)").
		Scan(&summary.TotalStock).Error; err != nil {
		return nil, fmt.Errorf("failed to sum stock: %w", err)
	}

	err := s.db.Model(&models.Product{}).
		Select("COALESCE(NULLIF(category, ''), 'uncategorized') AS category, COUNT(*) AS count, COALESCE(SUM(stock), 0) AS stock").
		Group("COALESCE(NULLIF(category, ''), 'uncategorized')").
		Order("count DESC").
		Scan(&summary.Categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}

	return summary, nil
}
