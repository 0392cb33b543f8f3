package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/threadcart/backend/internal/dto"
	"github.com/threadcart/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCartNotFound      = errors.New("cart not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotCartOwner      = errors.New("access denied: not the cart owner")
)

type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// GetCart returns the user's cart with items and products. A user
// without a cart row gets an id-less empty cart, never a not-found.
func (s *CartService) GetCart(userID uuid.UUID) (*dto.CartResponse, error) {
	var cart models.Cart
	err := s.db.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.CartResponse{UserID: userID, Items: []models.CartItem{}}, nil
		}
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}

	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &dto.CartResponse{ID: &cart.ID, UserID: cart.UserID, Items: cart.Items}, nil
}

// AddItem get-or-creates the user's cart and merges the quantity into
// an existing row for the same product. The product row is locked FOR
// UPDATE for the duration of the transaction, so concurrent adds for
// the same product serialize: the read-merge-write cannot lose an
// update and the (cart, product) row stays unique. The stock check is
// against the post-merge quantity.
func (s *CartService) AddItem(userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	var item models.CartItem

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to fetch product: %w", err)
		}

		var cart models.Cart
		if err := tx.Where(models.Cart{UserID: userID}).
			Attrs(models.Cart{ID: uuid.New()}).
			FirstOrCreate(&cart).Error; err != nil {
			return fmt.Errorf("failed to get or create cart: %w", err)
		}

		var existing models.CartItem
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&existing).Error
		switch {
		case err == nil:
			newQuantity := existing.Quantity + quantity
			if newQuantity > product.Stock {
				return fmt.Errorf("%w for %s: available %d", ErrInsufficientStock, product.Name, product.Stock)
			}
			if err := tx.Model(&existing).Update("quantity", newQuantity).Error; err != nil {
				return fmt.Errorf("failed to update cart item: %w", err)
			}
			existing.Quantity = newQuantity
			item = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			if quantity > product.Stock {
				return fmt.Errorf("%w for %s: available %d", ErrInsufficientStock, product.Name, product.Stock)
			}
			item = models.CartItem{
				ID:        uuid.New(),
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  quantity,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create cart item: %w", err)
			}
		default:
			return fmt.Errorf("failed to fetch cart item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem sets a new absolute quantity on a cart item. Only the
// owning user or a full admin may touch it.
func (s *CartService) UpdateItem(callerID uuid.UUID, callerRole models.Role, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	var item models.CartItem

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Cart").Preload("Product").First(&item, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartItemNotFound
			}
			return fmt.Errorf("failed to fetch cart item: %w", err)
		}

		if item.Cart.UserID != callerID && !callerRole.AtLeast(models.RoleAdmin) {
			return ErrNotCartOwner
		}
		if quantity > item.Product.Stock {
			return fmt.Errorf("%w for %s: available %d", ErrInsufficientStock, item.Product.Name, item.Product.Stock)
		}

		if err := tx.Model(&models.CartItem{}).Where("id = ?", itemID).Update("quantity", quantity).Error; err != nil {
			return fmt.Errorf("failed to update cart item: %w", err)
		}
		item.Quantity = quantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *CartService) RemoveItem(callerID uuid.UUID, callerRole models.Role, itemID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Cart").First(&item, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartItemNotFound
			}
			return fmt.Errorf("failed to fetch cart item: %w", err)
		}

		if item.Cart.UserID != callerID && !callerRole.AtLeast(models.RoleAdmin) {
			return ErrNotCartOwner
		}

		if err := tx.Delete(&models.CartItem{}, "id = ?", itemID).Error; err != nil {
			return fmt.Errorf("failed to delete cart item: %w", err)
		}
		return nil
	})
}

// Checkout empties the caller's cart. It does not touch product stock
// and creates no order record; there is no order or payment subsystem.
func (s *CartService) Checkout(userID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartNotFound
			}
			return fmt.Errorf("failed to fetch cart: %w", err)
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to empty cart: %w", err)
		}
		return nil
	})
}

// ListAll returns every cart that has at least one item, newest first,
// with owner and product summaries for the admin dashboard.
func (s *CartService) ListAll() ([]dto.AdminCartResponse, error) {
	var carts []models.Cart
	err := s.db.Preload("User").Preload("Items.Product").
		Order("created_at DESC").
		Find(&carts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list carts: %w", err)
	}

	resp := make([]dto.AdminCartResponse, 0, len(carts))
	for i := range carts {
		if len(carts[i].Items) == 0 {
			continue
		}
		resp = append(resp, dto.AdminCartResponse{
			ID: carts[i].ID,
			User: dto.UserSummary{
				ID:    carts[i].User.ID,
				Name:  carts[i].User.Name,
				Email: carts[i].User.Email,
			},
			Items:     carts[i].Items,
			CreatedAt: carts[i].CreatedAt,
		})
	}
	return resp, nil
}

// ClearUserCart empties the named user's cart (full-admin action).
func (s *CartService) ClearUserCart(userID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartNotFound
			}
			return fmt.Errorf("failed to fetch cart: %w", err)
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
}
