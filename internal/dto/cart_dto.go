package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/threadcart/backend/internal/models"
)

type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// CartResponse keeps the same shape whether or not a cart row exists,
// so a user without a cart gets an id-less empty cart instead of a 404.
type CartResponse struct {
	ID     *uuid.UUID        `json:"id,omitempty"`
	UserID uuid.UUID         `json:"user_id"`
	Items  []models.CartItem `json:"cartItems"`
}

type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type AdminCartResponse struct {
	ID        uuid.UUID         `json:"id"`
	User      UserSummary       `json:"user"`
	Items     []models.CartItem `json:"cartItems"`
	CreatedAt time.Time         `json:"created_at"`
}

type AddToCartResponse struct {
	Message  string          `json:"message"`
	CartItem models.CartItem `json:"cartItem"`
}

type UpdateCartItemResponse struct {
	Message  string          `json:"message"`
	CartItem models.CartItem `json:"updatedCartItem"`
}
