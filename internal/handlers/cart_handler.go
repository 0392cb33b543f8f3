package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/threadcart/backend/internal/authctx"
	"github.com/threadcart/backend/internal/dto"
	"github.com/threadcart/backend/internal/services"
	"github.com/threadcart/backend/internal/validation"
)

type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	cart, err := h.cartService.GetCart(userID)
	if err != nil {
		slog.Error("cart fetch failed", "error", err, "user_id", userID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch cart",
		})
	}
	return c.JSON(cart)
}

func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if msgs := validation.Struct(&req); msgs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{Error: true, Errors: msgs})
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid product id",
		})
	}

	item, err := h.cartService.AddItem(userID, productID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Product not found",
			})
		case errors.Is(err, services.ErrInsufficientStock):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("cart add failed", "error", err, "user_id", userID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to add item to cart",
		})
	}

	return c.JSON(dto.AddToCartResponse{Message: "Item added to cart", CartItem: *item})
}

func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	itemID, err := uuid.Parse(c.Params("cartItemId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid cart item id",
		})
	}

	var req dto.UpdateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if msgs := validation.Struct(&req); msgs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{Error: true, Errors: msgs})
	}

	item, err := h.cartService.UpdateItem(userID, authctx.GetRole(c), itemID, req.Quantity)
	if err != nil {
		if handled, resp := h.cartMutationError(c, err); handled {
			return resp
		}
		slog.Error("cart item update failed", "error", err, "user_id", userID, "cart_item_id", itemID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update cart item",
		})
	}

	return c.JSON(dto.UpdateCartItemResponse{Message: "Cart item quantity updated", CartItem: *item})
}

func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	itemID, err := uuid.Parse(c.Params("cartItemId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid cart item id",
		})
	}

	if err := h.cartService.RemoveItem(userID, authctx.GetRole(c), itemID); err != nil {
		if handled, resp := h.cartMutationError(c, err); handled {
			return resp
		}
		slog.Error("cart item removal failed", "error", err, "user_id", userID, "cart_item_id", itemID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to remove cart item",
		})
	}

	return c.JSON(dto.MessageResponse{Message: "Item removed from cart"})
}

func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	if err := h.cartService.Checkout(userID); err != nil {
		if errors.Is(err, services.ErrCartNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Cart not found",
			})
		}
		slog.Error("checkout failed", "error", err, "user_id", userID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to complete checkout",
		})
	}

	return c.JSON(dto.MessageResponse{Message: "Checkout complete! Cart emptied."})
}

func (h *CartHandler) ListAll(c *fiber.Ctx) error {
	carts, err := h.cartService.ListAll()
	if err != nil {
		slog.Error("cart listing failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list carts",
		})
	}
	return c.JSON(carts)
}

func (h *CartHandler) ClearUserCart(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user id",
		})
	}

	if err := h.cartService.ClearUserCart(userID); err != nil {
		if errors.Is(err, services.ErrCartNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User's cart not found",
			})
		}
		slog.Error("cart clear failed", "error", err, "user_id", userID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to clear user's cart",
		})
	}

	return c.JSON(dto.MessageResponse{Message: fmt.Sprintf("Cart for user %s emptied successfully.", userID)})
}

// cartMutationError maps the shared item-mutation failures. When it
// returns handled=true the response has already been written; the
// returned error is the JSON serialization result, which may itself be
// nil, so callers must branch on the flag and never on the error.
func (h *CartHandler) cartMutationError(c *fiber.Ctx, err error) (bool, error) {
	switch {
	case errors.Is(err, services.ErrCartItemNotFound):
		return true, c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Cart item not found",
		})
	case errors.Is(err, services.ErrNotCartOwner):
		return true, c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Access denied.",
		})
	case errors.Is(err, services.ErrInsufficientStock):
		return true, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return false, nil
}
