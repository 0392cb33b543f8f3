// Package authctx gives handlers typed access to the identity the JWT
// middleware stored in the request context.
package authctx

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/threadcart/backend/internal/models"
)

// GetUserID extracts the user UUID from JWT claims in context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, err := getClaims(c)
	if err != nil {
		return uuid.Nil, err
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

// GetRole extracts the caller's role from JWT claims in context.
// Anything missing or malformed degrades to VISITOR.
func GetRole(c *fiber.Ctx) models.Role {
	claims, err := getClaims(c)
	if err != nil {
		return models.RoleVisitor
	}

	raw, ok := claims["role"].(string)
	if !ok {
		return models.RoleVisitor
	}

	role := models.Role(raw)
	if !role.Valid() {
		return models.RoleVisitor
	}
	return role
}

func getClaims(c *fiber.Ctx) (jwt.MapClaims, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	return claims, nil
}
