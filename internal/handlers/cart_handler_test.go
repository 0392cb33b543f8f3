package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/threadcart/backend/internal/config"
	"github.com/threadcart/backend/internal/dto"
	"github.com/threadcart/backend/internal/handlers"
	"github.com/threadcart/backend/internal/middleware"
	"github.com/threadcart/backend/internal/models"
	"github.com/threadcart/backend/internal/services"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newCartApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, WithoutReturning: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	handler := handlers.NewCartHandler(services.NewCartService(db))

	cfg := &config.Config{JWTSecret: "test-secret"}
	app := fiber.New()
	cart := app.Group("/cart", middleware.JWTProtected(cfg))
	cart.Put("/update/:cartItemId", handler.UpdateItem)
	cart.Delete("/remove/:cartItemId", handler.RemoveItem)
	return app, mock
}

func bearerFor(t *testing.T, userID uuid.UUID, role models.Role) string {
	t.Helper()
	tokens := services.NewTokenService("test-secret", time.Hour)
	token, err := tokens.Generate(&models.User{ID: userID, Role: role})
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, app *fiber.App, method, path, auth, body string) (int, dto.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var parsed dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp.StatusCode, parsed
}

func TestUpdateItemNonOwnerGets403(t *testing.T) {
	app, mock := newCartApp(t)
	ownerID := uuid.New()
	callerID := uuid.New()
	cartID := uuid.New()
	productID := uuid.New()
	itemID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "cart_items" WHERE id = \$1.+FOR UPDATE`).
		WillReturnRows(cartItemRows(itemID, cartID, productID, 2))
	mock.ExpectQuery(`SELECT \* FROM "carts" WHERE "carts"\."id" = \$1`).
		WillReturnRows(cartRows(cartID, ownerID))
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE "products"\."id" = \$1`).
		WillReturnRows(productRows(productID, "Shirt", 10))
	mock.ExpectRollback()

	status, body := doJSON(t, app, http.MethodPut, "/cart/update/"+itemID.String(),
		bearerFor(t, callerID, models.RoleVisitor), `{"quantity":3}`)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Access denied.", body.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateItemMissingGets404(t *testing.T) {
	app, mock := newCartApp(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "cart_items" WHERE id = \$1.+FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	status, body := doJSON(t, app, http.MethodPut, "/cart/update/"+uuid.New().String(),
		bearerFor(t, uuid.New(), models.RoleVisitor), `{"quantity":3}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Cart item not found", body.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateItemOverStockGets400(t *testing.T) {
	app, mock := newCartApp(t)
	ownerID := uuid.New()
	cartID := uuid.New()
	productID := uuid.New()
	itemID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "cart_items" WHERE id = \$1.+FOR UPDATE`).
		WillReturnRows(cartItemRows(itemID, cartID, productID, 2))
	mock.ExpectQuery(`SELECT \* FROM "carts" WHERE "carts"\."id" = \$1`).
		WillReturnRows(cartRows(cartID, ownerID))
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE "products"\."id" = \$1`).
		WillReturnRows(productRows(productID, "Shirt", 1))
	mock.ExpectRollback()

	status, body := doJSON(t, app, http.MethodPut, "/cart/update/"+itemID.String(),
		bearerFor(t, ownerID, models.RoleVisitor), `{"quantity":5}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body.Message, "insufficient stock")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveItemNonOwnerGets403(t *testing.T) {
	app, mock := newCartApp(t)
	ownerID := uuid.New()
	cartID := uuid.New()
	productID := uuid.New()
	itemID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "cart_items" WHERE id = \$1.+FOR UPDATE`).
		WillReturnRows(cartItemRows(itemID, cartID, productID, 2))
	mock.ExpectQuery(`SELECT \* FROM "carts" WHERE "carts"\."id" = \$1`).
		WillReturnRows(cartRows(cartID, ownerID))
	mock.ExpectRollback()

	status, body := doJSON(t, app, http.MethodDelete, "/cart/remove/"+itemID.String(),
		bearerFor(t, uuid.New(), models.RoleVisitor), "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Access denied.", body.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func productRows(id uuid.UUID, name string, stock int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "price", "stock"}).
		AddRow(id.String(), name, 49.9, stock)
}

func cartRows(cartID, userID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id"}).
		AddRow(cartID.String(), userID.String())
}

func cartItemRows(itemID, cartID, productID uuid.UUID, quantity int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "cart_id", "product_id", "quantity"}).
		AddRow(itemID.String(), cartID.String(), productID.String(), quantity)
}
