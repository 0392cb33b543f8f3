package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/threadcart/backend/internal/dto"
	"github.com/threadcart/backend/internal/handlers"
	"github.com/threadcart/backend/internal/services"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newUserApp wires a user handler against a sqlmock DB with no
// expectations, so any request that reaches the database fails the test.
func newUserApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, WithoutReturning: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	tokens := services.NewTokenService("test-secret", time.Hour)
	userService := services.NewUserService(db, tokens, noopMailer{}, 15*time.Minute)
	handler := handlers.NewUserHandler(userService)

	app := fiber.New()
	app.Post("/users/register", handler.Register)
	app.Post("/users/login", handler.Login)
	return app, mock
}

type noopMailer struct{}

func (noopMailer) Send(_ context.Context, _, _, _ string) error { return nil }

func postJSON(t *testing.T, app *fiber.App, path, body string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, raw
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	app, mock := newUserApp(t)

	resp, raw := postJSON(t, app, "/users/register",
		`{"name":"Alice","email":"alice@example.com","password":"alllowercase"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body dto.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Contains(t, body.Errors, "password must contain uppercase letters")
	assert.Contains(t, body.Errors, "password must contain numbers")
	assert.Contains(t, body.Errors, "password must contain symbols")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterRejectsBadEmail(t *testing.T) {
	app, mock := newUserApp(t)

	resp, _ := postJSON(t, app, "/users/register",
		`{"name":"Alice","email":"not-an-email","password":"Secret1!"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterIgnoresCallerSuppliedRole(t *testing.T) {
	app, mock := newUserApp(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// The role field is not part of the request contract; a caller
	// smuggling one in still comes out a VISITOR.
	resp, raw := postJSON(t, app, "/users/register",
		`{"name":"Mallory","email":"mallory@example.com","password":"Secret1!","role":"ADMIN"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var body dto.UserResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "VISITOR", string(body.Role))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginMalformedBodyGetsGenericMessage(t *testing.T) {
	app, mock := newUserApp(t)

	resp, raw := postJSON(t, app, "/users/login", `{"email":"","password":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Invalid email or password", body.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}
