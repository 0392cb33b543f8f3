package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/threadcart/backend/internal/dto"
)

func TestGetProductNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewProductService(db)

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.GetByID(uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSearchMatchesAllTextColumns(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewProductService(db)

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE name ILIKE \$1 OR description ILIKE \$2 OR category ILIKE \$3 OR color ILIKE \$4`).
		WithArgs("%blue%", "%blue%", "%blue%", "%blue%").
		WillReturnRows(productRows(uuid.New(), "Blue Shirt", 4))

	products, err := svc.Search("blue")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Blue Shirt", products[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProductOnlySetFields(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewProductService(db)
	productID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
		WillReturnRows(productRows(productID, "Shirt", 4))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "products" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	price := 59.9
	_, err := svc.Update(productID, &dto.UpdateProductRequest{Price: &price})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProductNoFieldsSkipsWrite(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewProductService(db)
	productID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
		WillReturnRows(productRows(productID, "Shirt", 4))

	product, err := svc.Update(productID, &dto.UpdateProductRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Shirt", product.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProductReturnsName(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewProductService(db)
	productID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
		WillReturnRows(productRows(productID, "Winter Coat", 2))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "products"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	name, err := svc.Delete(productID)
	require.NoError(t, err)
	assert.Equal(t, "Winter Coat", name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryGroupsByCategory(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewProductService(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(stock\), 0\) FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(42))
	mock.ExpectQuery(`SELECT COALESCE\(NULLIF\(category, ''\), 'uncategorized'\) AS category`).
		WillReturnRows(sqlmock.NewRows([]string{"category", "count", "stock"}).
			AddRow("shirts", 5, 30).
			AddRow("uncategorized", 2, 12))

	summary, err := svc.Summary()
	require.NoError(t, err)
	assert.Equal(t, int64(7), summary.TotalProducts)
	assert.Equal(t, int64(42), summary.TotalStock)
	require.Len(t, summary.Categories, 2)
	assert.Equal(t, "shirts", summary.Categories[0].Category)
	assert.Equal(t, int64(5), summary.Categories[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
