package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productCols = []string{
	"id", "slug", "name", "description", "buy_price", "rent_price_daily", "rent_price_monthly",
	"images", "specifications", "status", "category_id", "category_name", "featured", "stock_quantity",
	"created_at", "updated_at",
}

func intPtr(v int) *int { return &v }

func productRow(rows *pgxmock.Rows, id, slug, name string, buy *int64, category *string, featured bool) *pgxmock.Rows {
	created := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	return rows.AddRow(
		id, slug, name, strPtr("Mô tả"), buy, price(350_000), (*int64)(nil),
		[]string{"https://cdn.example.com/" + slug + ".jpg"}, []byte(`{"Công suất":"1500W","Trọng lượng":"16kg"}`),
		"available", category, "Máy đục", featured, intPtr(3),
		created, created,
	)
}

func TestPostgresStore_ListProducts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows(productCols)
	productRow(rows, "p1", "bosch-gsh-16", "Máy đục Bosch GSH 16", price(15_000_000), strPtr("c1"), true)
	productRow(rows, "p2", "makita-hm1307", "Máy đục Makita HM1307", nil, strPtr("c1"), false)
	mock.ExpectQuery("SELECT (.+) FROM products p LEFT JOIN categories c (.+) ORDER BY p.created_at DESC").
		WillReturnRows(rows)

	store := NewPostgresStore(mock)
	products, err := store.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	p := products[0]
	assert.Equal(t, "bosch-gsh-16", p.Slug)
	assert.Equal(t, int64(15_000_000), *p.BuyPrice)
	assert.Equal(t, int64(350_000), *p.RentPriceDaily)
	assert.Nil(t, p.RentPriceMonthly)
	assert.Equal(t, StatusAvailable, p.Status)
	assert.Equal(t, "1500W", p.Specifications["Công suất"])
	assert.Equal(t, "Máy đục", p.CategoryName)
	assert.Equal(t, 3, *p.StockQuantity)
	assert.True(t, p.Featured)
	assert.Nil(t, products[1].BuyPrice)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListProductsError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM products").WillReturnError(errors.New("connection reset"))

	_, err = NewPostgresStore(mock).ListProducts(context.Background())
	assert.ErrorContains(t, err, "catalog: query products")
}

func TestPostgresStore_GetProductBySlug(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows(productCols)
	productRow(rows, "p1", "bosch-gsh-16", "Máy đục Bosch GSH 16", price(15_000_000), strPtr("c1"), true)
	mock.ExpectQuery("SELECT (.+) WHERE p.slug = \\$1").WithArgs("bosch-gsh-16").WillReturnRows(rows)
	mock.ExpectQuery("SELECT (.+) WHERE p.slug = \\$1").WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	store := NewPostgresStore(mock)
	p, err := store.GetProductBySlug(context.Background(), "bosch-gsh-16")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)

	_, err = store.GetProductBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRelated(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows(productCols)
	productRow(rows, "p2", "makita-hm1307", "Máy đục Makita HM1307", nil, strPtr("c1"), false)
	mock.ExpectQuery("WHERE p.category_id = \\$1 AND p.id <> \\$2 ORDER BY p.created_at DESC LIMIT \\$3").
		WithArgs("c1", "p1", RelatedLimit).
		WillReturnRows(rows)

	store := NewPostgresStore(mock)
	related, err := store.ListRelated(context.Background(), &Product{ID: "p1", CategoryID: strPtr("c1")}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Máy đục Makita HM1307"}, names(related))

	none, err := store.ListRelated(context.Background(), &Product{ID: "p9"}, RelatedLimit)
	require.NoError(t, err)
	assert.Empty(t, none)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListFeatured(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows(productCols)
	productRow(rows, "p1", "bosch-gsh-16", "Máy đục Bosch GSH 16", price(15_000_000), strPtr("c1"), true)
	mock.ExpectQuery("WHERE p.featured = true").WithArgs(FeaturedLimit).WillReturnRows(rows)

	featured, err := NewPostgresStore(mock).ListFeatured(context.Background(), -1)
	require.NoError(t, err)
	assert.Len(t, featured, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ProductName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT name FROM products WHERE id").
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Máy đục Bosch GSH 16"))
	mock.ExpectQuery("SELECT name FROM products WHERE id").
		WithArgs("p9").
		WillReturnRows(pgxmock.NewRows([]string{"name"}))

	store := NewPostgresStore(mock)
	name, err := store.ProductName(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Máy đục Bosch GSH 16", name)

	_, err = store.ProductName(context.Background(), "p9")
	assert.ErrorIs(t, err, ErrProductNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListCategories(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM categories ORDER BY name").
		WillReturnRows(pgxmock.NewRows([]string{"id", "slug", "name", "description", "icon", "created_at"}).
			AddRow("c1", "may-duc", "Máy đục", (*string)(nil), strPtr("hammer"), created).
			AddRow("c2", "may-toi", "Máy tời", strPtr("Tời điện"), (*string)(nil), created))

	categories, err := NewPostgresStore(mock).ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "hammer", *categories[0].Icon)
	assert.Nil(t, categories[0].Description)
	assert.Equal(t, "Tời điện", *categories[1].Description)
	require.NoError(t, mock.ExpectationsWereMet())
}
