package leads

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

func TestPostgresRepository_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	createdAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	email := "a@example.com"
	productID := "6f1f0c38-9d0e-4d3c-9b7d-8c7c2f0d1e55"

	mock.ExpectQuery("INSERT INTO leads").
		WithArgs(pgxmock.AnyArg(), "Nguyễn Văn A", "0909123456", &email, (*string)(nil), (*string)(nil), "buy", &productID, "product_detail").
		WillReturnRows(pgxmock.NewRows([]string{"processed", "created_at"}).AddRow(false, createdAt))

	repo := NewPostgresRepository(mock)
	saved, err := repo.Save(context.Background(), &Lead{
		FullName:  "Nguyễn Văn A",
		Phone:     "0909123456",
		Email:     &email,
		Action:    ActionBuy,
		ProductID: &productID,
		Source:    "product_detail",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, createdAt, saved.CreatedAt)
	assert.False(t, saved.Processed)
	assert.Equal(t, ActionBuy, saved.Action)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_SaveError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	dbErr := errors.New("insert or update on table \"leads\" violates foreign key constraint")
	mock.ExpectQuery("INSERT INTO leads").WillReturnError(dbErr)

	repo := NewPostgresRepository(mock)
	_, err = repo.Save(context.Background(), &Lead{FullName: "A", Phone: "1", Action: ActionContact, Source: DefaultSource})

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, dbErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := "0b8a3c2e-4e56-4c1f-8f3a-6a8d5d2b9c11"
	createdAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	msg := "Thuê 3 ngày"

	mock.ExpectQuery("SELECT (.+) FROM leads WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "full_name", "phone", "email", "address", "message", "action", "product_id", "source", "processed", "created_at",
		}).AddRow(id, "B", "0912", (*string)(nil), (*string)(nil), &msg, "rent", (*string)(nil), "contact_page", true, createdAt))

	repo := NewPostgresRepository(mock)
	lead, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, lead.ID)
	assert.Equal(t, ActionRent, lead.Action)
	assert.Nil(t, lead.Email)
	require.NotNil(t, lead.Message)
	assert.Equal(t, msg, *lead.Message)
	assert.True(t, lead.Processed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM leads WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	repo := NewPostgresRepository(mock)
	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrLeadNotFound)
}
