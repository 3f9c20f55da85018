package car

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var carRowColumns = []string{
	"id", "owner_id", "title", "brand", "model", "year", "plate_number", "location",
	"price_per_hour", "price_per_day", "approval_status", "insurance_expiry", "is_available",
	"days_of_week", "start_time", "end_time", "timezone", "created_at", "updated_at",
}

func setupCarMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(sqlDB, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })

	return NewRepository(sqlxDB), mock
}

func carRow(id int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(carRowColumns).AddRow(
		id, 10, "Civic", "Honda", "Civic", 2020, "LEA-1", "Lahore",
		nil, "1000.00", ApprovalApproved, now.Add(90*24*time.Hour), true,
		"{1,2,3,4,5}", "08:00", "20:00", "Asia/Karachi", now, now,
	)
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := setupCarMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM cars WHERE id = $1")).
		WithArgs(3).
		WillReturnRows(carRow(3))

	c, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, c.ID)
	assert.False(t, c.PricePerHour.Valid)
	assert.Equal(t, "1000", c.PricePerDay.String())
	assert.Len(t, c.DaysOfWeek, 5)
	require.NotNil(t, c.InsuranceExpiry)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupCarMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM cars WHERE id = $1")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(carRowColumns))

	_, err := repo.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrCarNotFound)
}

func TestRepository_CountByOwner(t *testing.T) {
	repo, mock := setupCarMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM cars WHERE owner_id = $1")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountByOwner(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestRepository_UpdateApproval(t *testing.T) {
	repo, mock := setupCarMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE cars SET approval_status = $2, updated_at = NOW() WHERE id = $1")).
		WithArgs(3, ApprovalApproved).
		WillReturnRows(carRow(3))

	c, err := repo.UpdateApproval(context.Background(), 3, ApprovalApproved)
	require.NoError(t, err)
	assert.Equal(t, ApprovalApproved, c.ApprovalStatus)
	require.NoError(t, mock.ExpectationsWereMet())
}
