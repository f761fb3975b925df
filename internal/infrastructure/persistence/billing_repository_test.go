package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	appbilling "github.com/retailops/backend/internal/application/billing"
	"github.com/retailops/backend/internal/domain/shared"
)

// newMockDB opens a GORM connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormPaymentRepository_FindByGatewayPaymentID(t *testing.T) {
	t.Run("finds existing payment", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		companyID := uuid.New()
		paymentID := uuid.New()
		invoiceID := uuid.New()
		gatewayID := "pay_gw_42"

		rows := sqlmock.NewRows([]string{"id", "company_id", "invoice_id", "amount", "method", "gateway_payment_id", "status"}).
			AddRow(paymentID, companyID, invoiceID, decimal.NewFromInt(500), "GATEWAY", gatewayID, "SUCCESS")

		mock.ExpectQuery(`SELECT \* FROM "payments" WHERE company_id = \$1 AND gateway_payment_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(companyID, gatewayID, 1).
			WillReturnRows(rows)

		payment, err := NewGormPaymentRepository(db).FindByGatewayPaymentID(context.Background(), companyID, gatewayID)
		require.NoError(t, err)
		assert.Equal(t, paymentID, payment.ID)
		assert.Equal(t, invoiceID, payment.InvoiceID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to not found", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		companyID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "payments" WHERE company_id = \$1 AND gateway_payment_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(companyID, "pay_missing", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := NewGormPaymentRepository(db).FindByGatewayPaymentID(context.Background(), companyID, "pay_missing")
		require.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTranslateError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, translateError(nil))
	})

	t.Run("pgx unique violation becomes conflict", func(t *testing.T) {
		err := translateError(&pgconn.PgError{Code: "23505"})
		assert.ErrorIs(t, err, shared.ErrConflict)
	})

	t.Run("lib/pq unique violation becomes conflict", func(t *testing.T) {
		err := translateError(&pq.Error{Code: "23505"})
		assert.ErrorIs(t, err, shared.ErrConflict)
	})

	t.Run("gorm duplicated key becomes conflict", func(t *testing.T) {
		err := translateError(gorm.ErrDuplicatedKey)
		assert.ErrorIs(t, err, shared.ErrConflict)
	})

	t.Run("other postgres errors pass through", func(t *testing.T) {
		pqErr := &pq.Error{Code: "23503"} // foreign key violation
		err := translateError(pqErr)
		assert.NotErrorIs(t, err, shared.ErrConflict)
		assert.ErrorAs(t, err, &pqErr)
	})

	t.Run("unrelated errors pass through", func(t *testing.T) {
		sentinel := errors.New("boom")
		assert.ErrorIs(t, translateError(sentinel), sentinel)
	})
}

func TestGormTransactionScope_RollsBackOnError(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	sentinel := errors.New("business rule violated")
	scope := NewGormTransactionScope(db)
	err := scope.Execute(context.Background(), func(repos appbilling.Repositories) error {
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepositories_AtomicFailureKeepsTransactionLive(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	companyID := uuid.New()
	gatewayID := "pay_gw_race"
	conflict := &pgconn.PgError{Code: "23505"}

	mock.ExpectBegin()
	mock.ExpectExec(`SAVEPOINT .*`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "payments" .*`).WillReturnError(conflict)
	mock.ExpectExec(`ROLLBACK TO SAVEPOINT .*`).WillReturnResult(sqlmock.NewResult(0, 0))
	// The recovery lookup after the failed insert still runs in the same
	// outer transaction.
	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE company_id = \$1 AND gateway_payment_id = \$2 ORDER BY .* LIMIT .*`).
		WithArgs(companyID, gatewayID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "gateway_payment_id"}).
			AddRow(uuid.New(), companyID, gatewayID))
	mock.ExpectCommit()

	scope := NewGormTransactionScope(db)
	err := scope.Execute(context.Background(), func(repos appbilling.Repositories) error {
		atomicErr := repos.Atomic(func(inner appbilling.Repositories) error {
			return inner.(*gormRepositories).tx.Exec(`INSERT INTO "payments" DEFAULT VALUES`).Error
		})
		require.ErrorAs(t, atomicErr, &conflict)

		_, findErr := repos.Payments().FindByGatewayPaymentID(context.Background(), companyID, gatewayID)
		return findErr
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactionScope_CommitsOnSuccess(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	scope := NewGormTransactionScope(db)
	err := scope.Execute(context.Background(), func(repos appbilling.Repositories) error {
		require.NotNil(t, repos.Payments())
		require.NotNil(t, repos.Invoices())
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
