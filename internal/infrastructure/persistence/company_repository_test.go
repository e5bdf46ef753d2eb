package persistence

import (
	"context"
	"testing"

	"database/sql"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/callcrm/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	m := testutil.NewMockDB(t)
	return m.DB, m.Mock, m.SqlDB
}

func TestNewGormCompanyRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		db, _, _ := newMockDB(t)

		repo := NewGormCompanyRepository(db)

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormCompanyRepository_FindByID(t *testing.T) {
	t.Run("finds existing company", func(t *testing.T) {
		db, mock, _ := newMockDB(t)
		repo := NewGormCompanyRepository(db)

		companyID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "code", "name", "status", "admin_email"}).
			AddRow(companyID, "ACME", "Acme Calls", "active", "admin@acme.test")

		mock.ExpectQuery(`SELECT \* FROM "companies" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(companyID, 1).
			WillReturnRows(rows)

		company, err := repo.FindByID(context.Background(), companyID)

		assert.NoError(t, err)
		require.NotNil(t, company)
		assert.Equal(t, companyID, company.ID)
		assert.Equal(t, "ACME", company.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for non-existent company", func(t *testing.T) {
		db, mock, _ := newMockDB(t)
		repo := NewGormCompanyRepository(db)

		companyID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "companies" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(companyID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		company, err := repo.FindByID(context.Background(), companyID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, company)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCompanyRepository_FindByCode(t *testing.T) {
	t.Run("uppercases the code before matching", func(t *testing.T) {
		db, mock, _ := newMockDB(t)
		repo := NewGormCompanyRepository(db)

		companyID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "code", "name", "status", "admin_email"}).
			AddRow(companyID, "ACME", "Acme Calls", "active", "admin@acme.test")

		mock.ExpectQuery(`SELECT \* FROM "companies" WHERE code = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("ACME", 1).
			WillReturnRows(rows)

		company, err := repo.FindByCode(context.Background(), "acme")

		assert.NoError(t, err)
		require.NotNil(t, company)
		assert.Equal(t, "ACME", company.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCompanyRepository_FindByAdminEmail(t *testing.T) {
	t.Run("rejects empty email", func(t *testing.T) {
		db, _, _ := newMockDB(t)
		repo := NewGormCompanyRepository(db)

		company, err := repo.FindByAdminEmail(context.Background(), "")

		assert.Error(t, err)
		assert.Nil(t, company)
	})

	t.Run("lowercases the email before matching", func(t *testing.T) {
		db, mock, _ := newMockDB(t)
		repo := NewGormCompanyRepository(db)

		companyID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "code", "name", "status", "admin_email"}).
			AddRow(companyID, "ACME", "Acme Calls", "active", "admin@acme.test")

		mock.ExpectQuery(`SELECT \* FROM "companies" WHERE admin_email = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("admin@acme.test", 1).
			WillReturnRows(rows)

		company, err := repo.FindByAdminEmail(context.Background(), "Admin@Acme.Test")

		assert.NoError(t, err)
		require.NotNil(t, company)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCompanyRepository_FindAll(t *testing.T) {
	t.Run("returns companies with total count", func(t *testing.T) {
		db, mock, _ := newMockDB(t)
		repo := NewGormCompanyRepository(db)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "companies"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		rows := sqlmock.NewRows([]string{"id", "code", "name", "status", "admin_email"}).
			AddRow(uuid.New(), "ACME", "Acme Calls", "active", "admin@acme.test").
			AddRow(uuid.New(), "GLOBEX", "Globex", "active", "admin@globex.test")

		mock.ExpectQuery(`SELECT \* FROM "companies"`).
			WillReturnRows(rows)

		companies, total, err := repo.FindAll(context.Background(), shared.Filter{Page: 1, PageSize: 20})

		assert.NoError(t, err)
		assert.Len(t, companies, 2)
		assert.Equal(t, int64(2), total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies status filter", func(t *testing.T) {
		db, mock, _ := newMockDB(t)
		repo := NewGormCompanyRepository(db)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "companies" WHERE status = \$1`).
			WithArgs("suspended").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows([]string{"id", "code", "name", "status", "admin_email"}).
			AddRow(uuid.New(), "ACME", "Acme Calls", "suspended", "admin@acme.test")

		mock.ExpectQuery(`SELECT \* FROM "companies" WHERE status = \$1`).
			WithArgs("suspended").
			WillReturnRows(rows)

		filter := shared.Filter{Filters: map[string]interface{}{"status": "suspended"}}
		companies, total, err := repo.FindAll(context.Background(), filter)

		assert.NoError(t, err)
		assert.Len(t, companies, 1)
		assert.Equal(t, int64(1), total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCompanyRepository_ExistsByCode(t *testing.T) {
	t.Run("returns true when code exists", func(t *testing.T) {
		db, mock, _ := newMockDB(t)
		repo := NewGormCompanyRepository(db)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "companies" WHERE code = \$1`).
			WithArgs("ACME").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByCode(context.Background(), "acme")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false when code is unused", func(t *testing.T) {
		db, mock, _ := newMockDB(t)
		repo := NewGormCompanyRepository(db)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "companies" WHERE code = \$1`).
			WithArgs("NOPE").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsByCode(context.Background(), "nope")

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCompanyRepository_Delete(t *testing.T) {
	t.Run("deletes existing company", func(t *testing.T) {
		db, mock, _ := newMockDB(t)
		repo := NewGormCompanyRepository(db)

		companyID := uuid.New()

		mock.ExpectExec(`DELETE FROM "companies" WHERE id = \$1`).
			WithArgs(companyID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), companyID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when nothing deleted", func(t *testing.T) {
		db, mock, _ := newMockDB(t)
		repo := NewGormCompanyRepository(db)

		companyID := uuid.New()

		mock.ExpectExec(`DELETE FROM "companies" WHERE id = \$1`).
			WithArgs(companyID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), companyID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
