package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/callcrm/backend/internal/domain/callcenter"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormLeadRepository_FindByIDForTenant(t *testing.T) {
	t.Run("finds lead within the tenant", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormLeadRepository(db)

		tenantID := uuid.New()
		leadID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "first_name", "last_name", "phone", "status", "score"}).
			AddRow(leadID, tenantID, "Jamie", "Reyes", "+15550100", "new", 0)

		mock.ExpectQuery(`SELECT \* FROM "leads" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, leadID, 1).
			WillReturnRows(rows)

		lead, err := repo.FindByIDForTenant(context.Background(), tenantID, leadID)

		assert.NoError(t, err)
		require.NotNil(t, lead)
		assert.Equal(t, leadID, lead.ID)
		assert.Equal(t, tenantID, lead.TenantID)
		assert.Equal(t, callcenter.LeadStatusNew, lead.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("does not see another tenant's lead", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormLeadRepository(db)

		tenantID := uuid.New()
		leadID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "leads" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, leadID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		lead, err := repo.FindByIDForTenant(context.Background(), tenantID, leadID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, lead)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormLeadRepository_FindAllForTenant(t *testing.T) {
	t.Run("returns leads with total count", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormLeadRepository(db)

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "leads" WHERE tenant_id = \$1`).
			WithArgs(tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "first_name", "last_name", "phone", "status", "score"}).
			AddRow(uuid.New(), tenantID, "Jamie", "Reyes", "+15550100", "new", 0).
			AddRow(uuid.New(), tenantID, "Sara", "Lindt", "+15550101", "contacted", 40)

		mock.ExpectQuery(`SELECT \* FROM "leads" WHERE tenant_id = \$1`).
			WithArgs(tenantID).
			WillReturnRows(rows)

		leads, total, err := repo.FindAllForTenant(context.Background(), tenantID, shared.Filter{Page: 1, PageSize: 20})

		assert.NoError(t, err)
		assert.Len(t, leads, 2)
		assert.Equal(t, int64(2), total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies status and campaign filters", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormLeadRepository(db)

		tenantID := uuid.New()
		campaignID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "leads" WHERE tenant_id = \$1 AND`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "campaign_id", "first_name", "last_name", "phone", "status", "score"}).
			AddRow(uuid.New(), tenantID, campaignID, "Jamie", "Reyes", "+15550100", "qualified", 70)

		mock.ExpectQuery(`SELECT \* FROM "leads" WHERE tenant_id = \$1 AND`).
			WillReturnRows(rows)

		filter := shared.Filter{Filters: map[string]interface{}{
			"status":      "qualified",
			"campaign_id": campaignID.String(),
		}}
		leads, total, err := repo.FindAllForTenant(context.Background(), tenantID, filter)

		assert.NoError(t, err)
		assert.Len(t, leads, 1)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, callcenter.LeadStatusQualified, leads[0].Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormLeadRepository_FindByAgentForTenant(t *testing.T) {
	t.Run("returns leads assigned to the agent", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormLeadRepository(db)

		tenantID := uuid.New()
		agentID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "agent_id", "first_name", "last_name", "phone", "status", "score"}).
			AddRow(uuid.New(), tenantID, agentID, "Jamie", "Reyes", "+15550100", "contacted", 30)

		mock.ExpectQuery(`SELECT \* FROM "leads" WHERE tenant_id = \$1 AND agent_id = \$2`).
			WithArgs(tenantID, agentID).
			WillReturnRows(rows)

		leads, err := repo.FindByAgentForTenant(context.Background(), tenantID, agentID)

		assert.NoError(t, err)
		require.Len(t, leads, 1)
		require.NotNil(t, leads[0].AgentID)
		assert.Equal(t, agentID, *leads[0].AgentID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormLeadRepository_DeleteForTenant(t *testing.T) {
	t.Run("deletes lead within the tenant", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormLeadRepository(db)

		tenantID := uuid.New()
		leadID := uuid.New()

		mock.ExpectExec(`DELETE FROM "leads" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, leadID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DeleteForTenant(context.Background(), tenantID, leadID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when row belongs to another tenant", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormLeadRepository(db)

		tenantID := uuid.New()
		leadID := uuid.New()

		mock.ExpectExec(`DELETE FROM "leads" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, leadID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteForTenant(context.Background(), tenantID, leadID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
