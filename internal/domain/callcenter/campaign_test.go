package callcenter

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCampaign(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates pending active campaign", func(t *testing.T) {
		campaign, err := NewCampaign(tenantID, "Spring Outreach")

		require.NoError(t, err)
		assert.Equal(t, CampaignStatusPending, campaign.Status)
		assert.True(t, campaign.IsActive)
		assert.True(t, campaign.Budget.IsZero())

		events := campaign.GetDomainEvents()
		assert.Len(t, events, 1)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCampaign(tenantID, "   ")

		assert.Error(t, err)
	})
}

func TestCampaignStatusTransitions(t *testing.T) {
	tenantID := uuid.New()

	t.Run("pending to in_progress to completed", func(t *testing.T) {
		campaign, err := NewCampaign(tenantID, "Spring Outreach")
		require.NoError(t, err)

		require.NoError(t, campaign.UpdateStatus(CampaignStatusInProgress))
		require.NoError(t, campaign.UpdateStatus(CampaignStatusCompleted))
		assert.Equal(t, CampaignStatusCompleted, campaign.Status)
	})

	t.Run("terminal status cannot change", func(t *testing.T) {
		campaign, err := NewCampaign(tenantID, "Spring Outreach")
		require.NoError(t, err)

		require.NoError(t, campaign.UpdateStatus(CampaignStatusCancelled))
		assert.Error(t, campaign.UpdateStatus(CampaignStatusInProgress))
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		campaign, err := NewCampaign(tenantID, "Spring Outreach")
		require.NoError(t, err)

		assert.Error(t, campaign.UpdateStatus(CampaignStatus("paused")))
	})

	t.Run("rejects no-op status change", func(t *testing.T) {
		campaign, err := NewCampaign(tenantID, "Spring Outreach")
		require.NoError(t, err)

		assert.Error(t, campaign.UpdateStatus(CampaignStatusPending))
	})
}

func TestCampaignActiveFlag(t *testing.T) {
	tenantID := uuid.New()

	campaign, err := NewCampaign(tenantID, "Spring Outreach")
	require.NoError(t, err)

	assert.Error(t, campaign.Activate())
	require.NoError(t, campaign.Deactivate())
	assert.False(t, campaign.IsActive)
	assert.Error(t, campaign.Deactivate())
	require.NoError(t, campaign.Activate())
	assert.True(t, campaign.IsActive)
}

func TestCampaignBudget(t *testing.T) {
	tenantID := uuid.New()

	t.Run("sets budget and derives lead capacity", func(t *testing.T) {
		campaign, err := NewCampaign(tenantID, "Spring Outreach")
		require.NoError(t, err)

		budget := decimal.RequireFromString("1000.00")
		costPerLead := decimal.RequireFromString("2.50")
		require.NoError(t, campaign.SetBudget(budget, costPerLead))

		assert.Equal(t, int64(400), campaign.EstimatedLeadCapacity())
	})

	t.Run("zero cost per lead yields zero capacity", func(t *testing.T) {
		campaign, err := NewCampaign(tenantID, "Spring Outreach")
		require.NoError(t, err)

		require.NoError(t, campaign.SetBudget(decimal.NewFromInt(100), decimal.Zero))
		assert.Equal(t, int64(0), campaign.EstimatedLeadCapacity())
	})

	t.Run("rejects negative budget", func(t *testing.T) {
		campaign, err := NewCampaign(tenantID, "Spring Outreach")
		require.NoError(t, err)

		assert.Error(t, campaign.SetBudget(decimal.NewFromInt(-1), decimal.Zero))
	})
}

func TestCampaignSchedule(t *testing.T) {
	tenantID := uuid.New()

	campaign, err := NewCampaign(tenantID, "Spring Outreach")
	require.NoError(t, err)

	start := time.Now()
	end := start.AddDate(0, 1, 0)

	require.NoError(t, campaign.SetSchedule(&start, &end))
	assert.Equal(t, start, *campaign.StartDate)

	bad := start.AddDate(0, -1, 0)
	assert.Error(t, campaign.SetSchedule(&start, &bad))
}
