package callcenter

import (
	"time"

	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportType represents the granularity of a call report
type ReportType string

const (
	ReportTypeDaily           ReportType = "daily"
	ReportTypeWeekly          ReportType = "weekly"
	ReportTypeMonthly         ReportType = "monthly"
	ReportTypeCampaignSummary ReportType = "campaign_summary"
)

// IsValid returns true for a known report type
func (t ReportType) IsValid() bool {
	switch t {
	case ReportTypeDaily, ReportTypeWeekly, ReportTypeMonthly, ReportTypeCampaignSummary:
		return true
	default:
		return false
	}
}

// CallReport is an aggregate snapshot of campaign calling activity,
// typed by granularity and dated by report_date.
type CallReport struct {
	shared.TenantAggregateRoot
	CampaignID     uuid.UUID
	Type           ReportType
	ReportDate     time.Time
	CallsMade      int
	CallsConnected int
	LeadsConverted int
	TotalCost      decimal.Decimal
}

// NewCallReport creates a new report for a campaign
func NewCallReport(tenantID, campaignID uuid.UUID, reportType ReportType, reportDate time.Time) (*CallReport, error) {
	if campaignID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CAMPAIGN_ID", "Campaign ID cannot be empty")
	}
	if !reportType.IsValid() {
		return nil, shared.NewDomainError("INVALID_REPORT_TYPE", "Invalid report type")
	}
	if reportDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_REPORT_DATE", "Report date cannot be empty")
	}

	return &CallReport{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CampaignID:          campaignID,
		Type:                reportType,
		ReportDate:          reportDate.Truncate(24 * time.Hour),
		TotalCost:           decimal.Zero,
	}, nil
}

// SetFigures replaces the report's aggregate counters
func (r *CallReport) SetFigures(callsMade, callsConnected, leadsConverted int, totalCost decimal.Decimal) error {
	if callsMade < 0 || callsConnected < 0 || leadsConverted < 0 {
		return shared.NewDomainError("INVALID_FIGURES", "Report counters cannot be negative")
	}
	if callsConnected > callsMade {
		return shared.NewDomainError("INVALID_FIGURES", "Connected calls cannot exceed calls made")
	}
	if totalCost.IsNegative() {
		return shared.NewDomainError("INVALID_FIGURES", "Total cost cannot be negative")
	}

	r.CallsMade = callsMade
	r.CallsConnected = callsConnected
	r.LeadsConverted = leadsConverted
	r.TotalCost = totalCost
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// ConnectRate returns connected calls over calls made as a decimal
// between 0 and 1, or zero when no calls were made
func (r *CallReport) ConnectRate() decimal.Decimal {
	if r.CallsMade == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(r.CallsConnected)).Div(decimal.NewFromInt(int64(r.CallsMade)))
}

// CostPerConversion returns total cost per converted lead, or zero when
// nothing converted
func (r *CallReport) CostPerConversion() decimal.Decimal {
	if r.LeadsConverted == 0 {
		return decimal.Zero
	}
	return r.TotalCost.Div(decimal.NewFromInt(int64(r.LeadsConverted)))
}
