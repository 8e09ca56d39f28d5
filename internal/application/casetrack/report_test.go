package casetrack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexfield/perm-engine/internal/domain/permcase"
)

func TestDeadlineReport_CoversEveryType(t *testing.T) {
	svc := newTestService()
	asOf := d(t, "2025-12-31")

	facts := &permcase.CaseDateFacts{
		EmployerName:      "Acme",
		PWDExpirationDate: dptr(t, "2026-01-15"),
	}

	rows, err := svc.DeadlineReport(facts, asOf)
	require.NoError(t, err)
	require.Len(t, rows, len(permcase.AllDeadlineTypes))

	byType := make(map[permcase.DeadlineType]DeadlineReportRow, len(rows))
	for _, r := range rows {
		byType[r.DeadlineType] = r
	}

	pwd := byType[permcase.DeadlinePWDExpiration]
	assert.True(t, pwd.Active)
	require.NotNil(t, pwd.Due)
	assert.Equal(t, "2026-01-15", pwd.Due.String())
	require.NotNil(t, pwd.DaysLeft)
	assert.Equal(t, 15, *pwd.DaysLeft) // Dec 31 to Jan 15
	assert.Equal(t, UrgencyUrgent, pwd.Urgency)

	// No recruitment recorded: the filing windows are live obligations but
	// have no computable dates yet.
	opens := byType[permcase.DeadlineFilingWindowOpens]
	assert.True(t, opens.Active)
	assert.Nil(t, opens.Due)
	assert.Nil(t, opens.DaysLeft)

	// Zero RFI/RFE entries read as responded.
	assert.False(t, byType[permcase.DeadlineRFIDue].Active)
	assert.Equal(t, permcase.ReasonRFIResponded, byType[permcase.DeadlineRFIDue].SupersededReason)
}

func TestDeadlineReport_SupersededAfterFiling(t *testing.T) {
	svc := newTestService()
	asOf := d(t, "2025-07-01")

	facts := &permcase.CaseDateFacts{
		PWDExpirationDate: dptr(t, "2025-12-31"),
		ETA9089FilingDate: dptr(t, "2025-06-01"),
	}

	rows, err := svc.DeadlineReport(facts, asOf)
	require.NoError(t, err)

	for _, r := range rows {
		switch r.DeadlineType {
		case permcase.DeadlinePWDExpiration, permcase.DeadlineFilingWindowOpens,
			permcase.DeadlineFilingWindowCloses, permcase.DeadlineRecruitmentWindowCloses:
			assert.False(t, r.Active, "type %s should be superseded after filing", r.DeadlineType)
			assert.Equal(t, permcase.ReasonETA9089Filed, r.SupersededReason, "type %s", r.DeadlineType)
		}
	}
}

func TestAuxDeadlines_OnlyComputableDates(t *testing.T) {
	svc := newTestService()

	facts := &permcase.CaseDateFacts{
		JobOrderStartDate: dptr(t, "2024-03-01"),
		PWDExpirationDate: dptr(t, "2025-06-30"),
	}

	aux := svc.AuxDeadlines(facts)
	byName := make(map[string]string, len(aux))
	for _, a := range aux {
		byName[a.Name] = a.Due.String()
	}

	assert.Equal(t, "2024-03-31", byName["job_order_end"])
	assert.Equal(t, "2025-05-25", byName["sunday_ad_second_due"])
	// No audit or notice dates on record, so neither entry appears.
	assert.NotContains(t, byName, "audit_response_due")
	assert.NotContains(t, byName, "notice_of_filing_end")
}

func TestDeadlineReport_ClosedCase(t *testing.T) {
	svc := newTestService()

	facts := &permcase.CaseDateFacts{
		PWDExpirationDate: dptr(t, "2026-01-15"),
		CaseStatus:        permcase.StatusClosed,
	}

	rows, err := svc.DeadlineReport(facts, d(t, "2025-06-01"))
	require.NoError(t, err)
	for _, r := range rows {
		assert.False(t, r.Active)
		assert.Equal(t, permcase.ReasonCaseClosed, r.SupersededReason)
	}
}
