package casetrack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexfield/perm-engine/internal/domain/permcase"
	"github.com/lexfield/perm-engine/pkg/types/common"
)

func TestEvaluateClosure_I140Adjudicated(t *testing.T) {
	svc := newTestService()
	asOf := d(t, "2025-06-15")

	approved := CaseRecord{
		CaseID: common.ID("approved"),
		Facts:  permcase.CaseDateFacts{I140ApprovalDate: dptr(t, "2025-05-01")},
	}
	decision := svc.EvaluateClosure(approved, asOf)
	assert.True(t, decision.ShouldClose)
	assert.Equal(t, "i140 approved", decision.Reason)

	denied := CaseRecord{
		CaseID: common.ID("denied"),
		Facts:  permcase.CaseDateFacts{I140DenialDate: dptr(t, "2025-05-01")},
	}
	decision = svc.EvaluateClosure(denied, asOf)
	assert.True(t, decision.ShouldClose)
	assert.Equal(t, "i140 denied", decision.Reason)
}

func TestEvaluateClosure_PWDExpiredUnfiled(t *testing.T) {
	svc := newTestService()
	asOf := d(t, "2025-07-15")

	rec := CaseRecord{
		CaseID: common.ID("lapsed"),
		Facts:  permcase.CaseDateFacts{PWDExpirationDate: dptr(t, "2025-06-30")},
	}
	decision := svc.EvaluateClosure(rec, asOf)
	assert.True(t, decision.ShouldClose)
	assert.Equal(t, "pwd expired before filing", decision.Reason)

	// Filing before the expiration keeps the case open.
	rec.Facts.ETA9089FilingDate = dptr(t, "2025-06-01")
	decision = svc.EvaluateClosure(rec, asOf)
	assert.False(t, decision.ShouldClose)
}

func TestEvaluateClosure_StaleFiling(t *testing.T) {
	svc := newTestService()
	asOf := d(t, "2026-07-01")

	// Filed over a year ago, nothing pending, no certification yet.
	rec := CaseRecord{
		CaseID: common.ID("stale"),
		Facts: permcase.CaseDateFacts{
			PWDExpirationDate: dptr(t, "2025-08-01"),
			ETA9089FilingDate: dptr(t, "2025-05-01"),
		},
	}
	decision := svc.EvaluateClosure(rec, asOf)
	assert.True(t, decision.ShouldClose)
	assert.Equal(t, "stale filing with no active deadline", decision.Reason)

	// A pending RFI keeps a deadline live and blocks the staleness flag.
	rec.Facts.RFIEntries = []permcase.RFIEntry{
		{ID: common.NewID(), ReceivedDate: dptr(t, "2026-06-01"), ResponseDueDate: dptr(t, "2026-07-01")},
	}
	assert.False(t, svc.EvaluateClosure(rec, asOf).ShouldClose)

	// A longer configured horizon also blocks it.
	rec.Facts.RFIEntries = nil
	svc.SetStaleFilingDays(1000)
	assert.False(t, svc.EvaluateClosure(rec, asOf).ShouldClose)
}

func TestEvaluateClosure_OpenCaseStaysOpen(t *testing.T) {
	svc := newTestService()
	asOf := d(t, "2025-06-15")

	rec := CaseRecord{
		CaseID: common.ID("open"),
		Facts:  permcase.CaseDateFacts{PWDExpirationDate: dptr(t, "2025-12-31")},
	}
	assert.False(t, svc.EvaluateClosure(rec, asOf).ShouldClose)
}

func TestEvaluateClosure_ClosedCaseNotReevaluated(t *testing.T) {
	svc := newTestService()
	asOf := d(t, "2025-07-15")

	rec := CaseRecord{
		CaseID: common.ID("closed"),
		Facts: permcase.CaseDateFacts{
			CaseStatus:        permcase.StatusClosed,
			PWDExpirationDate: dptr(t, "2025-06-30"),
		},
	}
	assert.False(t, svc.EvaluateClosure(rec, asOf).ShouldClose)
}

func TestSweep(t *testing.T) {
	svc := newTestService()
	asOf := d(t, "2025-07-15")

	records := []CaseRecord{
		{CaseID: common.ID("lapsed"), Facts: permcase.CaseDateFacts{PWDExpirationDate: dptr(t, "2025-06-30")}},
		{CaseID: common.ID("open"), Facts: permcase.CaseDateFacts{PWDExpirationDate: dptr(t, "2025-12-31")}},
	}

	result := svc.Sweep(records, asOf)
	assert.Equal(t, 2, result.Evaluated)
	assert.Equal(t, 0, result.Skipped)
	require.Len(t, result.Closures, 1)
	assert.Equal(t, "lapsed", result.Closures[0].CaseID)
}
