package casetrack

import (
	"github.com/lexfield/perm-engine/internal/domain/permcase"
	"github.com/lexfield/perm-engine/internal/infrastructure/monitoring/logging"
)

// ClosureDecision is the enforcement verdict for one case.
type ClosureDecision struct {
	CaseID      string `json:"case_id"`
	ShouldClose bool   `json:"should_close"`
	Reason      string `json:"reason,omitempty"`
}

// SweepResult summarises one enforcement pass.
type SweepResult struct {
	Evaluated int               `json:"evaluated"`
	Closures  []ClosureDecision `json:"closures"`
	Skipped   int               `json:"skipped"`
}

// EvaluateClosure decides whether a case is eligible for automatic closure
// as of the given date.  A case closes when its I-140 has been adjudicated,
// or when the wage determination expired unused with no way left to file.
// Cases already closed or deleted are never re-evaluated.
func (s *Service) EvaluateClosure(rec CaseRecord, asOf permcase.Date) ClosureDecision {
	facts := rec.Facts
	decision := ClosureDecision{CaseID: rec.CaseID.String()}

	if facts.CaseStatus == permcase.StatusClosed || facts.DeletedAt != nil {
		return decision
	}

	if facts.I140ApprovalDate != nil {
		decision.ShouldClose = true
		decision.Reason = "i140 approved"
		return decision
	}
	if facts.I140DenialDate != nil {
		decision.ShouldClose = true
		decision.Reason = "i140 denied"
		return decision
	}

	// An unfiled case whose wage determination has lapsed cannot proceed
	// on the current PWD.
	if facts.PWDExpirationDate != nil && facts.ETA9089FilingDate == nil &&
		facts.PWDExpirationDate.Before(asOf) {
		decision.ShouldClose = true
		decision.Reason = "pwd expired before filing"
		return decision
	}

	// A filed application with no live obligation left that has sat past
	// the staleness horizon is presumed abandoned.  A pending I-140 is
	// excluded: adjudication timing is out of the employer's hands.
	if facts.ETA9089FilingDate != nil && facts.I140FilingDate == nil &&
		facts.ETA9089FilingDate.DaysUntil(asOf) > s.staleFilingDays &&
		!s.engine.HasAnyActiveDeadline(&facts) {
		decision.ShouldClose = true
		decision.Reason = "stale filing with no active deadline"
		return decision
	}

	return decision
}

// Sweep evaluates every record.  A record the engine cannot interpret is
// counted as skipped and logged, never a process failure.
func (s *Service) Sweep(records []CaseRecord, asOf permcase.Date) SweepResult {
	result := SweepResult{}
	for _, rec := range records {
		// Probe the snapshot through the activation engine once; an
		// unusable snapshot is an input-contract violation by the caller
		// and the sweep moves on.
		if _, err := s.checkDeadline(permcase.DeadlinePWDExpiration, &rec.Facts); err != nil {
			result.Skipped++
			s.metrics.RecordMalformedInput("enforcement")
			s.logger.Warn("skipping case with malformed snapshot",
				logging.String("case_id", rec.CaseID.String()),
				logging.Err(err))
			continue
		}
		result.Evaluated++

		decision := s.EvaluateClosure(rec, asOf)
		if decision.ShouldClose {
			s.metrics.RecordAutoClosure()
			s.logger.Info("case eligible for auto-closure",
				logging.String("case_id", rec.CaseID.String()),
				logging.String("reason", decision.Reason))
			result.Closures = append(result.Closures, decision)
		}
	}
	return result
}
