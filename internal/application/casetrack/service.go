// Package casetrack contains the application services layered over the
// rules engine: dashboard urgency grouping, calendar event mapping,
// reminder planning and the deadline-enforcement sweep.  Everything here
// consumes engine outputs; none of it re-implements rule logic.
package casetrack

import (
	"github.com/lexfield/perm-engine/internal/domain/permcase"
	"github.com/lexfield/perm-engine/internal/infrastructure/monitoring/logging"
	"github.com/lexfield/perm-engine/pkg/types/common"
)

// Metrics is the recording surface the services need.  The prometheus
// EngineMetrics type satisfies it; tests use NopMetrics.
type Metrics interface {
	RecordValidation(valid bool, errs, warnings int)
	RecordCascade(field string)
	RecordDeadlineCheck(deadlineType, state string)
	RecordMalformedInput(component string)
	RecordAutoClosure()
}

// NopMetrics discards all recordings.
type NopMetrics struct{}

func (NopMetrics) RecordValidation(bool, int, int)    {}
func (NopMetrics) RecordCascade(string)               {}
func (NopMetrics) RecordDeadlineCheck(string, string) {}
func (NopMetrics) RecordMalformedInput(string)        {}
func (NopMetrics) RecordAutoClosure()                 {}

// CaseRecord pairs a case identity with its date snapshot.  The services
// never mint IDs; identity comes from the hosting system.
type CaseRecord struct {
	CaseID common.ID              `json:"case_id" yaml:"case_id"`
	Facts  permcase.CaseDateFacts `json:"facts" yaml:"facts"`
}

// Label renders the short human label used in event titles and dashboard
// rows.
func (r CaseRecord) Label() string {
	switch {
	case r.Facts.BeneficiaryName != "" && r.Facts.EmployerName != "":
		return r.Facts.BeneficiaryName + " (" + r.Facts.EmployerName + ")"
	case r.Facts.BeneficiaryName != "":
		return r.Facts.BeneficiaryName
	case r.Facts.EmployerName != "":
		return r.Facts.EmployerName
	default:
		return r.CaseID.String()
	}
}

// DefaultStaleFilingDays is how long a filed application may sit with no
// active deadline before the enforcement sweep flags it.
const DefaultStaleFilingDays = 365

// Service wires the engine to the logging and metrics infrastructure.
type Service struct {
	engine          *permcase.Engine
	logger          logging.Logger
	metrics         Metrics
	staleFilingDays int
}

// NewService constructs a Service.  A nil logger or metrics falls back to
// the no-op implementation.
func NewService(engine *permcase.Engine, logger logging.Logger, metrics Metrics) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Service{
		engine:          engine,
		logger:          logger.Named("casetrack"),
		metrics:         metrics,
		staleFilingDays: DefaultStaleFilingDays,
	}
}

// SetStaleFilingDays overrides the enforcement staleness horizon.
// Non-positive values are ignored.
func (s *Service) SetStaleFilingDays(days int) {
	if days > 0 {
		s.staleFilingDays = days
	}
}

// Engine exposes the underlying rules engine for callers that need the
// raw contracts.
func (s *Service) Engine() *permcase.Engine {
	return s.engine
}

// Validate runs the full validator set and records the outcome.
func (s *Service) Validate(facts *permcase.CaseDateFacts) permcase.ValidationResult {
	res := s.engine.ValidateCaseForm(facts)
	s.metrics.RecordValidation(res.Valid, len(res.Errors), len(res.Warnings))
	return res
}

// ApplyChange applies one field edit with cascades and records it.
func (s *Service) ApplyChange(facts permcase.CaseDateFacts, change permcase.Change) (permcase.CaseDateFacts, error) {
	out, err := s.engine.ApplyCascade(facts, change)
	if err != nil {
		return permcase.CaseDateFacts{}, err
	}
	s.metrics.RecordCascade(string(change.Field))
	return out, nil
}

// checkDeadline wraps the activation engine with metrics recording.
func (s *Service) checkDeadline(t permcase.DeadlineType, facts *permcase.CaseDateFacts) (permcase.DeadlineStatus, error) {
	status, err := s.engine.IsDeadlineActive(t, facts)
	if err != nil {
		return permcase.DeadlineStatus{}, err
	}
	state := "active"
	if !status.IsActive {
		state = string(status.SupersededReason)
	}
	s.metrics.RecordDeadlineCheck(string(t), state)
	return status, nil
}
