package casetrack

import (
	"github.com/lexfield/perm-engine/internal/domain/permcase"
	apperrors "github.com/lexfield/perm-engine/pkg/errors"
)

// DeadlineReportRow is the status of one deadline type for one case.  Due
// and DaysLeft are nil when the deadline is active but its date cannot be
// computed from the facts on hand.
type DeadlineReportRow struct {
	DeadlineType     permcase.DeadlineType       `json:"deadline_type"`
	Active           bool                        `json:"active"`
	SupersededReason permcase.SupersessionReason `json:"superseded_reason,omitempty"`
	Due              *permcase.Date              `json:"due,omitempty"`
	DaysLeft         *int                        `json:"days_left,omitempty"`
	Urgency          Urgency                     `json:"urgency,omitempty"`
}

// AuxDeadline is one informational date with no supersession semantics:
// it feeds planning and the calendar, not the activation engine.
type AuxDeadline struct {
	Name string         `json:"name"`
	Due  *permcase.Date `json:"due,omitempty"`
}

// AuxDeadlines computes the informational dates present on the snapshot.
// A date whose upstream facts are missing is omitted rather than reported
// as an error; these are advisory, not obligations.
func (s *Service) AuxDeadlines(facts *permcase.CaseDateFacts) []AuxDeadline {
	var out []AuxDeadline
	add := func(name string, due permcase.Date, err error) {
		if err == nil {
			out = append(out, AuxDeadline{Name: name, Due: &due})
		}
	}

	due, err := s.engine.AuditResponseDue(facts)
	add("audit_response_due", due, err)
	due, err = s.engine.SundayAdSecondDue(facts)
	add("sunday_ad_second_due", due, err)
	due, err = s.engine.NoticeOfFilingEnd(facts)
	add("notice_of_filing_end", due, err)
	due, err = s.engine.JobOrderEnd(facts)
	add("job_order_end", due, err)
	return out
}

// DeadlineReport evaluates every deadline type against one snapshot and
// reports activation, due date and urgency relative to asOf.  Rows come
// back in the fixed deadline-type order.
func (s *Service) DeadlineReport(facts *permcase.CaseDateFacts, asOf permcase.Date) ([]DeadlineReportRow, error) {
	rows := make([]DeadlineReportRow, 0, len(permcase.AllDeadlineTypes))
	for _, t := range permcase.AllDeadlineTypes {
		status, err := s.checkDeadline(t, facts)
		if err != nil {
			s.metrics.RecordMalformedInput("report")
			return nil, err
		}

		row := DeadlineReportRow{
			DeadlineType:     t,
			Active:           status.IsActive,
			SupersededReason: status.SupersededReason,
		}
		if status.IsActive {
			due, computeErr := s.engine.ComputeDeadline(t, facts)
			switch {
			case computeErr == nil:
				days := asOf.DaysUntil(due)
				row.Due = &due
				row.DaysLeft = &days
				row.Urgency = ClassifyUrgency(due, asOf)
			case apperrors.IsCode(computeErr, apperrors.ErrCodeDeadlineNotComputable):
				// Active but no date yet; the row still surfaces so the
				// caller sees the obligation exists.
			default:
				return nil, computeErr
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
