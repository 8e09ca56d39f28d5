package casetrack

import (
	"sort"

	"github.com/lexfield/perm-engine/internal/domain/permcase"
	"github.com/lexfield/perm-engine/internal/infrastructure/monitoring/logging"
	apperrors "github.com/lexfield/perm-engine/pkg/errors"
)

// Urgency buckets a deadline by distance from the reference date.
type Urgency string

const (
	UrgencyExpired  Urgency = "expired"
	UrgencyCritical Urgency = "critical" // due within 7 days
	UrgencyUrgent   Urgency = "urgent"   // due within 30 days
	UrgencyNormal   Urgency = "normal"   // due within 90 days
	UrgencyFuture   Urgency = "future"
)

// ClassifyUrgency buckets a due date relative to asOf.
func ClassifyUrgency(due, asOf permcase.Date) Urgency {
	days := asOf.DaysUntil(due)
	switch {
	case days < 0:
		return UrgencyExpired
	case days <= 7:
		return UrgencyCritical
	case days <= 30:
		return UrgencyUrgent
	case days <= 90:
		return UrgencyNormal
	default:
		return UrgencyFuture
	}
}

// DashboardEntry is one active deadline surfaced on the dashboard.
type DashboardEntry struct {
	CaseID       string                `json:"case_id"`
	CaseLabel    string                `json:"case_label"`
	DeadlineType permcase.DeadlineType `json:"deadline_type"`
	Due          permcase.Date         `json:"due"`
	DaysLeft     int                   `json:"days_left"`
	Urgency      Urgency               `json:"urgency"`
}

// DashboardView groups active deadlines by urgency.  OnTrack lists cases
// with no active deadline at all.
type DashboardView struct {
	AsOf    permcase.Date                `json:"as_of"`
	Groups  map[Urgency][]DashboardEntry `json:"groups"`
	OnTrack []string                     `json:"on_track"`
}

// BuildDashboard evaluates every record against the activation engine and
// groups the surviving deadlines by urgency.  Records whose deadline dates
// cannot be computed for an active type are skipped for that type only; a
// record the engine rejects outright is logged and dropped, never fatal.
func (s *Service) BuildDashboard(records []CaseRecord, asOf permcase.Date) DashboardView {
	view := DashboardView{
		AsOf:   asOf,
		Groups: make(map[Urgency][]DashboardEntry),
	}

	for _, rec := range records {
		facts := rec.Facts
		anyActive := false
		skipped := false
		for _, dt := range permcase.AllDeadlineTypes {
			status, err := s.checkDeadline(dt, &facts)
			if err != nil {
				s.metrics.RecordMalformedInput("dashboard")
				s.logger.Warn("skipping case with malformed snapshot",
					logging.String("case_id", rec.CaseID.String()),
					logging.String("deadline_type", string(dt)),
					logging.Err(err))
				skipped = true
				break
			}
			if !status.IsActive {
				continue
			}
			anyActive = true

			due, err := s.engine.ComputeDeadline(dt, &facts)
			if err != nil {
				// Active but not yet computable, e.g. the filing window
				// before any recruitment is recorded.  Nothing to surface.
				if !apperrors.IsCode(err, apperrors.ErrCodeDeadlineNotComputable) {
					s.logger.Warn("deadline computation failed",
						logging.String("case_id", rec.CaseID.String()),
						logging.String("deadline_type", string(dt)),
						logging.Err(err))
				}
				continue
			}

			urgency := ClassifyUrgency(due, asOf)
			view.Groups[urgency] = append(view.Groups[urgency], DashboardEntry{
				CaseID:       rec.CaseID.String(),
				CaseLabel:    rec.Label(),
				DeadlineType: dt,
				Due:          due,
				DaysLeft:     asOf.DaysUntil(due),
				Urgency:      urgency,
			})
		}
		if !anyActive && !skipped {
			view.OnTrack = append(view.OnTrack, rec.CaseID.String())
		}
	}

	// Soonest first within each bucket; ties broken by case for stable
	// rendering.
	for _, entries := range view.Groups {
		sort.SliceStable(entries, func(i, j int) bool {
			if !entries[i].Due.Equal(entries[j].Due) {
				return entries[i].Due.Before(entries[j].Due)
			}
			return entries[i].CaseID < entries[j].CaseID
		})
	}
	return view
}
