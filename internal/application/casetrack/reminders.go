package casetrack

import (
	"sort"

	"github.com/lexfield/perm-engine/internal/domain/permcase"
	"github.com/lexfield/perm-engine/internal/infrastructure/monitoring/logging"
)

// Reminder is one scheduled notification for an active deadline.
type Reminder struct {
	CaseID       string                `json:"case_id"`
	DeadlineType permcase.DeadlineType `json:"deadline_type"`
	Due          permcase.Date         `json:"due"`
	SendOn       permcase.Date         `json:"send_on"`
	DaysBefore   int                   `json:"days_before"`
}

// DefaultReminderOffsets are the send points, in days before the deadline.
var DefaultReminderOffsets = []int{90, 30, 7, 1}

// PlanReminders produces the reminder schedule for one case.  Every
// candidate passes through the activation engine first, so a superseded
// deadline never generates a notification.  Send dates already in the past
// relative to asOf are dropped; offsets longer than the remaining lead time
// simply have no slot.
func (s *Service) PlanReminders(rec CaseRecord, asOf permcase.Date, offsets []int) []Reminder {
	if len(offsets) == 0 {
		offsets = DefaultReminderOffsets
	}
	facts := rec.Facts

	var out []Reminder
	for _, dt := range permcase.AllDeadlineTypes {
		status, err := s.checkDeadline(dt, &facts)
		if err != nil {
			s.metrics.RecordMalformedInput("reminders")
			s.logger.Warn("skipping case with malformed snapshot",
				logging.String("case_id", rec.CaseID.String()),
				logging.Err(err))
			return nil
		}
		if !status.IsActive {
			continue
		}
		due, err := s.engine.ComputeDeadline(dt, &facts)
		if err != nil {
			continue
		}
		for _, offset := range offsets {
			sendOn := due.AddDays(-offset)
			if sendOn.Before(asOf) {
				continue
			}
			out = append(out, Reminder{
				CaseID:       rec.CaseID.String(),
				DeadlineType: dt,
				Due:          due,
				SendOn:       sendOn,
				DaysBefore:   offset,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SendOn.Equal(out[j].SendOn) {
			return out[i].SendOn.Before(out[j].SendOn)
		}
		return out[i].DeadlineType < out[j].DeadlineType
	})
	return out
}
