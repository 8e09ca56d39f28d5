package casetrack

import (
	"fmt"
	"strings"

	"github.com/lexfield/perm-engine/internal/domain/permcase"
	"github.com/lexfield/perm-engine/internal/infrastructure/monitoring/logging"
)

// CalendarEventType names the event families pushed to attorney calendars.
// The title prefixes are load-bearing: downstream sync jobs match on them
// when reconciling previously exported events.
type CalendarEventType string

const (
	EventPWDExpiration      CalendarEventType = "pwd_expiration"
	EventReadyToFile        CalendarEventType = "ready_to_file"
	EventETA9089Filing      CalendarEventType = "eta9089_filing"
	EventRecruitmentExpires CalendarEventType = "recruitment_expires"
	EventETA9089Expiration  CalendarEventType = "eta9089_expiration"
	EventI140Deadline       CalendarEventType = "i140_deadline"
	EventRFIResponseDue     CalendarEventType = "rfi_response_due"
	EventRFEResponseDue     CalendarEventType = "rfe_response_due"
)

// eventTitlePrefixes maps each event type to its exported title prefix.
var eventTitlePrefixes = map[CalendarEventType]string{
	EventPWDExpiration:      "PWD Expiration:",
	EventReadyToFile:        "Ready to File:",
	EventETA9089Filing:      "ETA 9089 Filing:",
	EventRecruitmentExpires: "Recruitment Expires:",
	EventETA9089Expiration:  "ETA 9089 Expiration:",
	EventI140Deadline:       "I-140 Deadline:",
	EventRFIResponseDue:     "RFI Response Due:",
	EventRFEResponseDue:     "RFE Response Due:",
}

// CalendarEvent is one all-day event derived from an active deadline.
type CalendarEvent struct {
	UID          string                `json:"uid"`
	CaseID       string                `json:"case_id"`
	Type         CalendarEventType     `json:"type"`
	Title        string                `json:"title"`
	Date         permcase.Date         `json:"date"`
	DeadlineType permcase.DeadlineType `json:"deadline_type"`
}

// eventMappings binds each calendar event type to the deadline type whose
// activation decision gates it.  A superseded deadline never produces an
// event.
var eventMappings = []struct {
	event    CalendarEventType
	deadline permcase.DeadlineType
}{
	{EventPWDExpiration, permcase.DeadlinePWDExpiration},
	{EventReadyToFile, permcase.DeadlineFilingWindowOpens},
	{EventETA9089Filing, permcase.DeadlineFilingWindowCloses},
	{EventRecruitmentExpires, permcase.DeadlineRecruitmentWindowCloses},
	{EventI140Deadline, permcase.DeadlineI140Filing},
	{EventRFIResponseDue, permcase.DeadlineRFIDue},
	{EventRFEResponseDue, permcase.DeadlineRFEDue},
}

// BuildCaseEvents maps a case's active deadlines to calendar events.
// Deadlines that are active but not yet computable produce nothing.
func (s *Service) BuildCaseEvents(rec CaseRecord) []CalendarEvent {
	facts := rec.Facts
	var events []CalendarEvent

	for _, m := range eventMappings {
		status, err := s.checkDeadline(m.deadline, &facts)
		if err != nil {
			s.metrics.RecordMalformedInput("calendar")
			s.logger.Warn("skipping case with malformed snapshot",
				logging.String("case_id", rec.CaseID.String()),
				logging.Err(err))
			return nil
		}
		if !status.IsActive {
			continue
		}
		due, err := s.engine.ComputeDeadline(m.deadline, &facts)
		if err != nil {
			continue
		}
		events = append(events, s.newEvent(rec, m.event, m.deadline, due))
	}

	// The certification expiry gets its own informational event alongside
	// the I-140 deadline, matching the exported title taxonomy.
	if facts.ETA9089ExpirationDate != nil {
		if status, err := s.checkDeadline(permcase.DeadlineI140Filing, &facts); err == nil && status.IsActive {
			events = append(events, s.newEvent(rec, EventETA9089Expiration,
				permcase.DeadlineI140Filing, *facts.ETA9089ExpirationDate))
		}
	}
	return events
}

func (s *Service) newEvent(rec CaseRecord, et CalendarEventType, dt permcase.DeadlineType, due permcase.Date) CalendarEvent {
	return CalendarEvent{
		UID:          fmt.Sprintf("%s-%s", rec.CaseID, et),
		CaseID:       rec.CaseID.String(),
		Type:         et,
		Title:        fmt.Sprintf("%s %s", eventTitlePrefixes[et], rec.Label()),
		Date:         due,
		DeadlineType: dt,
	}
}

// BuildCalendar maps every record through BuildCaseEvents.
func (s *Service) BuildCalendar(records []CaseRecord) []CalendarEvent {
	var out []CalendarEvent
	for _, rec := range records {
		out = append(out, s.BuildCaseEvents(rec)...)
	}
	return out
}

// ExportICal renders events as an iCalendar document with all-day VEVENT
// entries.
func ExportICal(events []CalendarEvent) []byte {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//perm-engine//PERM Case Calendar//EN\r\n")
	b.WriteString("CALSCALE:GREGORIAN\r\n")
	b.WriteString("METHOD:PUBLISH\r\n")

	for _, ev := range events {
		day := strings.ReplaceAll(ev.Date.String(), "-", "")
		b.WriteString("BEGIN:VEVENT\r\n")
		fmt.Fprintf(&b, "UID:%s@perm-engine\r\n", ev.UID)
		fmt.Fprintf(&b, "DTSTART;VALUE=DATE:%s\r\n", day)
		fmt.Fprintf(&b, "SUMMARY:%s\r\n", icalEscape(ev.Title))
		fmt.Fprintf(&b, "CATEGORIES:%s\r\n", ev.Type)
		b.WriteString("END:VEVENT\r\n")
	}

	b.WriteString("END:VCALENDAR\r\n")
	return []byte(b.String())
}

// icalEscape escapes the characters RFC 5545 reserves in text values.
func icalEscape(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return r.Replace(s)
}
