package permcase

import (
	"fmt"

	"github.com/lexfield/perm-engine/pkg/errors"
)

// DeadlineType enumerates the deadlines with supersession semantics.
type DeadlineType string

const (
	DeadlinePWDExpiration           DeadlineType = "pwd_expiration"
	DeadlineFilingWindowOpens       DeadlineType = "filing_window_opens"
	DeadlineFilingWindowCloses      DeadlineType = "filing_window_closes"
	DeadlineRecruitmentWindowCloses DeadlineType = "recruitment_window_closes"
	DeadlineI140Filing              DeadlineType = "i140_filing_deadline"
	DeadlineRFIDue                  DeadlineType = "rfi_due"
	DeadlineRFEDue                  DeadlineType = "rfe_due"
)

// AllDeadlineTypes lists every type in evaluation order.
var AllDeadlineTypes = []DeadlineType{
	DeadlinePWDExpiration,
	DeadlineFilingWindowOpens,
	DeadlineFilingWindowCloses,
	DeadlineRecruitmentWindowCloses,
	DeadlineI140Filing,
	DeadlineRFIDue,
	DeadlineRFEDue,
}

// Valid reports whether t names a known deadline type.
func (t DeadlineType) Valid() bool {
	switch t {
	case DeadlinePWDExpiration, DeadlineFilingWindowOpens, DeadlineFilingWindowCloses,
		DeadlineRecruitmentWindowCloses, DeadlineI140Filing, DeadlineRFIDue, DeadlineRFEDue:
		return true
	}
	return false
}

// SupersessionReason names why a deadline is not active.
type SupersessionReason string

const (
	ReasonCaseClosed   SupersessionReason = "CASE_CLOSED"
	ReasonCaseDeleted  SupersessionReason = "CASE_DELETED"
	ReasonNoDate       SupersessionReason = "NO_DATE"
	ReasonETA9089Filed SupersessionReason = "ETA9089_FILED"
	ReasonNotCertified SupersessionReason = "NOT_CERTIFIED"
	ReasonI140Filed    SupersessionReason = "I140_FILED"
	ReasonRFIResponded SupersessionReason = "RFI_RESPONDED"
	ReasonRFEResponded SupersessionReason = "RFE_RESPONDED"
)

// DeadlineStatus is the activation verdict for one (type, snapshot) pair.
// Exactly one of the two shapes occurs: active with no reason, or inactive
// with exactly one reason.
type DeadlineStatus struct {
	IsActive         bool               `json:"is_active"`
	SupersededReason SupersessionReason `json:"superseded_reason,omitempty"`
}

func active() DeadlineStatus {
	return DeadlineStatus{IsActive: true}
}

func superseded(reason SupersessionReason) DeadlineStatus {
	return DeadlineStatus{IsActive: false, SupersededReason: reason}
}

// IsDeadlineActive decides whether a deadline still demands attention.
// Global filters run before any per-type rule and short-circuit.
func (e *Engine) IsDeadlineActive(t DeadlineType, facts *CaseDateFacts) (DeadlineStatus, error) {
	if !t.Valid() {
		return DeadlineStatus{}, errors.UnknownDeadlineType(string(t))
	}
	if facts.CaseStatus == StatusClosed {
		return superseded(ReasonCaseClosed), nil
	}
	if facts.DeletedAt != nil {
		return superseded(ReasonCaseDeleted), nil
	}

	switch t {
	case DeadlinePWDExpiration:
		if facts.PWDExpirationDate == nil {
			return superseded(ReasonNoDate), nil
		}
		if facts.ETA9089FilingDate != nil {
			return superseded(ReasonETA9089Filed), nil
		}
		return active(), nil

	case DeadlineFilingWindowOpens, DeadlineFilingWindowCloses, DeadlineRecruitmentWindowCloses:
		// Whether the window date itself is computable is the caller's
		// concern; the recruitment-stage deadlines are superseded as a
		// group the moment the application is filed.
		if facts.ETA9089FilingDate != nil {
			return superseded(ReasonETA9089Filed), nil
		}
		return active(), nil

	case DeadlineI140Filing:
		if facts.ETA9089CertificationDate == nil || facts.ETA9089ExpirationDate == nil {
			return superseded(ReasonNotCertified), nil
		}
		if facts.I140FilingDate != nil {
			return superseded(ReasonI140Filed), nil
		}
		return active(), nil

	case DeadlineRFIDue:
		// Zero entries counts as responded.  "Never asked" and "asked and
		// answered" share a reason so existing consumers keep working; see
		// DESIGN.md for the tradeoff.
		if GetActiveRFIEntry(facts.RFIEntries) == nil {
			return superseded(ReasonRFIResponded), nil
		}
		return active(), nil

	case DeadlineRFEDue:
		if GetActiveRFEEntry(facts.RFEEntries) == nil {
			return superseded(ReasonRFEResponded), nil
		}
		return active(), nil
	}

	return DeadlineStatus{}, errors.UnknownDeadlineType(string(t))
}

// GetActiveRFIEntry returns the first entry with no submitted response,
// by list order, or nil.  ReceivedDate and ResponseDueDate ordering is
// irrelevant; insertion order decides.
func GetActiveRFIEntry(entries []RFIEntry) *RFIEntry {
	for i := range entries {
		if entries[i].ResponseSubmittedDate == nil {
			return &entries[i]
		}
	}
	return nil
}

// GetActiveRFEEntry returns the first entry with no submitted response,
// by list order, or nil.
func GetActiveRFEEntry(entries []RFEEntry) *RFEEntry {
	for i := range entries {
		if entries[i].ResponseSubmittedDate == nil {
			return &entries[i]
		}
	}
	return nil
}

// HasAnyActiveDeadline reports whether at least one deadline type is
// active for the snapshot.
func (e *Engine) HasAnyActiveDeadline(facts *CaseDateFacts) bool {
	for _, t := range AllDeadlineTypes {
		status, err := e.IsDeadlineActive(t, facts)
		if err == nil && status.IsActive {
			return true
		}
	}
	return false
}

// ComputeDeadline resolves the calendar date a deadline type falls on.
// It answers "when", not "whether": activation is IsDeadlineActive's
// job, and a superseded deadline still has a computable date.  Returns
// ErrCodeDeadlineNotComputable when the upstream facts are missing.
func (e *Engine) ComputeDeadline(t DeadlineType, facts *CaseDateFacts) (Date, error) {
	switch t {
	case DeadlinePWDExpiration:
		if facts.PWDExpirationDate == nil {
			return Date{}, notComputable(t, "no wage determination expiration on record")
		}
		return *facts.PWDExpirationDate, nil

	case DeadlineFilingWindowOpens:
		latestEnd := facts.LatestRecruitmentEnd()
		if latestEnd == nil {
			return Date{}, notComputable(t, "no recruitment end dates on record")
		}
		return AddCalendarDays(*latestEnd, e.rules.QuietPeriodDays), nil

	case DeadlineFilingWindowCloses:
		c := e.etaFilingConstraint(facts)
		if c.Max == nil {
			return Date{}, notComputable(t, "no recruitment start or wage determination expiration on record")
		}
		return *c.Max, nil

	case DeadlineRecruitmentWindowCloses:
		earliestStart := facts.EarliestRecruitmentStart()
		if earliestStart == nil {
			return Date{}, notComputable(t, "no recruitment start dates on record")
		}
		return AddCalendarDays(*earliestStart, e.rules.RecruitmentWindowDays), nil

	case DeadlineI140Filing:
		if facts.ETA9089ExpirationDate == nil {
			return Date{}, notComputable(t, "no certification expiration on record")
		}
		return *facts.ETA9089ExpirationDate, nil

	case DeadlineRFIDue:
		entry := GetActiveRFIEntry(facts.RFIEntries)
		if entry == nil || entry.ResponseDueDate == nil {
			return Date{}, notComputable(t, "no pending RFI with a response due date")
		}
		return *entry.ResponseDueDate, nil

	case DeadlineRFEDue:
		entry := GetActiveRFEEntry(facts.RFEEntries)
		if entry == nil || entry.ResponseDueDate == nil {
			return Date{}, notComputable(t, "no pending RFE with a response due date")
		}
		return *entry.ResponseDueDate, nil
	}

	return Date{}, errors.UnknownDeadlineType(string(t))
}

// AuditResponseDue is the deadline for answering an ETA 9089 audit.
func (e *Engine) AuditResponseDue(facts *CaseDateFacts) (Date, error) {
	if facts.ETA9089AuditDate == nil {
		return Date{}, errors.New(errors.ErrCodeDeadlineNotComputable, "no audit date on record")
	}
	return AddCalendarDays(*facts.ETA9089AuditDate, e.rules.AuditResponseDays), nil
}

// SundayAdSecondDue is the last Sunday the second print ad can run while
// still leaving the full quiet period before the wage determination
// expires.
func (e *Engine) SundayAdSecondDue(facts *CaseDateFacts) (Date, error) {
	if facts.PWDExpirationDate == nil {
		return Date{}, errors.New(errors.ErrCodeDeadlineNotComputable, "no wage determination expiration on record")
	}
	return NearestSundayOnOrBefore(AddCalendarDays(*facts.PWDExpirationDate, -e.rules.QuietPeriodDays)), nil
}

// NoticeOfFilingEnd is the earliest lawful removal date for the posted
// notice, counted in business days.
func (e *Engine) NoticeOfFilingEnd(facts *CaseDateFacts) (Date, error) {
	if facts.NoticeOfFilingStartDate == nil {
		return Date{}, errors.New(errors.ErrCodeDeadlineNotComputable, "no notice of filing start date on record")
	}
	return e.rules.Calendar.AddBusinessDays(*facts.NoticeOfFilingStartDate, e.rules.NoticeOfFilingBusinessDays), nil
}

// JobOrderEnd is the earliest lawful end date for the state job order.
func (e *Engine) JobOrderEnd(facts *CaseDateFacts) (Date, error) {
	if facts.JobOrderStartDate == nil {
		return Date{}, errors.New(errors.ErrCodeDeadlineNotComputable, "no job order start date on record")
	}
	return AddCalendarDays(*facts.JobOrderStartDate, e.rules.JobOrderDays), nil
}

func notComputable(t DeadlineType, detail string) error {
	return errors.New(errors.ErrCodeDeadlineNotComputable,
		fmt.Sprintf("deadline %s is not computable", t)).WithDetail(detail)
}
