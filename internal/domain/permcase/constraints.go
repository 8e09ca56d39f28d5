package permcase

import (
	"fmt"

	"github.com/lexfield/perm-engine/pkg/errors"
)

// LimitingFactor names the upstream condition that produced the selected
// bound, so the case-edit form can explain why a date is constrained.
type LimitingFactor string

const (
	LimitedByRecruitment   LimitingFactor = "recruitment"
	LimitedByPWD           LimitingFactor = "pwd"
	LimitedByCertification LimitingFactor = "certification"
)

// Constraint is the resolved legal window for one date field.  Min and Max
// are nil when the upstream facts needed to compute them are absent; Hint
// then explains what is missing.  The resolver never substitutes a guessed
// date for a missing bound.
type Constraint struct {
	Min            *Date          `json:"min,omitempty"`
	Max            *Date          `json:"max,omitempty"`
	Hint           string         `json:"hint,omitempty"`
	LimitingFactor LimitingFactor `json:"limiting_factor,omitempty"`
}

// dayAfter implements the strict "after X" rule: the minimum for a field
// constrained to fall after X is always X plus one day, never X itself.
func dayAfter(d Date) *Date {
	return datePtr(d.AddDays(1))
}

// ResolveConstraints computes {min, max, hint, limitingFactor} for a date
// field.  When several candidate bounds apply the tightest one wins: the
// latest candidate minimum and the earliest candidate maximum.
func (e *Engine) ResolveConstraints(field Field, facts *CaseDateFacts) (Constraint, error) {
	switch field {
	case FieldPWDDeterminationDate:
		if facts.PWDFilingDate == nil {
			return Constraint{Hint: "record the PWD filing date first"}, nil
		}
		return Constraint{
			Min:  dayAfter(*facts.PWDFilingDate),
			Hint: "determination is issued after the PWD filing",
		}, nil

	case FieldPWDExpirationDate:
		if facts.PWDDeterminationDate == nil {
			return Constraint{Hint: "record the PWD determination date first"}, nil
		}
		det := *facts.PWDDeterminationDate
		return Constraint{
			Min:            dayAfter(det),
			Max:            datePtr(det.AddYears(e.rules.PWDValidityYears)),
			Hint:           fmt.Sprintf("a wage determination is valid at most %d year(s)", e.rules.PWDValidityYears),
			LimitingFactor: LimitedByPWD,
		}, nil

	case FieldSundayAdFirstDate:
		return e.sundayAdConstraint(facts, nil)

	case FieldSundayAdSecondDate:
		return e.sundayAdConstraint(facts, facts.SundayAdFirstDate)

	case FieldJobOrderStartDate:
		if facts.PWDExpirationDate == nil {
			return Constraint{Hint: "must run before the PWD expires; record the PWD expiration date to see the latest start"}, nil
		}
		// The job order run plus the quiet period must both finish before
		// the wage determination expires.
		latest := AddCalendarDays(*facts.PWDExpirationDate, -(e.rules.JobOrderDays + e.rules.QuietPeriodDays))
		return Constraint{
			Max:            datePtr(latest),
			Hint:           fmt.Sprintf("latest start that leaves room for the %d-day job order and the %d-day quiet period", e.rules.JobOrderDays, e.rules.QuietPeriodDays),
			LimitingFactor: LimitedByPWD,
		}, nil

	case FieldJobOrderEndDate:
		if facts.JobOrderStartDate == nil {
			return Constraint{Hint: "record the job order start date first"}, nil
		}
		return Constraint{
			Min:            datePtr(AddCalendarDays(*facts.JobOrderStartDate, e.rules.JobOrderDays)),
			Hint:           fmt.Sprintf("the job order must run at least %d days", e.rules.JobOrderDays),
			LimitingFactor: LimitedByRecruitment,
		}, nil

	case FieldNoticeOfFilingEndDate:
		if facts.NoticeOfFilingStartDate == nil {
			return Constraint{Hint: "record the notice of filing start date first"}, nil
		}
		return Constraint{
			Min:            datePtr(e.rules.Calendar.AddBusinessDays(*facts.NoticeOfFilingStartDate, e.rules.NoticeOfFilingBusinessDays)),
			Hint:           fmt.Sprintf("the notice must be posted for %d business days", e.rules.NoticeOfFilingBusinessDays),
			LimitingFactor: LimitedByRecruitment,
		}, nil

	case FieldETA9089FilingDate:
		return e.etaFilingConstraint(facts), nil

	case FieldETA9089AuditDate:
		if facts.ETA9089FilingDate == nil {
			return Constraint{Hint: "record the ETA 9089 filing date first"}, nil
		}
		return Constraint{
			Min:  dayAfter(*facts.ETA9089FilingDate),
			Hint: "an audit is issued after the filing",
		}, nil

	case FieldETA9089CertificationDate:
		// Certification follows the audit when one was issued, otherwise
		// the filing.
		if facts.ETA9089AuditDate != nil {
			return Constraint{
				Min:  dayAfter(*facts.ETA9089AuditDate),
				Hint: "certification follows the audit response",
			}, nil
		}
		if facts.ETA9089FilingDate != nil {
			return Constraint{
				Min:  dayAfter(*facts.ETA9089FilingDate),
				Hint: "certification follows the filing",
			}, nil
		}
		return Constraint{Hint: "record the ETA 9089 filing date first"}, nil

	case FieldETA9089ExpirationDate:
		if facts.ETA9089CertificationDate == nil {
			return Constraint{Hint: "record the ETA 9089 certification date first"}, nil
		}
		cert := *facts.ETA9089CertificationDate
		return Constraint{
			Min:            dayAfter(cert),
			Max:            datePtr(AddCalendarDays(cert, e.rules.CertificationValidityDays)),
			Hint:           fmt.Sprintf("a certification is valid for %d days", e.rules.CertificationValidityDays),
			LimitingFactor: LimitedByCertification,
		}, nil

	case FieldI140FilingDate:
		if facts.ETA9089CertificationDate == nil {
			return Constraint{Hint: "the I-140 can only be filed once the ETA 9089 is certified"}, nil
		}
		c := Constraint{
			Min:            dayAfter(*facts.ETA9089CertificationDate),
			Hint:           "file while the certification is valid",
			LimitingFactor: LimitedByCertification,
		}
		if facts.ETA9089ExpirationDate != nil {
			c.Max = cloneDate(facts.ETA9089ExpirationDate)
		}
		return c, nil

	case FieldI140ReceiptDate:
		if facts.I140FilingDate == nil {
			return Constraint{Hint: "record the I-140 filing date first"}, nil
		}
		return Constraint{
			Min:  dayAfter(*facts.I140FilingDate),
			Hint: "the receipt notice follows the filing",
		}, nil

	case FieldI140ApprovalDate, FieldI140DenialDate:
		if facts.I140ReceiptDate != nil {
			return Constraint{
				Min:  dayAfter(*facts.I140ReceiptDate),
				Hint: "adjudication follows the receipt notice",
			}, nil
		}
		if facts.I140FilingDate != nil {
			return Constraint{
				Min:  dayAfter(*facts.I140FilingDate),
				Hint: "adjudication follows the filing",
			}, nil
		}
		return Constraint{Hint: "record the I-140 filing date first"}, nil
	}

	return Constraint{}, errors.UnknownField(string(field))
}

// sundayAdConstraint bounds a Sunday newspaper ad.  The raw latest run date
// is the day that still leaves the quiet period before the PWD expires, but
// because the ad itself must fall on a Sunday the bound snaps back to the
// last Sunday on or before that day.
func (e *Engine) sundayAdConstraint(facts *CaseDateFacts, firstAd *Date) (Constraint, error) {
	c := Constraint{Hint: "must run on a Sunday"}
	if firstAd != nil {
		// The second ad runs on a later Sunday than the first.
		c.Min = datePtr(firstAd.AddDays(7))
		c.Hint = "must run on a Sunday after the first ad"
		c.LimitingFactor = LimitedByRecruitment
	}
	if facts.PWDExpirationDate != nil {
		raw := AddCalendarDays(*facts.PWDExpirationDate, -e.rules.QuietPeriodDays)
		snapped := NearestSundayOnOrBefore(raw)
		if c.Max == nil || snapped.Before(*c.Max) {
			c.Max = datePtr(snapped)
			c.LimitingFactor = LimitedByPWD
		}
	}
	return c, nil
}

// etaFilingConstraint computes the filing window for the ETA 9089: no
// earlier than the quiet period after the last recruitment step, no later
// than the earlier of the recruitment staleness limit and the PWD
// expiration.  LimitingFactor reports which of the two produced the max.
func (e *Engine) etaFilingConstraint(facts *CaseDateFacts) Constraint {
	var c Constraint

	latestEnd := facts.LatestRecruitmentEnd()
	earliestStart := facts.EarliestRecruitmentStart()
	if latestEnd == nil || earliestStart == nil {
		c.Hint = "record recruitment dates to see the filing window"
		return c
	}

	c.Min = datePtr(AddCalendarDays(*latestEnd, e.rules.QuietPeriodDays))

	recruitmentMax := AddCalendarDays(*earliestStart, e.rules.RecruitmentWindowDays)
	c.Max = datePtr(recruitmentMax)
	c.LimitingFactor = LimitedByRecruitment
	c.Hint = fmt.Sprintf("file between %d days after the last recruitment step and %d days after the first", e.rules.QuietPeriodDays, e.rules.RecruitmentWindowDays)

	if facts.PWDExpirationDate != nil && facts.PWDExpirationDate.Before(recruitmentMax) {
		c.Max = cloneDate(facts.PWDExpirationDate)
		c.LimitingFactor = LimitedByPWD
		c.Hint = "the wage determination expires before the recruitment window closes"
	}
	return c
}
