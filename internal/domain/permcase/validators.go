package permcase

import (
	"fmt"
	"time"
)

// Severity splits findings into save-blocking errors and advisory warnings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// RuleCategory groups the validator set for reporting.
type RuleCategory string

const (
	CategorySundayAlignment RuleCategory = "sunday_alignment"
	CategoryOrdering        RuleCategory = "ordering"
	CategoryDuration        RuleCategory = "duration"
	CategoryWindow          RuleCategory = "window"
	CategoryCount           RuleCategory = "count"
	CategoryDuplicate       RuleCategory = "duplicate"
	CategoryRequired        RuleCategory = "required"
	CategoryReferential     RuleCategory = "referential"
)

// Finding is one rule violation.  EntryIndex addresses the offending
// recruitment/RFI/RFE entry for per-entry rules and is -1 otherwise.
type Finding struct {
	Rule       string       `json:"rule"`
	Category   RuleCategory `json:"category"`
	Field      Field        `json:"field"`
	EntryIndex int          `json:"entry_index"`
	Message    string       `json:"message"`
	Severity   Severity     `json:"severity"`
}

// ValidationResult aggregates every rule over one snapshot.  Valid is true
// iff Errors is empty; warnings never block a save.
type ValidationResult struct {
	Valid    bool      `json:"valid"`
	Errors   []Finding `json:"errors"`
	Warnings []Finding `json:"warnings"`
}

// caseRule is one pure predicate over a snapshot.  Rules are independent:
// each inspects only the fields it names and reports nothing when those
// fields are absent.
type caseRule struct {
	id       string
	category RuleCategory
	check    func(e *Engine, f *CaseDateFacts) []Finding
}

// ValidateCaseForm runs the full validator set over the snapshot.
func (e *Engine) ValidateCaseForm(facts *CaseDateFacts) ValidationResult {
	res := ValidationResult{}
	for _, r := range caseRules {
		for _, finding := range r.check(e, facts) {
			finding.Rule = r.id
			finding.Category = r.category
			if finding.Severity == SeverityWarning {
				res.Warnings = append(res.Warnings, finding)
			} else {
				res.Errors = append(res.Errors, finding)
			}
		}
	}
	res.Valid = len(res.Errors) == 0
	return res
}

// RuleCount reports the size of the registered validator set.
func RuleCount() int {
	return len(caseRules)
}

// errOn emits a single blocking finding.
func errOn(field Field, msg string) []Finding {
	return []Finding{{Field: field, EntryIndex: -1, Message: msg, Severity: SeverityError}}
}

// warnOn emits a single advisory finding.
func warnOn(field Field, msg string) []Finding {
	return []Finding{{Field: field, EntryIndex: -1, Message: msg, Severity: SeverityWarning}}
}

// entryErr emits a blocking finding for one list entry.
func entryErr(field Field, idx int, msg string) Finding {
	return Finding{Field: field, EntryIndex: idx, Message: msg, Severity: SeverityError}
}

// onSunday fires when a present date is not a Sunday.
func onSunday(d *Date, field Field, label string) []Finding {
	if d == nil || d.Weekday() == time.Sunday {
		return nil
	}
	return errOn(field, fmt.Sprintf("%s must fall on a Sunday, got %s (%s)", label, d, d.Weekday()))
}

// strictlyAfter fires unless later is strictly after earlier.  Both dates
// must be present for the rule to apply; the same-day case is a violation
// for every before/after pair in the system.
func strictlyAfter(later, earlier *Date, field Field, laterLabel, earlierLabel string) []Finding {
	if later == nil || earlier == nil {
		return nil
	}
	if later.After(*earlier) {
		return nil
	}
	return errOn(field, fmt.Sprintf("%s (%s) must be after %s (%s)", laterLabel, later, earlierLabel, earlier))
}

// caseRules is the fixed, enumerable validator set.  Adding a rule means
// appending here; ValidateCaseForm and the aggregation logic never change.
var caseRules = []caseRule{
	// ── Sunday alignment ──────────────────────────────────────────────────
	{"sunday_ad_first_on_sunday", CategorySundayAlignment, func(e *Engine, f *CaseDateFacts) []Finding {
		return onSunday(f.SundayAdFirstDate, FieldSundayAdFirstDate, "first Sunday ad")
	}},
	{"sunday_ad_second_on_sunday", CategorySundayAlignment, func(e *Engine, f *CaseDateFacts) []Finding {
		return onSunday(f.SundayAdSecondDate, FieldSundayAdSecondDate, "second Sunday ad")
	}},

	// ── Chronological ordering (strict "after") ───────────────────────────
	{"pwd_determination_after_filing", CategoryOrdering, func(e *Engine, f *CaseDateFacts) []Finding {
		return strictlyAfter(f.PWDDeterminationDate, f.PWDFilingDate, FieldPWDDeterminationDate,
			"PWD determination", "PWD filing")
	}},
	{"pwd_expiration_after_determination", CategoryOrdering, func(e *Engine, f *CaseDateFacts) []Finding {
		return strictlyAfter(f.PWDExpirationDate, f.PWDDeterminationDate, FieldPWDExpirationDate,
			"PWD expiration", "PWD determination")
	}},
	{"sunday_ad_second_after_first", CategoryOrdering, func(e *Engine, f *CaseDateFacts) []Finding {
		return strictlyAfter(f.SundayAdSecondDate, f.SundayAdFirstDate, FieldSundayAdSecondDate,
			"second Sunday ad", "first Sunday ad")
	}},
	{"job_order_end_after_start", CategoryOrdering, func(e *Engine, f *CaseDateFacts) []Finding {
		return strictlyAfter(f.JobOrderEndDate, f.JobOrderStartDate, FieldJobOrderEndDate,
			"job order end", "job order start")
	}},
	{"notice_of_filing_end_after_start", CategoryOrdering, func(e *Engine, f *CaseDateFacts) []Finding {
		return strictlyAfter(f.NoticeOfFilingEndDate, f.NoticeOfFilingStartDate, FieldNoticeOfFilingEndDate,
			"notice of filing end", "notice of filing start")
	}},
	{"audit_after_eta_filing", CategoryOrdering, func(e *Engine, f *CaseDateFacts) []Finding {
		return strictlyAfter(f.ETA9089AuditDate, f.ETA9089FilingDate, FieldETA9089AuditDate,
			"ETA 9089 audit", "ETA 9089 filing")
	}},
	{"certification_after_eta_filing", CategoryOrdering, func(e *Engine, f *CaseDateFacts) []Finding {
		return strictlyAfter(f.ETA9089CertificationDate, f.ETA9089FilingDate, FieldETA9089CertificationDate,
			"ETA 9089 certification", "ETA 9089 filing")
	}},
	{"certification_after_audit", CategoryOrdering, func(e *Engine, f *CaseDateFacts) []Finding {
		return strictlyAfter(f.ETA9089CertificationDate, f.ETA9089AuditDate, FieldETA9089CertificationDate,
			"ETA 9089 certification", "ETA 9089 audit")
	}},
	{"eta_expiration_after_certification", CategoryOrdering, func(e *Engine, f *CaseDateFacts) []Finding {
		return strictlyAfter(f.ETA9089ExpirationDate, f.ETA9089CertificationDate, FieldETA9089ExpirationDate,
			"ETA 9089 expiration", "ETA 9089 certification")
	}},
	{"i140_filing_after_certification", CategoryOrdering, func(e *Engine, f *CaseDateFacts) []Finding {
		return strictlyAfter(f.I140FilingDate, f.ETA9089CertificationDate, FieldI140FilingDate,
			"I-140 filing", "ETA 9089 certification")
	}},
	{"i140_receipt_after_filing", CategoryOrdering, func(e *Engine, f *CaseDateFacts) []Finding {
		return strictlyAfter(f.I140ReceiptDate, f.I140FilingDate, FieldI140ReceiptDate,
			"I-140 receipt", "I-140 filing")
	}},
	{"i140_approval_after_receipt", CategoryOrdering, func(e *Engine, f *CaseDateFacts) []Finding {
		return strictlyAfter(f.I140ApprovalDate, f.I140ReceiptDate, FieldI140ApprovalDate,
			"I-140 approval", "I-140 receipt")
	}},
	{"i140_denial_after_receipt", CategoryOrdering, func(e *Engine, f *CaseDateFacts) []Finding {
		return strictlyAfter(f.I140DenialDate, f.I140ReceiptDate, FieldI140DenialDate,
			"I-140 denial", "I-140 receipt")
	}},
	{"rfi_response_after_received", CategoryOrdering, func(e *Engine, f *CaseDateFacts) []Finding {
		var out []Finding
		for i, entry := range f.RFIEntries {
			if entry.ResponseSubmittedDate != nil && entry.ReceivedDate != nil &&
				!entry.ResponseSubmittedDate.After(*entry.ReceivedDate) {
				out = append(out, entryErr(FieldRFIReceivedDate, i,
					fmt.Sprintf("RFI response (%s) must be after the request was received (%s)",
						entry.ResponseSubmittedDate, entry.ReceivedDate)))
			}
		}
		return out
	}},
	{"rfe_response_after_received", CategoryOrdering, func(e *Engine, f *CaseDateFacts) []Finding {
		var out []Finding
		for i, entry := range f.RFEEntries {
			if entry.ResponseSubmittedDate != nil && entry.ReceivedDate != nil &&
				!entry.ResponseSubmittedDate.After(*entry.ReceivedDate) {
				out = append(out, entryErr(FieldRFEReceivedDate, i,
					fmt.Sprintf("RFE response (%s) must be after the request was received (%s)",
						entry.ResponseSubmittedDate, entry.ReceivedDate)))
			}
		}
		return out
	}},

	// ── Minimum / maximum duration ────────────────────────────────────────
	{"job_order_minimum_run", CategoryDuration, func(e *Engine, f *CaseDateFacts) []Finding {
		if f.JobOrderStartDate == nil || f.JobOrderEndDate == nil {
			return nil
		}
		if f.JobOrderStartDate.DaysUntil(*f.JobOrderEndDate) < e.rules.JobOrderDays {
			return errOn(FieldJobOrderEndDate,
				fmt.Sprintf("the job order must run at least %d days", e.rules.JobOrderDays))
		}
		return nil
	}},
	{"notice_of_filing_minimum_posting", CategoryDuration, func(e *Engine, f *CaseDateFacts) []Finding {
		if f.NoticeOfFilingStartDate == nil || f.NoticeOfFilingEndDate == nil {
			return nil
		}
		minEnd := e.rules.Calendar.AddBusinessDays(*f.NoticeOfFilingStartDate, e.rules.NoticeOfFilingBusinessDays)
		if f.NoticeOfFilingEndDate.Before(minEnd) {
			return errOn(FieldNoticeOfFilingEndDate,
				fmt.Sprintf("the notice of filing must be posted for %d business days (through %s)",
					e.rules.NoticeOfFilingBusinessDays, minEnd))
		}
		return nil
	}},
	{"pwd_expiration_within_validity", CategoryDuration, func(e *Engine, f *CaseDateFacts) []Finding {
		if f.PWDDeterminationDate == nil || f.PWDExpirationDate == nil {
			return nil
		}
		limit := f.PWDDeterminationDate.AddYears(e.rules.PWDValidityYears)
		if f.PWDExpirationDate.After(limit) {
			return errOn(FieldPWDExpirationDate,
				fmt.Sprintf("a wage determination is valid at most %d year(s) (through %s)", e.rules.PWDValidityYears, limit))
		}
		return nil
	}},
	{"quiet_period_before_eta_filing", CategoryDuration, func(e *Engine, f *CaseDateFacts) []Finding {
		if f.ETA9089FilingDate == nil {
			return nil
		}
		latestEnd := f.LatestRecruitmentEnd()
		if latestEnd == nil {
			return nil
		}
		earliest := AddCalendarDays(*latestEnd, e.rules.QuietPeriodDays)
		if f.ETA9089FilingDate.Before(earliest) {
			return errOn(FieldETA9089FilingDate,
				fmt.Sprintf("filing must wait %d days after the last recruitment step (no earlier than %s)",
					e.rules.QuietPeriodDays, earliest))
		}
		return nil
	}},
	{"recruitment_fresh_at_eta_filing", CategoryDuration, func(e *Engine, f *CaseDateFacts) []Finding {
		if f.ETA9089FilingDate == nil {
			return nil
		}
		earliestStart := f.EarliestRecruitmentStart()
		if earliestStart == nil {
			return nil
		}
		limit := AddCalendarDays(*earliestStart, e.rules.RecruitmentWindowDays)
		if f.ETA9089FilingDate.After(limit) {
			return errOn(FieldETA9089FilingDate,
				fmt.Sprintf("recruitment is stale: filing must occur within %d days of the first step (by %s)",
					e.rules.RecruitmentWindowDays, limit))
		}
		return nil
	}},
	{"additional_recruitment_before_filing", CategoryDuration, func(e *Engine, f *CaseDateFacts) []Finding {
		if !f.IsProfessionalOccupation || f.ETA9089FilingDate == nil {
			return nil
		}
		var out []Finding
		for i, entry := range f.AdditionalRecruitment {
			if entry.Date != nil && entry.Date.After(*f.ETA9089FilingDate) {
				out = append(out, entryErr(FieldETA9089FilingDate, i,
					fmt.Sprintf("additional recruitment step %q (%s) must precede the filing", entry.Method, entry.Date)))
			}
		}
		return out
	}},

	// ── Window membership ─────────────────────────────────────────────────
	{"eta_filing_within_window", CategoryWindow, func(e *Engine, f *CaseDateFacts) []Finding {
		if f.ETA9089FilingDate == nil {
			return nil
		}
		c := e.etaFilingConstraint(f)
		if c.Min != nil && f.ETA9089FilingDate.Before(*c.Min) {
			return errOn(FieldETA9089FilingDate,
				fmt.Sprintf("filing date %s is before the window opens on %s", f.ETA9089FilingDate, c.Min))
		}
		if c.Max != nil && f.ETA9089FilingDate.After(*c.Max) {
			return errOn(FieldETA9089FilingDate,
				fmt.Sprintf("filing date %s is after the window closed on %s (%s)", f.ETA9089FilingDate, c.Max, c.LimitingFactor))
		}
		return nil
	}},
	{"eta_filing_before_pwd_expiration", CategoryWindow, func(e *Engine, f *CaseDateFacts) []Finding {
		if f.ETA9089FilingDate == nil || f.PWDExpirationDate == nil {
			return nil
		}
		if f.ETA9089FilingDate.After(*f.PWDExpirationDate) {
			return errOn(FieldETA9089FilingDate,
				fmt.Sprintf("filing date %s is after the wage determination expired on %s",
					f.ETA9089FilingDate, f.PWDExpirationDate))
		}
		return nil
	}},
	{"i140_filing_within_certification_validity", CategoryWindow, func(e *Engine, f *CaseDateFacts) []Finding {
		if f.I140FilingDate == nil || f.ETA9089ExpirationDate == nil {
			return nil
		}
		if f.I140FilingDate.After(*f.ETA9089ExpirationDate) {
			return errOn(FieldI140FilingDate,
				fmt.Sprintf("I-140 filed %s, after the certification expired on %s",
					f.I140FilingDate, f.ETA9089ExpirationDate))
		}
		return nil
	}},
	{"additional_recruitment_within_recruitment_window", CategoryWindow, func(e *Engine, f *CaseDateFacts) []Finding {
		if !f.IsProfessionalOccupation || f.ETA9089FilingDate == nil {
			return nil
		}
		windowOpen := AddCalendarDays(*f.ETA9089FilingDate, -e.rules.RecruitmentWindowDays)
		var out []Finding
		for i, entry := range f.AdditionalRecruitment {
			if entry.Date != nil && entry.Date.Before(windowOpen) {
				out = append(out, entryErr(FieldETA9089FilingDate, i,
					fmt.Sprintf("additional recruitment step %q (%s) is outside the %d-day window before filing",
						entry.Method, entry.Date, e.rules.RecruitmentWindowDays)))
			}
		}
		return out
	}},
	{"notice_of_filing_within_recruitment_window", CategoryWindow, func(e *Engine, f *CaseDateFacts) []Finding {
		if f.NoticeOfFilingStartDate == nil || f.ETA9089FilingDate == nil {
			return nil
		}
		windowOpen := AddCalendarDays(*f.ETA9089FilingDate, -e.rules.RecruitmentWindowDays)
		if f.NoticeOfFilingStartDate.Before(windowOpen) {
			return errOn(FieldNoticeOfFilingStartDate,
				fmt.Sprintf("the notice of filing (%s) is outside the %d-day window before filing",
					f.NoticeOfFilingStartDate, e.rules.RecruitmentWindowDays))
		}
		return nil
	}},

	// ── Mandatory counts ──────────────────────────────────────────────────
	{"professional_additional_methods_count", CategoryCount, func(e *Engine, f *CaseDateFacts) []Finding {
		if !f.IsProfessionalOccupation {
			return nil
		}
		distinct := map[RecruitmentMethod]struct{}{}
		for _, entry := range f.AdditionalRecruitment {
			distinct[entry.Method] = struct{}{}
		}
		if len(distinct) >= e.rules.MinAdditionalMethods {
			return nil
		}
		return warnOn(FieldETA9089FilingDate,
			fmt.Sprintf("professional occupations require %d distinct additional recruitment steps under 20 CFR §656.17(e); %d recorded",
				e.rules.MinAdditionalMethods, len(distinct)))
	}},
	{"second_sunday_ad_required", CategoryCount, func(e *Engine, f *CaseDateFacts) []Finding {
		if f.ETA9089FilingDate == nil {
			return nil
		}
		if f.SundayAdFirstDate != nil && f.SundayAdSecondDate == nil {
			return errOn(FieldSundayAdSecondDate, "two Sunday ads are required before filing; the second is missing")
		}
		if f.SundayAdFirstDate == nil && f.SundayAdSecondDate != nil {
			return errOn(FieldSundayAdFirstDate, "two Sunday ads are required before filing; the first is missing")
		}
		return nil
	}},
	{"applicant_count_non_negative", CategoryCount, func(e *Engine, f *CaseDateFacts) []Finding {
		if f.ApplicantCount != nil && *f.ApplicantCount < 0 {
			return errOn(FieldApplicantCount, "applicant count cannot be negative")
		}
		return nil
	}},

	// ── Duplicate prevention ──────────────────────────────────────────────
	{"no_duplicate_recruitment_methods", CategoryDuplicate, func(e *Engine, f *CaseDateFacts) []Finding {
		seen := map[RecruitmentMethod]int{}
		var out []Finding
		for i, entry := range f.AdditionalRecruitment {
			if first, dup := seen[entry.Method]; dup {
				out = append(out, entryErr(FieldETA9089FilingDate, i,
					fmt.Sprintf("recruitment method %q already recorded at entry %d", entry.Method, first)))
				continue
			}
			seen[entry.Method] = i
		}
		return out
	}},
	{"no_duplicate_rfi_ids", CategoryDuplicate, func(e *Engine, f *CaseDateFacts) []Finding {
		seen := map[string]struct{}{}
		var out []Finding
		for i, entry := range f.RFIEntries {
			if entry.ID.IsZero() {
				continue
			}
			if _, dup := seen[entry.ID.String()]; dup {
				out = append(out, entryErr(FieldRFIReceivedDate, i, "duplicate RFI entry id "+entry.ID.String()))
				continue
			}
			seen[entry.ID.String()] = struct{}{}
		}
		return out
	}},
	{"no_duplicate_rfe_ids", CategoryDuplicate, func(e *Engine, f *CaseDateFacts) []Finding {
		seen := map[string]struct{}{}
		var out []Finding
		for i, entry := range f.RFEEntries {
			if entry.ID.IsZero() {
				continue
			}
			if _, dup := seen[entry.ID.String()]; dup {
				out = append(out, entryErr(FieldRFEReceivedDate, i, "duplicate RFE entry id "+entry.ID.String()))
				continue
			}
			seen[entry.ID.String()] = struct{}{}
		}
		return out
	}},

	// ── Required fields ───────────────────────────────────────────────────
	{"employer_name_required", CategoryRequired, func(e *Engine, f *CaseDateFacts) []Finding {
		if f.EmployerName == "" {
			return errOn(FieldEmployerName, "employer name is required")
		}
		return nil
	}},
	{"beneficiary_name_required", CategoryRequired, func(e *Engine, f *CaseDateFacts) []Finding {
		if f.BeneficiaryName == "" {
			return errOn(FieldBeneficiaryName, "beneficiary name is required")
		}
		return nil
	}},
	{"position_title_required", CategoryRequired, func(e *Engine, f *CaseDateFacts) []Finding {
		if f.PositionTitle == "" {
			return errOn(FieldPositionTitle, "position title is required")
		}
		return nil
	}},
	{"sunday_ad_newspaper_required", CategoryRequired, func(e *Engine, f *CaseDateFacts) []Finding {
		if (f.SundayAdFirstDate != nil || f.SundayAdSecondDate != nil) && f.SundayAdNewspaper == "" {
			return errOn(FieldSundayAdNewspaper, "name the newspaper that ran the Sunday ads")
		}
		return nil
	}},
	{"job_order_state_required", CategoryRequired, func(e *Engine, f *CaseDateFacts) []Finding {
		if f.JobOrderStartDate != nil && f.JobOrderState == "" {
			return errOn(FieldJobOrderState, "name the state workforce agency that ran the job order")
		}
		return nil
	}},
	{"case_status_known", CategoryRequired, func(e *Engine, f *CaseDateFacts) []Finding {
		if f.CaseStatus != "" && !f.CaseStatus.Valid() {
			return errOn(FieldCaseStatus, fmt.Sprintf("unknown case status %q", f.CaseStatus))
		}
		return nil
	}},

	// ── Referential integrity ─────────────────────────────────────────────
	{"rfi_response_requires_due_date", CategoryReferential, func(e *Engine, f *CaseDateFacts) []Finding {
		var out []Finding
		for i, entry := range f.RFIEntries {
			if entry.ResponseSubmittedDate != nil && entry.ResponseDueDate == nil {
				out = append(out, entryErr(FieldRFIReceivedDate, i,
					"an RFI with a submitted response must have a response due date"))
			}
		}
		return out
	}},
	{"rfe_response_requires_due_date", CategoryReferential, func(e *Engine, f *CaseDateFacts) []Finding {
		var out []Finding
		for i, entry := range f.RFEEntries {
			if entry.ResponseSubmittedDate != nil && entry.ResponseDueDate == nil {
				out = append(out, entryErr(FieldRFEReceivedDate, i,
					"an RFE with a submitted response must have a response due date"))
			}
		}
		return out
	}},
	{"i140_outcome_exclusive", CategoryReferential, func(e *Engine, f *CaseDateFacts) []Finding {
		if f.I140ApprovalDate != nil && f.I140DenialDate != nil {
			return errOn(FieldI140DenialDate, "an I-140 cannot be both approved and denied")
		}
		return nil
	}},
	{"i140_requires_certification", CategoryReferential, func(e *Engine, f *CaseDateFacts) []Finding {
		if f.I140FilingDate != nil && f.ETA9089CertificationDate == nil {
			return errOn(FieldI140FilingDate, "an I-140 filing requires a certified ETA 9089")
		}
		return nil
	}},
}
