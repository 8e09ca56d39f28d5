package permcase

import (
	"time"

	"github.com/lexfield/perm-engine/pkg/errors"
	"github.com/lexfield/perm-engine/pkg/types/common"
)

// CaseStatus tracks which PERM stage a case is in.
type CaseStatus string

const (
	StatusPWD         CaseStatus = "pwd"
	StatusRecruitment CaseStatus = "recruitment"
	StatusETA9089     CaseStatus = "eta9089"
	StatusI140        CaseStatus = "i140"
	StatusClosed      CaseStatus = "closed"
)

// Valid reports whether s is a member of the closed status enum.
func (s CaseStatus) Valid() bool {
	switch s {
	case StatusPWD, StatusRecruitment, StatusETA9089, StatusI140, StatusClosed:
		return true
	}
	return false
}

// RecruitmentMethod is one of the additional recruitment steps available for
// professional occupations under 20 CFR §656.17(e)(1)(ii), plus the
// professional-journal alternative of §656.17(e)(1)(i)(B).
type RecruitmentMethod string

const (
	MethodJobFair             RecruitmentMethod = "job_fair"
	MethodEmployerWebsite     RecruitmentMethod = "employer_website"
	MethodJobSearchWebsite    RecruitmentMethod = "job_search_website"
	MethodOnCampusRecruiting  RecruitmentMethod = "on_campus_recruiting"
	MethodTradeOrganization   RecruitmentMethod = "trade_organization"
	MethodPrivateFirm         RecruitmentMethod = "private_employment_firm"
	MethodEmployeeReferral    RecruitmentMethod = "employee_referral_program"
	MethodCampusPlacement     RecruitmentMethod = "campus_placement_office"
	MethodLocalEthnicPaper    RecruitmentMethod = "local_ethnic_newspaper"
	MethodRadioTVAd           RecruitmentMethod = "radio_tv_ad"
	MethodProfessionalJournal RecruitmentMethod = "professional_journal"
)

// Valid reports whether m is a member of the closed method enum.
func (m RecruitmentMethod) Valid() bool {
	switch m {
	case MethodJobFair, MethodEmployerWebsite, MethodJobSearchWebsite,
		MethodOnCampusRecruiting, MethodTradeOrganization, MethodPrivateFirm,
		MethodEmployeeReferral, MethodCampusPlacement, MethodLocalEthnicPaper,
		MethodRadioTVAd, MethodProfessionalJournal:
		return true
	}
	return false
}

// RecruitmentMethodEntry records one additional recruitment step.  A case
// never holds two entries with the same Method.
type RecruitmentMethodEntry struct {
	Method      RecruitmentMethod `json:"method" yaml:"method"`
	Date        *Date             `json:"date,omitempty" yaml:"date,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
}

// RFIEntry is one DOL request-for-information cycle.  An entry is created
// when the agency issues the request and transitions from pending to
// responded exactly once, when ResponseSubmittedDate is set.  Entries are
// kept in insertion order, not date order.
type RFIEntry struct {
	ID                    common.ID `json:"id" yaml:"id"`
	CreatedAt             time.Time `json:"created_at" yaml:"created_at"`
	ReceivedDate          *Date     `json:"received_date,omitempty" yaml:"received_date,omitempty"`
	ResponseDueDate       *Date     `json:"response_due_date,omitempty" yaml:"response_due_date,omitempty"`
	ResponseSubmittedDate *Date     `json:"response_submitted_date,omitempty" yaml:"response_submitted_date,omitempty"`
}

// RFEEntry is one USCIS request-for-evidence cycle, with the same lifecycle
// as RFIEntry.
type RFEEntry struct {
	ID                    common.ID `json:"id" yaml:"id"`
	CreatedAt             time.Time `json:"created_at" yaml:"created_at"`
	ReceivedDate          *Date     `json:"received_date,omitempty" yaml:"received_date,omitempty"`
	ResponseDueDate       *Date     `json:"response_due_date,omitempty" yaml:"response_due_date,omitempty"`
	ResponseSubmittedDate *Date     `json:"response_submitted_date,omitempty" yaml:"response_submitted_date,omitempty"`
}

// CaseDateFacts is the immutable-per-call snapshot every engine operation
// receives.  The engine borrows it for the duration of one call and never
// mutates it; operations that change state return a fresh value.  Optional
// fields are nil until the corresponding regulatory milestone is reached.
type CaseDateFacts struct {
	EmployerName    string `json:"employer_name,omitempty" yaml:"employer_name,omitempty"`
	BeneficiaryName string `json:"beneficiary_name,omitempty" yaml:"beneficiary_name,omitempty"`
	PositionTitle   string `json:"position_title,omitempty" yaml:"position_title,omitempty"`

	// PWD group
	PWDFilingDate        *Date `json:"pwd_filing_date,omitempty" yaml:"pwd_filing_date,omitempty"`
	PWDDeterminationDate *Date `json:"pwd_determination_date,omitempty" yaml:"pwd_determination_date,omitempty"`
	PWDExpirationDate    *Date `json:"pwd_expiration_date,omitempty" yaml:"pwd_expiration_date,omitempty"`

	// Recruitment group
	SundayAdFirstDate       *Date                    `json:"sunday_ad_first_date,omitempty" yaml:"sunday_ad_first_date,omitempty"`
	SundayAdSecondDate      *Date                    `json:"sunday_ad_second_date,omitempty" yaml:"sunday_ad_second_date,omitempty"`
	SundayAdNewspaper       string                   `json:"sunday_ad_newspaper,omitempty" yaml:"sunday_ad_newspaper,omitempty"`
	JobOrderStartDate       *Date                    `json:"job_order_start_date,omitempty" yaml:"job_order_start_date,omitempty"`
	JobOrderEndDate         *Date                    `json:"job_order_end_date,omitempty" yaml:"job_order_end_date,omitempty"`
	JobOrderState           string                   `json:"job_order_state,omitempty" yaml:"job_order_state,omitempty"`
	NoticeOfFilingStartDate *Date                    `json:"notice_of_filing_start_date,omitempty" yaml:"notice_of_filing_start_date,omitempty"`
	NoticeOfFilingEndDate   *Date                    `json:"notice_of_filing_end_date,omitempty" yaml:"notice_of_filing_end_date,omitempty"`
	AdditionalRecruitment   []RecruitmentMethodEntry `json:"additional_recruitment,omitempty" yaml:"additional_recruitment,omitempty"`
	ApplicantCount          *int                     `json:"applicant_count,omitempty" yaml:"applicant_count,omitempty"`

	IsProfessionalOccupation bool `json:"is_professional_occupation,omitempty" yaml:"is_professional_occupation,omitempty"`

	// ETA 9089 group
	ETA9089FilingDate        *Date  `json:"eta9089_filing_date,omitempty" yaml:"eta9089_filing_date,omitempty"`
	ETA9089AuditDate         *Date  `json:"eta9089_audit_date,omitempty" yaml:"eta9089_audit_date,omitempty"`
	ETA9089CertificationDate *Date  `json:"eta9089_certification_date,omitempty" yaml:"eta9089_certification_date,omitempty"`
	ETA9089ExpirationDate    *Date  `json:"eta9089_expiration_date,omitempty" yaml:"eta9089_expiration_date,omitempty"`
	ETA9089CaseNumber        string `json:"eta9089_case_number,omitempty" yaml:"eta9089_case_number,omitempty"`

	// I-140 group
	I140FilingDate   *Date `json:"i140_filing_date,omitempty" yaml:"i140_filing_date,omitempty"`
	I140ReceiptDate  *Date `json:"i140_receipt_date,omitempty" yaml:"i140_receipt_date,omitempty"`
	I140ApprovalDate *Date `json:"i140_approval_date,omitempty" yaml:"i140_approval_date,omitempty"`
	I140DenialDate   *Date `json:"i140_denial_date,omitempty" yaml:"i140_denial_date,omitempty"`

	CaseStatus CaseStatus `json:"case_status,omitempty" yaml:"case_status,omitempty"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty" yaml:"deleted_at,omitempty"`

	RFIEntries []RFIEntry `json:"rfi_entries,omitempty" yaml:"rfi_entries,omitempty"`
	RFEEntries []RFEEntry `json:"rfe_entries,omitempty" yaml:"rfe_entries,omitempty"`
}

// Clone returns a deep copy of the snapshot.  The cascade engine clones
// before writing so that callers keep sole ownership of their inputs.
func (f CaseDateFacts) Clone() CaseDateFacts {
	out := f
	out.PWDFilingDate = cloneDate(f.PWDFilingDate)
	out.PWDDeterminationDate = cloneDate(f.PWDDeterminationDate)
	out.PWDExpirationDate = cloneDate(f.PWDExpirationDate)
	out.SundayAdFirstDate = cloneDate(f.SundayAdFirstDate)
	out.SundayAdSecondDate = cloneDate(f.SundayAdSecondDate)
	out.JobOrderStartDate = cloneDate(f.JobOrderStartDate)
	out.JobOrderEndDate = cloneDate(f.JobOrderEndDate)
	out.NoticeOfFilingStartDate = cloneDate(f.NoticeOfFilingStartDate)
	out.NoticeOfFilingEndDate = cloneDate(f.NoticeOfFilingEndDate)
	out.ETA9089FilingDate = cloneDate(f.ETA9089FilingDate)
	out.ETA9089AuditDate = cloneDate(f.ETA9089AuditDate)
	out.ETA9089CertificationDate = cloneDate(f.ETA9089CertificationDate)
	out.ETA9089ExpirationDate = cloneDate(f.ETA9089ExpirationDate)
	out.I140FilingDate = cloneDate(f.I140FilingDate)
	out.I140ReceiptDate = cloneDate(f.I140ReceiptDate)
	out.I140ApprovalDate = cloneDate(f.I140ApprovalDate)
	out.I140DenialDate = cloneDate(f.I140DenialDate)
	if f.ApplicantCount != nil {
		n := *f.ApplicantCount
		out.ApplicantCount = &n
	}
	if f.DeletedAt != nil {
		t := *f.DeletedAt
		out.DeletedAt = &t
	}
	if f.AdditionalRecruitment != nil {
		out.AdditionalRecruitment = make([]RecruitmentMethodEntry, len(f.AdditionalRecruitment))
		for i, e := range f.AdditionalRecruitment {
			e.Date = cloneDate(e.Date)
			out.AdditionalRecruitment[i] = e
		}
	}
	if f.RFIEntries != nil {
		out.RFIEntries = make([]RFIEntry, len(f.RFIEntries))
		for i, e := range f.RFIEntries {
			e.ReceivedDate = cloneDate(e.ReceivedDate)
			e.ResponseDueDate = cloneDate(e.ResponseDueDate)
			e.ResponseSubmittedDate = cloneDate(e.ResponseSubmittedDate)
			out.RFIEntries[i] = e
		}
	}
	if f.RFEEntries != nil {
		out.RFEEntries = make([]RFEEntry, len(f.RFEEntries))
		for i, e := range f.RFEEntries {
			e.ReceivedDate = cloneDate(e.ReceivedDate)
			e.ResponseDueDate = cloneDate(e.ResponseDueDate)
			e.ResponseSubmittedDate = cloneDate(e.ResponseSubmittedDate)
			out.RFEEntries[i] = e
		}
	}
	return out
}

func cloneDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// recruitmentEndDates collects every recruitment end date actually present
// on the snapshot.  The additional-recruitment dates participate only for
// professional occupations, matching the regulatory recruitment plan.
func (f *CaseDateFacts) recruitmentEndDates() []Date {
	var out []Date
	if f.SundayAdFirstDate != nil {
		out = append(out, *f.SundayAdFirstDate)
	}
	if f.SundayAdSecondDate != nil {
		out = append(out, *f.SundayAdSecondDate)
	}
	if f.JobOrderEndDate != nil {
		out = append(out, *f.JobOrderEndDate)
	}
	if f.NoticeOfFilingEndDate != nil {
		out = append(out, *f.NoticeOfFilingEndDate)
	}
	if f.IsProfessionalOccupation {
		for _, e := range f.AdditionalRecruitment {
			if e.Date != nil {
				out = append(out, *e.Date)
			}
		}
	}
	return out
}

// recruitmentStartDates collects every recruitment start date present.
func (f *CaseDateFacts) recruitmentStartDates() []Date {
	var out []Date
	if f.SundayAdFirstDate != nil {
		out = append(out, *f.SundayAdFirstDate)
	}
	if f.SundayAdSecondDate != nil {
		out = append(out, *f.SundayAdSecondDate)
	}
	if f.JobOrderStartDate != nil {
		out = append(out, *f.JobOrderStartDate)
	}
	if f.NoticeOfFilingStartDate != nil {
		out = append(out, *f.NoticeOfFilingStartDate)
	}
	if f.IsProfessionalOccupation {
		for _, e := range f.AdditionalRecruitment {
			if e.Date != nil {
				out = append(out, *e.Date)
			}
		}
	}
	return out
}

// LatestRecruitmentEnd returns the latest recruitment end date present, or
// nil when no recruitment has been recorded.
func (f *CaseDateFacts) LatestRecruitmentEnd() *Date {
	ends := f.recruitmentEndDates()
	if len(ends) == 0 {
		return nil
	}
	latest := ends[0]
	for _, d := range ends[1:] {
		latest = maxDate(latest, d)
	}
	return datePtr(latest)
}

// EarliestRecruitmentStart returns the earliest recruitment start date
// present, or nil when no recruitment has been recorded.
func (f *CaseDateFacts) EarliestRecruitmentStart() *Date {
	starts := f.recruitmentStartDates()
	if len(starts) == 0 {
		return nil
	}
	earliest := starts[0]
	for _, d := range starts[1:] {
		earliest = minDate(earliest, d)
	}
	return datePtr(earliest)
}

// AddRecruitmentMethod returns a copy of the snapshot with the entry
// appended.  Duplicate methods are rejected.
func (f CaseDateFacts) AddRecruitmentMethod(entry RecruitmentMethodEntry) (CaseDateFacts, error) {
	if !entry.Method.Valid() {
		return CaseDateFacts{}, errors.InvalidParam("unknown recruitment method").WithDetail(string(entry.Method))
	}
	for _, e := range f.AdditionalRecruitment {
		if e.Method == entry.Method {
			return CaseDateFacts{}, errors.New(errors.ErrCodeDuplicateRecruitmentMethod,
				"recruitment method already recorded").WithDetail(string(entry.Method))
		}
	}
	out := f.Clone()
	out.AdditionalRecruitment = append(out.AdditionalRecruitment, entry)
	return out, nil
}
