package permcase

import (
	"fmt"

	"github.com/lexfield/perm-engine/pkg/errors"
)

// Field identifies a settable case field in cascade and constraint calls.
type Field string

const (
	FieldEmployerName    Field = "employerName"
	FieldBeneficiaryName Field = "beneficiaryName"
	FieldPositionTitle   Field = "positionTitle"

	FieldPWDFilingDate        Field = "pwdFilingDate"
	FieldPWDDeterminationDate Field = "pwdDeterminationDate"
	FieldPWDExpirationDate    Field = "pwdExpirationDate"

	FieldSundayAdFirstDate       Field = "sundayAdFirstDate"
	FieldSundayAdSecondDate      Field = "sundayAdSecondDate"
	FieldSundayAdNewspaper       Field = "sundayAdNewspaper"
	FieldJobOrderStartDate       Field = "jobOrderStartDate"
	FieldJobOrderEndDate         Field = "jobOrderEndDate"
	FieldJobOrderState           Field = "jobOrderState"
	FieldNoticeOfFilingStartDate Field = "noticeOfFilingStartDate"
	FieldNoticeOfFilingEndDate   Field = "noticeOfFilingEndDate"
	FieldApplicantCount          Field = "applicantCount"
	FieldIsProfessional          Field = "isProfessionalOccupation"

	FieldETA9089FilingDate        Field = "eta9089FilingDate"
	FieldETA9089AuditDate         Field = "eta9089AuditDate"
	FieldETA9089CertificationDate Field = "eta9089CertificationDate"
	FieldETA9089ExpirationDate    Field = "eta9089ExpirationDate"
	FieldETA9089CaseNumber        Field = "eta9089CaseNumber"

	FieldI140FilingDate   Field = "i140FilingDate"
	FieldI140ReceiptDate  Field = "i140ReceiptDate"
	FieldI140ApprovalDate Field = "i140ApprovalDate"
	FieldI140DenialDate   Field = "i140DenialDate"

	FieldCaseStatus Field = "caseStatus"

	// RFI/RFE received dates address an entry in the corresponding list:
	// Change.EntryIndex when set, otherwise the first pending entry.
	FieldRFIReceivedDate Field = "rfiReceivedDate"
	FieldRFEReceivedDate Field = "rfeReceivedDate"
)

// Change is one field edit.  Value accepts nil (clear), an ISO date string,
// a Date or a *Date; the non-date fields take a string, int, or bool.
type Change struct {
	Field Field
	Value interface{}

	// EntryIndex addresses a specific RFI/RFE entry for the received-date
	// fields.  Nil targets the first pending entry.
	EntryIndex *int
}

// cascadeRule maps a trigger field to the single field derived from it.
// Derived fields are never themselves triggers, which bounds propagation to
// one hop and keeps the dependency graph acyclic by construction.
type cascadeRule struct {
	derived Field
	derive  func(e *Engine, src Date) Date
}

// cascadeTable is the one-directional dependency table.  Adding a cascade
// means adding a row here; no control flow changes.
var cascadeTable = map[Field]cascadeRule{
	FieldPWDDeterminationDate: {
		derived: FieldPWDExpirationDate,
		derive: func(e *Engine, src Date) Date {
			return src.AddYears(e.rules.PWDValidityYears)
		},
	},
	FieldNoticeOfFilingStartDate: {
		derived: FieldNoticeOfFilingEndDate,
		derive: func(e *Engine, src Date) Date {
			return e.rules.Calendar.AddBusinessDays(src, e.rules.NoticeOfFilingBusinessDays)
		},
	},
	FieldJobOrderStartDate: {
		derived: FieldJobOrderEndDate,
		derive: func(e *Engine, src Date) Date {
			return AddCalendarDays(src, e.rules.JobOrderDays)
		},
	},
	FieldETA9089CertificationDate: {
		derived: FieldETA9089ExpirationDate,
		derive: func(e *Engine, src Date) Date {
			return AddCalendarDays(src, e.rules.CertificationValidityDays)
		},
	},
}

// ApplyCascade sets one field on a copy of the snapshot and recomputes every
// field derived from it.  Applying the same change twice from the same base
// state yields the same result; clearing a trigger clears its derived field
// rather than leaving a stale value; fields outside the cascade table are
// set verbatim with no side effects.
func (eng *Engine) ApplyCascade(facts CaseDateFacts, change Change) (CaseDateFacts, error) {
	out := facts.Clone()

	switch change.Field {
	case FieldRFIReceivedDate:
		if err := eng.applyRFIReceived(&out, change); err != nil {
			return CaseDateFacts{}, err
		}
		return out, nil
	case FieldRFEReceivedDate:
		if err := eng.applyRFEReceived(&out, change); err != nil {
			return CaseDateFacts{}, err
		}
		return out, nil
	}

	if err := setField(&out, change.Field, change.Value); err != nil {
		return CaseDateFacts{}, err
	}

	rule, ok := cascadeTable[change.Field]
	if !ok {
		return out, nil
	}
	src := dateFieldValue(&out, change.Field)
	if src == nil {
		if err := setField(&out, rule.derived, nil); err != nil {
			return CaseDateFacts{}, err
		}
		return out, nil
	}
	if err := setField(&out, rule.derived, rule.derive(eng, *src)); err != nil {
		return CaseDateFacts{}, err
	}
	return out, nil
}

// applyRFIReceived sets the received date on the addressed RFI entry and
// derives its response due date.
func (eng *Engine) applyRFIReceived(f *CaseDateFacts, change Change) error {
	idx, err := rfiTargetIndex(f, change.EntryIndex)
	if err != nil {
		return err
	}
	d, err := coerceDate(change.Field, change.Value)
	if err != nil {
		return err
	}
	f.RFIEntries[idx].ReceivedDate = d
	if d == nil {
		f.RFIEntries[idx].ResponseDueDate = nil
		return nil
	}
	f.RFIEntries[idx].ResponseDueDate = datePtr(AddCalendarDays(*d, eng.rules.RFIResponseDays))
	return nil
}

// applyRFEReceived is the RFE counterpart of applyRFIReceived.
func (eng *Engine) applyRFEReceived(f *CaseDateFacts, change Change) error {
	idx, err := rfeTargetIndex(f, change.EntryIndex)
	if err != nil {
		return err
	}
	d, err := coerceDate(change.Field, change.Value)
	if err != nil {
		return err
	}
	f.RFEEntries[idx].ReceivedDate = d
	if d == nil {
		f.RFEEntries[idx].ResponseDueDate = nil
		return nil
	}
	f.RFEEntries[idx].ResponseDueDate = datePtr(AddCalendarDays(*d, eng.rules.RFEResponseDays))
	return nil
}

func rfiTargetIndex(f *CaseDateFacts, explicit *int) (int, error) {
	if explicit != nil {
		if *explicit < 0 || *explicit >= len(f.RFIEntries) {
			return 0, errors.InvalidParam("rfi entry index out of range").
				WithDetail(fmt.Sprintf("index=%d len=%d", *explicit, len(f.RFIEntries)))
		}
		return *explicit, nil
	}
	for i := range f.RFIEntries {
		if f.RFIEntries[i].ResponseSubmittedDate == nil {
			return i, nil
		}
	}
	return 0, errors.InvalidParam("no pending rfi entry to update")
}

func rfeTargetIndex(f *CaseDateFacts, explicit *int) (int, error) {
	if explicit != nil {
		if *explicit < 0 || *explicit >= len(f.RFEEntries) {
			return 0, errors.InvalidParam("rfe entry index out of range").
				WithDetail(fmt.Sprintf("index=%d len=%d", *explicit, len(f.RFEEntries)))
		}
		return *explicit, nil
	}
	for i := range f.RFEEntries {
		if f.RFEEntries[i].ResponseSubmittedDate == nil {
			return i, nil
		}
	}
	return 0, errors.InvalidParam("no pending rfe entry to update")
}

// coerceDate normalises a Change value into an optional Date.  Malformed
// strings fail fast; the engine never guesses.
func coerceDate(field Field, v interface{}) (*Date, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case Date:
		return datePtr(val), nil
	case *Date:
		return cloneDate(val), nil
	case string:
		d, err := ParseDate(val)
		if err != nil {
			return nil, errors.MalformedDate(string(field), val)
		}
		return datePtr(d), nil
	default:
		return nil, errors.InvalidParam("value is not a date").
			WithDetail(fmt.Sprintf("field=%s type=%T", field, v))
	}
}

func coerceString(field Field, v interface{}) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	default:
		return "", errors.InvalidParam("value is not a string").
			WithDetail(fmt.Sprintf("field=%s type=%T", field, v))
	}
}

// setField writes one field on the snapshot.  It is the single place that
// knows the Field → struct-member mapping.
func setField(f *CaseDateFacts, field Field, v interface{}) error {
	switch field {
	case FieldEmployerName, FieldBeneficiaryName, FieldPositionTitle,
		FieldSundayAdNewspaper, FieldJobOrderState, FieldETA9089CaseNumber:
		s, err := coerceString(field, v)
		if err != nil {
			return err
		}
		switch field {
		case FieldEmployerName:
			f.EmployerName = s
		case FieldBeneficiaryName:
			f.BeneficiaryName = s
		case FieldPositionTitle:
			f.PositionTitle = s
		case FieldSundayAdNewspaper:
			f.SundayAdNewspaper = s
		case FieldJobOrderState:
			f.JobOrderState = s
		case FieldETA9089CaseNumber:
			f.ETA9089CaseNumber = s
		}
		return nil

	case FieldCaseStatus:
		s, err := coerceString(field, v)
		if err != nil {
			return err
		}
		status := CaseStatus(s)
		if s != "" && !status.Valid() {
			return errors.New(errors.ErrCodeInvalidCaseStatus, "invalid case status").WithDetail(s)
		}
		f.CaseStatus = status
		return nil

	case FieldApplicantCount:
		switch val := v.(type) {
		case nil:
			f.ApplicantCount = nil
		case int:
			f.ApplicantCount = &val
		case *int:
			if val == nil {
				f.ApplicantCount = nil
			} else {
				n := *val
				f.ApplicantCount = &n
			}
		default:
			return errors.InvalidParam("value is not an int").
				WithDetail(fmt.Sprintf("field=%s type=%T", field, v))
		}
		return nil

	case FieldIsProfessional:
		b, ok := v.(bool)
		if !ok {
			return errors.InvalidParam("value is not a bool").
				WithDetail(fmt.Sprintf("field=%s type=%T", field, v))
		}
		f.IsProfessionalOccupation = b
		return nil
	}

	target := dateFieldPtr(f, field)
	if target == nil {
		return errors.UnknownField(string(field))
	}
	d, err := coerceDate(field, v)
	if err != nil {
		return err
	}
	*target = d
	return nil
}

// dateFieldPtr returns the address of the optional date member behind a date
// field, or nil for non-date fields.
func dateFieldPtr(f *CaseDateFacts, field Field) **Date {
	switch field {
	case FieldPWDFilingDate:
		return &f.PWDFilingDate
	case FieldPWDDeterminationDate:
		return &f.PWDDeterminationDate
	case FieldPWDExpirationDate:
		return &f.PWDExpirationDate
	case FieldSundayAdFirstDate:
		return &f.SundayAdFirstDate
	case FieldSundayAdSecondDate:
		return &f.SundayAdSecondDate
	case FieldJobOrderStartDate:
		return &f.JobOrderStartDate
	case FieldJobOrderEndDate:
		return &f.JobOrderEndDate
	case FieldNoticeOfFilingStartDate:
		return &f.NoticeOfFilingStartDate
	case FieldNoticeOfFilingEndDate:
		return &f.NoticeOfFilingEndDate
	case FieldETA9089FilingDate:
		return &f.ETA9089FilingDate
	case FieldETA9089AuditDate:
		return &f.ETA9089AuditDate
	case FieldETA9089CertificationDate:
		return &f.ETA9089CertificationDate
	case FieldETA9089ExpirationDate:
		return &f.ETA9089ExpirationDate
	case FieldI140FilingDate:
		return &f.I140FilingDate
	case FieldI140ReceiptDate:
		return &f.I140ReceiptDate
	case FieldI140ApprovalDate:
		return &f.I140ApprovalDate
	case FieldI140DenialDate:
		return &f.I140DenialDate
	}
	return nil
}

// dateFieldValue reads the optional date behind a date field.
func dateFieldValue(f *CaseDateFacts, field Field) *Date {
	p := dateFieldPtr(f, field)
	if p == nil {
		return nil
	}
	return *p
}
