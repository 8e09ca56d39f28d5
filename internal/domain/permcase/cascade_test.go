package permcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lexfield/perm-engine/pkg/errors"
	"github.com/lexfield/perm-engine/pkg/types/common"
)

func TestApplyCascade_PWDDetermination(t *testing.T) {
	eng := NewDefaultEngine()

	out, err := eng.ApplyCascade(CaseDateFacts{}, Change{Field: FieldPWDDeterminationDate, Value: "2024-01-15"})
	require.NoError(t, err)
	require.NotNil(t, out.PWDDeterminationDate)
	require.NotNil(t, out.PWDExpirationDate)
	assert.Equal(t, "2024-01-15", out.PWDDeterminationDate.String())
	assert.Equal(t, "2025-01-15", out.PWDExpirationDate.String())
}

func TestApplyCascade_NoticeOfFilingBusinessDays(t *testing.T) {
	eng := NewDefaultEngine()

	// Ten business days from Monday Nov 25, 2024 lands on Dec 10 because
	// Thanksgiving and two weekends are skipped.
	out, err := eng.ApplyCascade(CaseDateFacts{}, Change{Field: FieldNoticeOfFilingStartDate, Value: "2024-11-25"})
	require.NoError(t, err)
	require.NotNil(t, out.NoticeOfFilingEndDate)
	assert.Equal(t, "2024-12-10", out.NoticeOfFilingEndDate.String())
}

func TestApplyCascade_JobOrderAndCertification(t *testing.T) {
	eng := NewDefaultEngine()

	out, err := eng.ApplyCascade(CaseDateFacts{}, Change{Field: FieldJobOrderStartDate, Value: "2024-03-01"})
	require.NoError(t, err)
	require.NotNil(t, out.JobOrderEndDate)
	assert.Equal(t, "2024-03-31", out.JobOrderEndDate.String())

	out, err = eng.ApplyCascade(out, Change{Field: FieldETA9089CertificationDate, Value: "2024-06-01"})
	require.NoError(t, err)
	require.NotNil(t, out.ETA9089ExpirationDate)
	assert.Equal(t, "2024-11-28", out.ETA9089ExpirationDate.String())
}

func TestApplyCascade_Idempotent(t *testing.T) {
	eng := NewDefaultEngine()
	change := Change{Field: FieldPWDDeterminationDate, Value: "2024-01-15"}

	once, err := eng.ApplyCascade(CaseDateFacts{}, change)
	require.NoError(t, err)
	twice, err := eng.ApplyCascade(once, change)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestApplyCascade_NilClearsDerived(t *testing.T) {
	eng := NewDefaultEngine()

	out, err := eng.ApplyCascade(CaseDateFacts{}, Change{Field: FieldPWDDeterminationDate, Value: "2024-01-15"})
	require.NoError(t, err)
	require.NotNil(t, out.PWDExpirationDate)

	out, err = eng.ApplyCascade(out, Change{Field: FieldPWDDeterminationDate, Value: nil})
	require.NoError(t, err)
	assert.Nil(t, out.PWDDeterminationDate)
	assert.Nil(t, out.PWDExpirationDate)
}

func TestApplyCascade_NonTriggerFieldVerbatim(t *testing.T) {
	eng := NewDefaultEngine()

	out, err := eng.ApplyCascade(CaseDateFacts{}, Change{Field: FieldSundayAdFirstDate, Value: "2024-04-07"})
	require.NoError(t, err)
	require.NotNil(t, out.SundayAdFirstDate)
	assert.Equal(t, "2024-04-07", out.SundayAdFirstDate.String())
	assert.Nil(t, out.SundayAdSecondDate)
}

func TestApplyCascade_DoesNotMutateInput(t *testing.T) {
	eng := NewDefaultEngine()
	in := CaseDateFacts{EmployerName: "Acme"}

	out, err := eng.ApplyCascade(in, Change{Field: FieldPWDDeterminationDate, Value: "2024-01-15"})
	require.NoError(t, err)
	assert.Nil(t, in.PWDDeterminationDate)
	assert.NotNil(t, out.PWDDeterminationDate)
	assert.Equal(t, "Acme", out.EmployerName)
}

func TestApplyCascade_RFIReceivedDerivesDueDate(t *testing.T) {
	eng := NewDefaultEngine()
	facts := CaseDateFacts{RFIEntries: []RFIEntry{{ID: common.NewID()}}}

	out, err := eng.ApplyCascade(facts, Change{Field: FieldRFIReceivedDate, Value: "2024-08-01"})
	require.NoError(t, err)
	require.NotNil(t, out.RFIEntries[0].ReceivedDate)
	require.NotNil(t, out.RFIEntries[0].ResponseDueDate)
	assert.Equal(t, "2024-08-31", out.RFIEntries[0].ResponseDueDate.String())
	// Input untouched.
	assert.Nil(t, facts.RFIEntries[0].ReceivedDate)
}

func TestApplyCascade_RFITargetsFirstPending(t *testing.T) {
	eng := NewDefaultEngine()
	responded := MustParseDate("2024-05-01")
	facts := CaseDateFacts{RFIEntries: []RFIEntry{
		{ID: common.ID("a"), ResponseSubmittedDate: &responded},
		{ID: common.ID("b")},
	}}

	out, err := eng.ApplyCascade(facts, Change{Field: FieldRFIReceivedDate, Value: "2024-08-01"})
	require.NoError(t, err)
	assert.Nil(t, out.RFIEntries[0].ReceivedDate)
	require.NotNil(t, out.RFIEntries[1].ReceivedDate)
	assert.Equal(t, "2024-08-01", out.RFIEntries[1].ReceivedDate.String())
}

func TestApplyCascade_RFIExplicitIndex(t *testing.T) {
	eng := NewDefaultEngine()
	facts := CaseDateFacts{RFIEntries: []RFIEntry{{ID: common.ID("a")}, {ID: common.ID("b")}}}
	idx := 1

	out, err := eng.ApplyCascade(facts, Change{Field: FieldRFIReceivedDate, Value: "2024-08-01", EntryIndex: &idx})
	require.NoError(t, err)
	assert.Nil(t, out.RFIEntries[0].ReceivedDate)
	require.NotNil(t, out.RFIEntries[1].ReceivedDate)

	bad := 5
	_, err = eng.ApplyCascade(facts, Change{Field: FieldRFIReceivedDate, Value: "2024-08-01", EntryIndex: &bad})
	assert.Error(t, err)
}

func TestApplyCascade_RFEReceivedDerivesDueDate(t *testing.T) {
	eng := NewDefaultEngine()
	facts := CaseDateFacts{RFEEntries: []RFEEntry{{ID: common.NewID()}}}

	out, err := eng.ApplyCascade(facts, Change{Field: FieldRFEReceivedDate, Value: "2024-09-15"})
	require.NoError(t, err)
	require.NotNil(t, out.RFEEntries[0].ResponseDueDate)
	assert.Equal(t, "2024-10-15", out.RFEEntries[0].ResponseDueDate.String())
}

func TestApplyCascade_MalformedDate(t *testing.T) {
	eng := NewDefaultEngine()

	_, err := eng.ApplyCascade(CaseDateFacts{}, Change{Field: FieldPWDDeterminationDate, Value: "15/01/2024"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeMalformedDate, apperrors.GetCode(err))
}

func TestApplyCascade_UnknownField(t *testing.T) {
	eng := NewDefaultEngine()

	_, err := eng.ApplyCascade(CaseDateFacts{}, Change{Field: "favoriteColor", Value: "blue"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnknownField, apperrors.GetCode(err))
	assert.True(t, apperrors.IsMalformedInput(err))
}

func TestApplyCascade_StatusAndScalars(t *testing.T) {
	eng := NewDefaultEngine()

	out, err := eng.ApplyCascade(CaseDateFacts{}, Change{Field: FieldCaseStatus, Value: "recruitment"})
	require.NoError(t, err)
	assert.Equal(t, StatusRecruitment, out.CaseStatus)

	_, err = eng.ApplyCascade(CaseDateFacts{}, Change{Field: FieldCaseStatus, Value: "limbo"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidCaseStatus, apperrors.GetCode(err))

	out, err = eng.ApplyCascade(CaseDateFacts{}, Change{Field: FieldApplicantCount, Value: 4})
	require.NoError(t, err)
	require.NotNil(t, out.ApplicantCount)
	assert.Equal(t, 4, *out.ApplicantCount)

	out, err = eng.ApplyCascade(CaseDateFacts{}, Change{Field: FieldIsProfessional, Value: true})
	require.NoError(t, err)
	assert.True(t, out.IsProfessionalOccupation)
}
