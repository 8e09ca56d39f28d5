package permcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexfield/perm-engine/pkg/errors"
)

func TestClone_DeepCopiesPointers(t *testing.T) {
	count := 3
	facts := CaseDateFacts{
		EmployerName:         "Acme",
		PWDDeterminationDate: datePtr(MustParseDate("2025-01-15")),
		ApplicantCount:       &count,
		AdditionalRecruitment: []RecruitmentMethodEntry{
			{Method: MethodJobFair, Date: datePtr(MustParseDate("2025-03-01"))},
		},
		RFIEntries: []RFIEntry{
			{ID: "rfi-1", ReceivedDate: datePtr(MustParseDate("2025-08-01"))},
		},
	}

	clone := facts.Clone()

	*clone.PWDDeterminationDate = MustParseDate("2030-01-01")
	*clone.ApplicantCount = 99
	*clone.AdditionalRecruitment[0].Date = MustParseDate("2030-01-01")
	*clone.RFIEntries[0].ReceivedDate = MustParseDate("2030-01-01")

	assert.Equal(t, "2025-01-15", facts.PWDDeterminationDate.String())
	assert.Equal(t, 3, *facts.ApplicantCount)
	assert.Equal(t, "2025-03-01", facts.AdditionalRecruitment[0].Date.String())
	assert.Equal(t, "2025-08-01", facts.RFIEntries[0].ReceivedDate.String())
}

func TestAddRecruitmentMethod_RejectsDuplicate(t *testing.T) {
	facts := CaseDateFacts{}

	out, err := facts.AddRecruitmentMethod(RecruitmentMethodEntry{
		Method: MethodEmployerWebsite,
		Date:   datePtr(MustParseDate("2025-03-10")),
	})
	require.NoError(t, err)
	require.Len(t, out.AdditionalRecruitment, 1)
	assert.Empty(t, facts.AdditionalRecruitment) // input untouched

	_, err = out.AddRecruitmentMethod(RecruitmentMethodEntry{Method: MethodEmployerWebsite})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDuplicateRecruitmentMethod))
}

func TestAddRecruitmentMethod_RejectsUnknownMethod(t *testing.T) {
	facts := CaseDateFacts{}

	_, err := facts.AddRecruitmentMethod(RecruitmentMethodEntry{Method: "skywriting"})
	require.Error(t, err)
}

func TestLatestRecruitmentEnd_ProfessionalGating(t *testing.T) {
	facts := CaseDateFacts{
		SundayAdFirstDate: datePtr(MustParseDate("2025-03-02")),
		JobOrderEndDate:   datePtr(MustParseDate("2025-03-31")),
		AdditionalRecruitment: []RecruitmentMethodEntry{
			{Method: MethodJobFair, Date: datePtr(MustParseDate("2025-05-15"))},
		},
	}

	// Non-professional: the additional entry does not count.
	end := facts.LatestRecruitmentEnd()
	require.NotNil(t, end)
	assert.Equal(t, "2025-03-31", end.String())

	facts.IsProfessionalOccupation = true
	end = facts.LatestRecruitmentEnd()
	require.NotNil(t, end)
	assert.Equal(t, "2025-05-15", end.String())
}

func TestEarliestRecruitmentStart_Empty(t *testing.T) {
	facts := CaseDateFacts{}
	assert.Nil(t, facts.EarliestRecruitmentStart())
	assert.Nil(t, facts.LatestRecruitmentEnd())
}

func TestCaseStatusAndMethodEnums(t *testing.T) {
	assert.True(t, StatusRecruitment.Valid())
	assert.False(t, CaseStatus("archived").Valid())
	assert.True(t, MethodLocalEthnicPaper.Valid())
	assert.False(t, RecruitmentMethod("skywriting").Valid())
}
