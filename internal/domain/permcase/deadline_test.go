package permcase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lexfield/perm-engine/pkg/errors"
	"github.com/lexfield/perm-engine/pkg/types/common"
)

func TestIsDeadlineActive_PWDExpiration(t *testing.T) {
	eng := NewDefaultEngine()
	exp := MustParseDate("2025-06-30")

	status, err := eng.IsDeadlineActive(DeadlinePWDExpiration, &CaseDateFacts{PWDExpirationDate: &exp})
	require.NoError(t, err)
	assert.True(t, status.IsActive)
	assert.Empty(t, status.SupersededReason)

	// Filing the ETA 9089 supersedes the expiration deadline.
	filed := MustParseDate("2024-12-01")
	status, err = eng.IsDeadlineActive(DeadlinePWDExpiration, &CaseDateFacts{
		PWDExpirationDate: &exp,
		ETA9089FilingDate: &filed,
	})
	require.NoError(t, err)
	assert.False(t, status.IsActive)
	assert.Equal(t, ReasonETA9089Filed, status.SupersededReason)
}

func TestIsDeadlineActive_PWDExpiration_NoDate(t *testing.T) {
	eng := NewDefaultEngine()

	status, err := eng.IsDeadlineActive(DeadlinePWDExpiration, &CaseDateFacts{})
	require.NoError(t, err)
	assert.False(t, status.IsActive)
	assert.Equal(t, ReasonNoDate, status.SupersededReason)
}

func TestIsDeadlineActive_GlobalFiltersPrecede(t *testing.T) {
	eng := NewDefaultEngine()
	exp := MustParseDate("2025-06-30")

	// A closed case reports CASE_CLOSED for every type, regardless of any
	// per-type condition that would otherwise apply.
	for _, dt := range AllDeadlineTypes {
		status, err := eng.IsDeadlineActive(dt, &CaseDateFacts{
			CaseStatus:        StatusClosed,
			PWDExpirationDate: &exp,
		})
		require.NoError(t, err, string(dt))
		assert.False(t, status.IsActive, string(dt))
		assert.Equal(t, ReasonCaseClosed, status.SupersededReason, string(dt))
	}

	deleted := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, dt := range AllDeadlineTypes {
		status, err := eng.IsDeadlineActive(dt, &CaseDateFacts{DeletedAt: &deleted})
		require.NoError(t, err, string(dt))
		assert.Equal(t, ReasonCaseDeleted, status.SupersededReason, string(dt))
	}
}

func TestIsDeadlineActive_Exhaustive(t *testing.T) {
	eng := NewDefaultEngine()
	exp := MustParseDate("2025-06-30")
	cert := MustParseDate("2024-06-01")
	received := MustParseDate("2024-08-01")

	snapshots := []*CaseDateFacts{
		{},
		{PWDExpirationDate: &exp},
		{ETA9089CertificationDate: &cert},
		{ETA9089CertificationDate: &cert, ETA9089ExpirationDate: &exp},
		{RFIEntries: []RFIEntry{{ID: common.NewID(), ReceivedDate: &received}}},
		{CaseStatus: StatusClosed},
	}

	// Exactly one outcome per pair: active with no reason, or inactive
	// with exactly one reason.
	for _, facts := range snapshots {
		for _, dt := range AllDeadlineTypes {
			status, err := eng.IsDeadlineActive(dt, facts)
			require.NoError(t, err)
			if status.IsActive {
				assert.Empty(t, status.SupersededReason)
			} else {
				assert.NotEmpty(t, status.SupersededReason)
			}
		}
	}
}

func TestIsDeadlineActive_FilingWindowTypes(t *testing.T) {
	eng := NewDefaultEngine()
	filed := MustParseDate("2024-09-01")

	for _, dt := range []DeadlineType{DeadlineFilingWindowOpens, DeadlineFilingWindowCloses, DeadlineRecruitmentWindowCloses} {
		status, err := eng.IsDeadlineActive(dt, &CaseDateFacts{})
		require.NoError(t, err, string(dt))
		assert.True(t, status.IsActive, string(dt))

		status, err = eng.IsDeadlineActive(dt, &CaseDateFacts{ETA9089FilingDate: &filed})
		require.NoError(t, err, string(dt))
		assert.Equal(t, ReasonETA9089Filed, status.SupersededReason, string(dt))
	}
}

func TestIsDeadlineActive_I140Filing(t *testing.T) {
	eng := NewDefaultEngine()
	cert := MustParseDate("2024-06-01")
	exp := MustParseDate("2024-11-28")
	filed := MustParseDate("2024-07-01")

	// Certification date alone is not enough.
	status, err := eng.IsDeadlineActive(DeadlineI140Filing, &CaseDateFacts{ETA9089CertificationDate: &cert})
	require.NoError(t, err)
	assert.Equal(t, ReasonNotCertified, status.SupersededReason)

	status, err = eng.IsDeadlineActive(DeadlineI140Filing, &CaseDateFacts{
		ETA9089CertificationDate: &cert,
		ETA9089ExpirationDate:    &exp,
	})
	require.NoError(t, err)
	assert.True(t, status.IsActive)

	status, err = eng.IsDeadlineActive(DeadlineI140Filing, &CaseDateFacts{
		ETA9089CertificationDate: &cert,
		ETA9089ExpirationDate:    &exp,
		I140FilingDate:           &filed,
	})
	require.NoError(t, err)
	assert.Equal(t, ReasonI140Filed, status.SupersededReason)
}

func TestIsDeadlineActive_RFI(t *testing.T) {
	eng := NewDefaultEngine()
	responded := MustParseDate("2024-08-20")

	// Zero entries counts as responded.
	status, err := eng.IsDeadlineActive(DeadlineRFIDue, &CaseDateFacts{})
	require.NoError(t, err)
	assert.Equal(t, ReasonRFIResponded, status.SupersededReason)

	// One pending entry keeps the deadline active.
	status, err = eng.IsDeadlineActive(DeadlineRFIDue, &CaseDateFacts{
		RFIEntries: []RFIEntry{{ID: common.NewID()}},
	})
	require.NoError(t, err)
	assert.True(t, status.IsActive)

	// All entries responded supersedes it.
	status, err = eng.IsDeadlineActive(DeadlineRFIDue, &CaseDateFacts{
		RFIEntries: []RFIEntry{{ID: common.NewID(), ResponseSubmittedDate: &responded}},
	})
	require.NoError(t, err)
	assert.Equal(t, ReasonRFIResponded, status.SupersededReason)
}

func TestIsDeadlineActive_UnknownType(t *testing.T) {
	eng := NewDefaultEngine()

	_, err := eng.IsDeadlineActive("tax_day", &CaseDateFacts{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnknownDeadlineType, apperrors.GetCode(err))
	assert.True(t, apperrors.IsMalformedInput(err))
}

func TestGetActiveRFIEntry_OrderSensitivity(t *testing.T) {
	responded := MustParseDate("2024-08-20")
	later := MustParseDate("2024-09-01")
	entries := []RFIEntry{
		{ID: common.ID("first"), ReceivedDate: &later, ResponseSubmittedDate: &responded},
		{ID: common.ID("second")},
	}

	// The first entry by list order lacking a submitted response wins,
	// independent of received-date ordering.
	got := GetActiveRFIEntry(entries)
	require.NotNil(t, got)
	assert.Equal(t, common.ID("second"), got.ID)

	assert.Nil(t, GetActiveRFIEntry(nil))
	assert.Nil(t, GetActiveRFIEntry([]RFIEntry{{ID: common.ID("a"), ResponseSubmittedDate: &responded}}))
}

func TestGetActiveRFEEntry(t *testing.T) {
	entries := []RFEEntry{{ID: common.ID("x")}}
	got := GetActiveRFEEntry(entries)
	require.NotNil(t, got)
	assert.Equal(t, common.ID("x"), got.ID)
	assert.Nil(t, GetActiveRFEEntry(nil))
}

func TestHasAnyActiveDeadline(t *testing.T) {
	eng := NewDefaultEngine()
	exp := MustParseDate("2025-06-30")

	// The filing-window types are active whenever the case is open and
	// unfiled, so an empty open case still has active deadlines.
	assert.True(t, eng.HasAnyActiveDeadline(&CaseDateFacts{}))

	assert.False(t, eng.HasAnyActiveDeadline(&CaseDateFacts{
		CaseStatus:        StatusClosed,
		PWDExpirationDate: &exp,
	}))
}

func TestComputeDeadline(t *testing.T) {
	eng := NewDefaultEngine()
	jobStart := MustParseDate("2024-03-01")
	jobEnd := MustParseDate("2024-03-31")
	due := MustParseDate("2024-08-31")
	facts := &CaseDateFacts{
		JobOrderStartDate: &jobStart,
		JobOrderEndDate:   &jobEnd,
		RFIEntries:        []RFIEntry{{ID: common.NewID(), ResponseDueDate: &due}},
	}

	d, err := eng.ComputeDeadline(DeadlineFilingWindowOpens, facts)
	require.NoError(t, err)
	assert.Equal(t, "2024-04-30", d.String())

	d, err = eng.ComputeDeadline(DeadlineRecruitmentWindowCloses, facts)
	require.NoError(t, err)
	assert.Equal(t, "2024-08-28", d.String())

	d, err = eng.ComputeDeadline(DeadlineFilingWindowCloses, facts)
	require.NoError(t, err)
	assert.Equal(t, "2024-08-28", d.String())

	d, err = eng.ComputeDeadline(DeadlineRFIDue, facts)
	require.NoError(t, err)
	assert.Equal(t, "2024-08-31", d.String())
}

func TestComputeDeadline_PWDLimitedWindow(t *testing.T) {
	eng := NewDefaultEngine()
	jobStart := MustParseDate("2024-03-01")
	jobEnd := MustParseDate("2024-03-31")
	pwdExp := MustParseDate("2024-06-30")
	facts := &CaseDateFacts{
		JobOrderStartDate: &jobStart,
		JobOrderEndDate:   &jobEnd,
		PWDExpirationDate: &pwdExp,
	}

	d, err := eng.ComputeDeadline(DeadlineFilingWindowCloses, facts)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-30", d.String())
}

func TestComputeDeadline_NotComputable(t *testing.T) {
	eng := NewDefaultEngine()

	_, err := eng.ComputeDeadline(DeadlineFilingWindowOpens, &CaseDateFacts{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeDeadlineNotComputable, apperrors.GetCode(err))

	_, err = eng.ComputeDeadline(DeadlineRFIDue, &CaseDateFacts{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeDeadlineNotComputable, apperrors.GetCode(err))
}

func TestAuxiliaryCalculators(t *testing.T) {
	eng := NewDefaultEngine()
	audit := MustParseDate("2024-07-10")
	noticeStart := MustParseDate("2024-11-25")
	jobStart := MustParseDate("2024-03-01")
	facts := &CaseDateFacts{
		ETA9089AuditDate:        &audit,
		NoticeOfFilingStartDate: &noticeStart,
		JobOrderStartDate:       &jobStart,
	}

	d, err := eng.AuditResponseDue(facts)
	require.NoError(t, err)
	assert.Equal(t, "2024-08-09", d.String())

	d, err = eng.NoticeOfFilingEnd(facts)
	require.NoError(t, err)
	assert.Equal(t, "2024-12-10", d.String())

	d, err = eng.JobOrderEnd(facts)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-31", d.String())

	_, err = eng.AuditResponseDue(&CaseDateFacts{})
	assert.Error(t, err)
}

func TestSundayAdSecondDue(t *testing.T) {
	eng := NewDefaultEngine()
	pwdExp := MustParseDate("2025-06-30")
	facts := &CaseDateFacts{PWDExpirationDate: &pwdExp}

	// 2025-06-30 minus the 30-day quiet period is Saturday 2025-05-31;
	// the nearest Sunday on or before is 2025-05-25.
	d, err := eng.SundayAdSecondDue(facts)
	require.NoError(t, err)
	assert.Equal(t, "2025-05-25", d.String())

	_, err = eng.SundayAdSecondDue(&CaseDateFacts{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeDeadlineNotComputable, apperrors.GetCode(err))
}
