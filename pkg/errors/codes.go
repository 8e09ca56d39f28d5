package errors

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes
const (
	ErrCodeInternal       ErrorCode = "COMMON_001"
	ErrCodeBadRequest     ErrorCode = "COMMON_002"
	ErrCodeNotFound       ErrorCode = "COMMON_003"
	ErrCodeConflict       ErrorCode = "COMMON_004"
	ErrCodeValidation     ErrorCode = "COMMON_005"
	ErrCodeSerialization  ErrorCode = "COMMON_006"
	ErrCodeNotImplemented ErrorCode = "COMMON_007"
)

// Aliases used throughout the codebase
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
)

// Date arithmetic error codes
const (
	// ErrCodeMalformedDate marks an unparseable civil-date string. This is the
	// only failure mode of the date primitives; arithmetic itself never fails.
	ErrCodeMalformedDate ErrorCode = "DATE_001"
)

// Case engine error codes
const (
	// ErrCodeUnknownField marks a field identifier that the cascade engine or
	// constraint resolver does not recognise.
	ErrCodeUnknownField ErrorCode = "CASE_001"

	// ErrCodeDuplicateRecruitmentMethod marks an attempt to record the same
	// additional-recruitment method twice on one case.
	ErrCodeDuplicateRecruitmentMethod ErrorCode = "CASE_002"

	// ErrCodeInvalidCaseStatus marks a case status outside the closed enum.
	ErrCodeInvalidCaseStatus ErrorCode = "CASE_003"
)

// Deadline engine error codes
const (
	// ErrCodeUnknownDeadlineType marks a deadline type outside the closed enum.
	ErrCodeUnknownDeadlineType ErrorCode = "DDL_001"

	// ErrCodeDeadlineNotComputable marks a calculator invoked on a snapshot
	// that lacks the source date the calculator derives from.
	ErrCodeDeadlineNotComputable ErrorCode = "DDL_002"
)

// Configuration error codes
const (
	ErrCodeConfigInvalid ErrorCode = "CFG_001"
)
