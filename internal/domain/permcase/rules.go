package permcase

// Rules carries the day-count thresholds and the business calendar the
// engine computes with.  A Rules value is frozen into an Engine at
// construction and never mutated afterwards; concurrent callers therefore
// observe identical results for identical inputs.
type Rules struct {
	// Calendar drives business-day arithmetic.
	Calendar Calendar

	// PWDValidityYears is the validity of a prevailing wage determination
	// (expiration = determination + this many calendar years).
	PWDValidityYears int

	// JobOrderDays is the minimum state workforce agency job order run.
	JobOrderDays int

	// NoticeOfFilingBusinessDays is the mandatory posting period for the
	// notice of filing, in business days.
	NoticeOfFilingBusinessDays int

	// QuietPeriodDays is the mandatory wait between the end of recruitment
	// and the ETA 9089 filing.
	QuietPeriodDays int

	// RecruitmentWindowDays bounds how old recruitment may be at filing
	// (filing no later than this many days after the earliest recruitment
	// start).
	RecruitmentWindowDays int

	// CertificationValidityDays is how long a certified ETA 9089 remains
	// usable for an I-140 filing.
	CertificationValidityDays int

	// RFIResponseDays and RFEResponseDays derive an entry's response due
	// date from its received date.
	RFIResponseDays int
	RFEResponseDays int

	// AuditResponseDays derives the audit response due date.
	AuditResponseDays int

	// MinAdditionalMethods is the professional-occupation additional
	// recruitment step count required by 20 CFR §656.17(e).
	MinAdditionalMethods int
}

// DefaultRules returns the regulatory defaults with the US federal holiday
// calendar.
func DefaultRules() Rules {
	return Rules{
		Calendar:                   USFederalCalendar(),
		PWDValidityYears:           1,
		JobOrderDays:               30,
		NoticeOfFilingBusinessDays: 10,
		QuietPeriodDays:            30,
		RecruitmentWindowDays:      180,
		CertificationValidityDays:  180,
		RFIResponseDays:            30,
		RFEResponseDays:            30,
		AuditResponseDays:          30,
		MinAdditionalMethods:       3,
	}
}

// Engine is the deadline rules engine.  The cascade, the constraint
// resolver, the validator set and the activation engine all hang off an
// Engine so that one immutable Rules value backs every computation.
type Engine struct {
	rules Rules
}

// NewEngine constructs an Engine over the given rules.
func NewEngine(rules Rules) *Engine {
	return &Engine{rules: rules}
}

// NewDefaultEngine constructs an Engine over DefaultRules.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultRules())
}

// Rules returns the engine's configuration value.
func (e *Engine) Rules() Rules {
	return e.rules
}
