// Package config defines the configuration structures for the engine.  No
// I/O or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"

	"github.com/lexfield/perm-engine/internal/domain/permcase"
	"github.com/lexfield/perm-engine/internal/infrastructure/monitoring/logging"
)

// EngineConfig holds the regulatory thresholds and the holiday schedule.
// Every value has a regulation-derived default; overriding is intended for
// policy changes (a new DOL rule) rather than per-case tuning.
type EngineConfig struct {
	PWDValidityYears           int  `mapstructure:"pwd_validity_years"`
	JobOrderDays               int  `mapstructure:"job_order_days"`
	NoticeOfFilingBusinessDays int  `mapstructure:"notice_of_filing_business_days"`
	QuietPeriodDays            int  `mapstructure:"quiet_period_days"`
	RecruitmentWindowDays      int  `mapstructure:"recruitment_window_days"`
	CertificationValidityDays  int  `mapstructure:"certification_validity_days"`
	RFIResponseDays            int  `mapstructure:"rfi_response_days"`
	RFEResponseDays            int  `mapstructure:"rfe_response_days"`
	AuditResponseDays          int  `mapstructure:"audit_response_days"`
	MinAdditionalMethods       int  `mapstructure:"min_additional_methods"`
	FederalHolidays            bool `mapstructure:"federal_holidays"`

	// ExtraHolidays lists additional non-business dates as ISO strings,
	// e.g. state court closures.
	ExtraHolidays []string `mapstructure:"extra_holidays"`
}

// MetricsConfig holds prometheus collector parameters.
type MetricsConfig struct {
	Enabled              bool   `mapstructure:"enabled"`
	Namespace            string `mapstructure:"namespace"`
	Subsystem            string `mapstructure:"subsystem"`
	EnableProcessMetrics bool   `mapstructure:"enable_process_metrics"`
	EnableGoMetrics      bool   `mapstructure:"enable_go_metrics"`
}

// ReminderConfig holds the reminder offsets used by the notification
// planner, in days before the deadline.
type ReminderConfig struct {
	OffsetsDays []int `mapstructure:"offsets_days"`
}

// EnforcementConfig holds the auto-closure policy knobs.
type EnforcementConfig struct {
	// StaleFilingDays is how long a filed application may sit with no
	// active deadline before the sweep flags it as presumed abandoned.
	StaleFilingDays int `mapstructure:"stale_filing_days"`
}

// Config is the root configuration.
type Config struct {
	Log         logging.LogConfig `mapstructure:"log"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Engine      EngineConfig      `mapstructure:"engine"`
	Reminders   ReminderConfig    `mapstructure:"reminders"`
	Enforcement EnforcementConfig `mapstructure:"enforcement"`
}

// Validate checks invariants the defaults cannot repair.
func (c *Config) Validate() error {
	e := c.Engine
	for name, v := range map[string]int{
		"pwd_validity_years":             e.PWDValidityYears,
		"job_order_days":                 e.JobOrderDays,
		"notice_of_filing_business_days": e.NoticeOfFilingBusinessDays,
		"quiet_period_days":              e.QuietPeriodDays,
		"recruitment_window_days":        e.RecruitmentWindowDays,
		"certification_validity_days":    e.CertificationValidityDays,
		"rfi_response_days":              e.RFIResponseDays,
		"rfe_response_days":              e.RFEResponseDays,
		"audit_response_days":            e.AuditResponseDays,
		"min_additional_methods":         e.MinAdditionalMethods,
	} {
		if v <= 0 {
			return fmt.Errorf("engine.%s must be positive, got %d", name, v)
		}
	}
	if e.QuietPeriodDays >= e.RecruitmentWindowDays {
		return fmt.Errorf("engine.quiet_period_days (%d) must be shorter than engine.recruitment_window_days (%d)",
			e.QuietPeriodDays, e.RecruitmentWindowDays)
	}
	for _, h := range e.ExtraHolidays {
		if _, err := permcase.ParseDate(h); err != nil {
			return fmt.Errorf("engine.extra_holidays entry %q: %w", h, err)
		}
	}
	for _, off := range c.Reminders.OffsetsDays {
		if off < 0 {
			return fmt.Errorf("reminders.offsets_days entry %d must be non-negative", off)
		}
	}
	if c.Enforcement.StaleFilingDays <= 0 {
		return fmt.Errorf("enforcement.stale_filing_days must be positive, got %d", c.Enforcement.StaleFilingDays)
	}
	return nil
}

// Rules converts the engine section into the immutable rule set consumed by
// the domain engine.  Validate must have passed first.
func (c *Config) Rules() (permcase.Rules, error) {
	extra := make([]permcase.Date, 0, len(c.Engine.ExtraHolidays))
	for _, h := range c.Engine.ExtraHolidays {
		d, err := permcase.ParseDate(h)
		if err != nil {
			return permcase.Rules{}, fmt.Errorf("engine.extra_holidays entry %q: %w", h, err)
		}
		extra = append(extra, d)
	}
	return permcase.Rules{
		Calendar:                   permcase.NewCalendar(c.Engine.FederalHolidays, extra),
		PWDValidityYears:           c.Engine.PWDValidityYears,
		JobOrderDays:               c.Engine.JobOrderDays,
		NoticeOfFilingBusinessDays: c.Engine.NoticeOfFilingBusinessDays,
		QuietPeriodDays:            c.Engine.QuietPeriodDays,
		RecruitmentWindowDays:      c.Engine.RecruitmentWindowDays,
		CertificationValidityDays:  c.Engine.CertificationValidityDays,
		RFIResponseDays:            c.Engine.RFIResponseDays,
		RFEResponseDays:            c.Engine.RFEResponseDays,
		AuditResponseDays:          c.Engine.AuditResponseDays,
		MinAdditionalMethods:       c.Engine.MinAdditionalMethods,
	}, nil
}
