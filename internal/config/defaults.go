package config

// ApplyDefaults fills every unset field with its regulation-derived or
// operational default.  It never overrides a value the user set.
func ApplyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "perm_engine"
	}

	e := &cfg.Engine
	if e.PWDValidityYears == 0 {
		e.PWDValidityYears = 1
	}
	if e.JobOrderDays == 0 {
		e.JobOrderDays = 30
	}
	if e.NoticeOfFilingBusinessDays == 0 {
		e.NoticeOfFilingBusinessDays = 10
	}
	if e.QuietPeriodDays == 0 {
		e.QuietPeriodDays = 30
	}
	if e.RecruitmentWindowDays == 0 {
		e.RecruitmentWindowDays = 180
	}
	if e.CertificationValidityDays == 0 {
		e.CertificationValidityDays = 180
	}
	if e.RFIResponseDays == 0 {
		e.RFIResponseDays = 30
	}
	if e.RFEResponseDays == 0 {
		e.RFEResponseDays = 30
	}
	if e.AuditResponseDays == 0 {
		e.AuditResponseDays = 30
	}
	if e.MinAdditionalMethods == 0 {
		e.MinAdditionalMethods = 3
	}
	// engine.federal_holidays defaults to true at the viper layer, since a
	// zero bool here is indistinguishable from an explicit false.

	if len(cfg.Reminders.OffsetsDays) == 0 {
		cfg.Reminders.OffsetsDays = []int{90, 30, 7, 1}
	}

	if cfg.Enforcement.StaleFilingDays == 0 {
		cfg.Enforcement.StaleFilingDays = 365
	}
}
