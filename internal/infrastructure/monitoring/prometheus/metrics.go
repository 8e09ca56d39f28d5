package prometheus

// EngineMetrics bundles the engine-level metric vectors.  The application
// services record through the methods below; label cardinality is bounded by
// the closed field, deadline-type and reason enums.
type EngineMetrics struct {
	validationRuns     CounterVec
	validationFindings HistogramVec
	cascadeApplies     CounterVec
	deadlineChecks     CounterVec
	malformedInput     CounterVec
	autoClosures       Counter
}

// NewEngineMetrics registers the engine metric vectors on the collector.
func NewEngineMetrics(collector MetricsCollector) *EngineMetrics {
	return &EngineMetrics{
		validationRuns: collector.RegisterCounter(
			"validation_runs_total",
			"Case form validation runs by outcome.",
			"outcome",
		),
		validationFindings: collector.RegisterHistogram(
			"validation_findings",
			"Findings produced per validation run, by severity.",
			[]float64{0, 1, 2, 5, 10, 20, 44},
			"severity",
		),
		cascadeApplies: collector.RegisterCounter(
			"cascade_applications_total",
			"Cascade applications by trigger field.",
			"field",
		),
		deadlineChecks: collector.RegisterCounter(
			"deadline_checks_total",
			"Deadline activation checks by type and resulting state.",
			"type", "state",
		),
		malformedInput: collector.RegisterCounter(
			"malformed_input_total",
			"Snapshots skipped because of malformed input, by component.",
			"component",
		),
		autoClosures: collector.RegisterCounter(
			"auto_closures_total",
			"Cases closed automatically by the enforcement sweep.",
		).WithLabelValues(),
	}
}

// RecordValidation records one validation run.
func (m *EngineMetrics) RecordValidation(valid bool, errs, warnings int) {
	outcome := "valid"
	if !valid {
		outcome = "invalid"
	}
	m.validationRuns.WithLabelValues(outcome).Inc()
	m.validationFindings.WithLabelValues("error").Observe(float64(errs))
	m.validationFindings.WithLabelValues("warning").Observe(float64(warnings))
}

// RecordCascade records one cascade application.
func (m *EngineMetrics) RecordCascade(field string) {
	m.cascadeApplies.WithLabelValues(field).Inc()
}

// RecordDeadlineCheck records one activation check.  State is "active" or
// the supersession reason.
func (m *EngineMetrics) RecordDeadlineCheck(deadlineType, state string) {
	m.deadlineChecks.WithLabelValues(deadlineType, state).Inc()
}

// RecordMalformedInput records a snapshot skipped by an automated job.
func (m *EngineMetrics) RecordMalformedInput(component string) {
	m.malformedInput.WithLabelValues(component).Inc()
}

// RecordAutoClosure records one enforcement auto-closure.
func (m *EngineMetrics) RecordAutoClosure() {
	m.autoClosures.Inc()
}
