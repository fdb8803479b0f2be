// Copyright (C) 2025 BalaBite AI (dev@balabite.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides metrics and instrumentation for the
// waitlist service.
//
// # Description
//
// This package implements Prometheus metrics for monitoring the
// submission pipeline. Metrics include:
//   - Submission counters (by endpoint, status)
//   - Sink attempt counters (file backup, database, welcome email,
//     admin email, slack by status)
//   - Pipeline duration histograms
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Use with Prometheus +
// Grafana for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal
// locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics
const metricsNamespace = "balabite"

// Subsystem for waitlist pipeline metrics
const waitlistSubsystem = "waitlist"

// PipelineMetrics holds all Prometheus metrics for the submission
// pipeline. Initialize once at startup via InitMetrics().
type PipelineMetrics struct {
	// SubmissionsTotal counts submissions by endpoint and status.
	// Labels: endpoint (waitlist, guest_waitlist), status (accepted,
	// validation_failed, error)
	SubmissionsTotal *prometheus.CounterVec

	// SinkAttemptsTotal counts per-sink outcomes for each submission.
	// Labels: sink (file_backup, database, welcome_email, admin_email,
	// slack), status (success, failure, disabled)
	SinkAttemptsTotal *prometheus.CounterVec

	// PipelineDurationSeconds measures end-to-end pipeline latency.
	// Labels: endpoint
	PipelineDurationSeconds *prometheus.HistogramVec
}

// DefaultMetrics is the singleton instance of PipelineMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *PipelineMetrics

// InitMetrics creates and registers all Prometheus metrics. Call once
// at application startup; a second call panics on duplicate
// registration.
func InitMetrics() *PipelineMetrics {
	DefaultMetrics = &PipelineMetrics{
		SubmissionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: waitlistSubsystem,
				Name:      "submissions_total",
				Help:      "Total waitlist submissions by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),

		SinkAttemptsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: waitlistSubsystem,
				Name:      "sink_attempts_total",
				Help:      "Per-sink delivery outcomes for submissions",
			},
			[]string{"sink", "status"},
		),

		PipelineDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: waitlistSubsystem,
				Name:      "pipeline_duration_seconds",
				Help:      "End-to-end submission pipeline duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"endpoint"},
		),
	}

	return DefaultMetrics
}

// =============================================================================
// Label Values
// =============================================================================

// Endpoint identifies a submission endpoint for metrics labeling.
type Endpoint string

const (
	// EndpointWaitlist is the restaurant waitlist submission endpoint.
	EndpointWaitlist Endpoint = "waitlist"

	// EndpointGuestWaitlist is the guest email signup endpoint.
	EndpointGuestWaitlist Endpoint = "guest_waitlist"
)

// Sink identifies a pipeline delivery target.
type Sink string

const (
	SinkFileBackup   Sink = "file_backup"
	SinkDatabase     Sink = "database"
	SinkWelcomeEmail Sink = "welcome_email"
	SinkAdminEmail   Sink = "admin_email"
	SinkSlack        Sink = "slack"
)

// SinkStatus is the outcome of one sink attempt.
type SinkStatus string

const (
	SinkStatusSuccess  SinkStatus = "success"
	SinkStatusFailure  SinkStatus = "failure"
	SinkStatusDisabled SinkStatus = "disabled"
)

// =============================================================================
// Helper Methods
// =============================================================================

// RecordSubmission records a processed submission.
func (m *PipelineMetrics) RecordSubmission(endpoint Endpoint, status string) {
	m.SubmissionsTotal.WithLabelValues(string(endpoint), status).Inc()
}

// RecordSinkAttempt records one sink's outcome for a submission.
func (m *PipelineMetrics) RecordSinkAttempt(sink Sink, status SinkStatus) {
	m.SinkAttemptsTotal.WithLabelValues(string(sink), string(status)).Inc()
}

// RecordSinkResult maps a boolean outcome onto the sink counter.
func (m *PipelineMetrics) RecordSinkResult(sink Sink, ok bool) {
	if ok {
		m.RecordSinkAttempt(sink, SinkStatusSuccess)
		return
	}
	m.RecordSinkAttempt(sink, SinkStatusFailure)
}

// RecordPipelineDuration records the end-to-end pipeline latency.
func (m *PipelineMetrics) RecordPipelineDuration(endpoint Endpoint, seconds float64) {
	m.PipelineDurationSeconds.WithLabelValues(string(endpoint)).Observe(seconds)
}
