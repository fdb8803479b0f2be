// Copyright (C) 2025 BalaBite AI (dev@balabite.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package pipeline runs a validated waitlist submission through its
// delivery sinks in order: file backup, database insert, welcome
// email, admin alert, Slack summary.
//
// Every sink is best-effort and independent. A sink failure is
// logged, recorded in the Result, and never stops the sinks after it.
// The pipeline succeeds as long as the submission was validated; a
// run where every sink failed still returns a Result, not an error.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/datatypes"
	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/notify"
	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/observability"
)

// SubmissionStore is the durable-store surface the pipeline needs.
type SubmissionStore interface {
	InsertSubmission(ctx context.Context, sub datatypes.Submission) (string, error)
}

// BackupWriter is the local file persistence surface.
type BackupWriter interface {
	Save(sub datatypes.Submission) (string, error)
}

// Notifier is the notification surface.
type Notifier interface {
	SendWelcome(ctx context.Context, sub datatypes.Submission) error
	SendAdminAlert(ctx context.Context, sub datatypes.Submission) error
	PostSlackSummary(ctx context.Context, sub datatypes.Submission, outcome notify.Outcome) error
}

// EmailResults reports the two email sends for one submission.
type EmailResults struct {
	Welcome bool `json:"welcome"`
	Admin   bool `json:"admin"`
}

// Result reports per-sink outcomes for one submission. ID is the
// store-assigned identifier when the database insert succeeded, else
// the submission's temporary local identifier.
type Result struct {
	FileBackup bool         `json:"fileBackup"`
	Database   bool         `json:"database"`
	Emails     EmailResults `json:"emails"`
	ID         string       `json:"id"`
}

// Pipeline orchestrates submission delivery. Store may be nil when no
// database is configured; Backup and Notify must be set.
type Pipeline struct {
	backup  BackupWriter
	store   SubmissionStore
	notify  Notifier
	metrics *observability.PipelineMetrics
}

// New creates a Pipeline. metrics may be nil (tests).
func New(backup BackupWriter, store SubmissionStore, notifier Notifier, metrics *observability.PipelineMetrics) *Pipeline {
	return &Pipeline{
		backup:  backup,
		store:   store,
		notify:  notifier,
		metrics: metrics,
	}
}

// Process builds a submission record from req and runs it through
// every sink. The request must already be validated; Process does not
// re-validate.
func (p *Pipeline) Process(ctx context.Context, req datatypes.SubmissionRequest) Result {
	start := time.Now()
	sub := datatypes.NewSubmission(req)

	result := Result{ID: sub.ID}

	// File backup first: it is the sink that keeps working when
	// everything external is down.
	if _, err := p.backup.Save(sub); err != nil {
		slog.Error("file backup failed", "submission_id", sub.ID, "error", err)
	} else {
		result.FileBackup = true
	}
	p.recordSink(observability.SinkFileBackup, result.FileBackup)

	if p.store != nil {
		storeID, err := p.store.InsertSubmission(ctx, sub)
		if err != nil {
			slog.Error("database insert failed", "submission_id", sub.ID, "error", err)
		} else {
			result.Database = true
			result.ID = storeID
			sub.ID = storeID
		}
		p.recordSink(observability.SinkDatabase, result.Database)
	} else {
		slog.Warn("database not configured, skipping insert", "submission_id", sub.ID)
		p.recordSinkDisabled(observability.SinkDatabase)
	}

	result.Emails.Welcome = p.runNotification(observability.SinkWelcomeEmail, func() error {
		return p.notify.SendWelcome(ctx, sub)
	})
	result.Emails.Admin = p.runNotification(observability.SinkAdminEmail, func() error {
		return p.notify.SendAdminAlert(ctx, sub)
	})

	outcome := notify.Outcome{
		Database:     result.Database,
		FileBackup:   result.FileBackup,
		WelcomeEmail: result.Emails.Welcome,
		AdminEmail:   result.Emails.Admin,
	}
	p.runNotification(observability.SinkSlack, func() error {
		return p.notify.PostSlackSummary(ctx, sub, outcome)
	})

	if p.metrics != nil {
		p.metrics.RecordPipelineDuration(observability.EndpointWaitlist, time.Since(start).Seconds())
	}

	slog.Info("submission processed",
		"submission_id", result.ID,
		"restaurant", sub.RestaurantName,
		"file_backup", result.FileBackup,
		"database", result.Database,
		"welcome_email", result.Emails.Welcome,
		"admin_email", result.Emails.Admin,
	)
	return result
}

// runNotification executes one notification send, mapping a disabled
// channel to the disabled metric status rather than a failure.
func (p *Pipeline) runNotification(sink observability.Sink, send func() error) bool {
	err := send()
	switch {
	case err == nil:
		p.recordSink(sink, true)
		return true
	case errors.Is(err, notify.ErrChannelDisabled):
		slog.Warn("notification channel disabled", "sink", string(sink))
		p.recordSinkDisabled(sink)
		return false
	default:
		slog.Error("notification failed", "sink", string(sink), "error", err)
		p.recordSink(sink, false)
		return false
	}
}

func (p *Pipeline) recordSink(sink observability.Sink, ok bool) {
	if p.metrics != nil {
		p.metrics.RecordSinkResult(sink, ok)
	}
}

func (p *Pipeline) recordSinkDisabled(sink observability.Sink) {
	if p.metrics != nil {
		p.metrics.RecordSinkAttempt(sink, observability.SinkStatusDisabled)
	}
}
