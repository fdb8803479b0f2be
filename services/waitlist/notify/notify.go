// Copyright (C) 2025 BalaBite AI (dev@balabite.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package notify sends the side-channel notifications for a waitlist
// submission: a welcome email to the signer-up, an alert email to the
// admin inbox, and a Slack summary of how the whole pipeline went.
//
// Every send is best-effort. A missing API key or webhook URL disables
// that channel with a log line; a failed send is logged and reported
// to the caller but never escalated. Notification state is not
// persisted and failed sends are not retried.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
	"github.com/slack-go/slack"

	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/datatypes"
)

// ErrChannelDisabled is returned when a send is requested on a
// channel that has no credentials configured.
var ErrChannelDisabled = errors.New("notification channel not configured")

// emailSender abstracts the Resend emails API so tests can inject a
// fake transport.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// webhookPoster abstracts the Slack webhook call for tests.
type webhookPoster func(ctx context.Context, url string, msg *slack.WebhookMessage) error

// Outcome records which pipeline sinks succeeded for one submission.
// It feeds the Slack summary line.
type Outcome struct {
	Database     bool
	FileBackup   bool
	WelcomeEmail bool
	AdminEmail   bool
}

// Config holds the notification channel credentials. Empty values
// disable the corresponding channel.
type Config struct {
	ResendAPIKey    string
	AdminEmail      string
	SlackWebhookURL string
}

// Notifier dispatches submission notifications. Safe for concurrent
// use.
type Notifier struct {
	emails      emailSender
	adminEmail  string
	webhookURL  string
	postWebhook webhookPoster
}

// New creates a Notifier from config. Channels without credentials
// are disabled, not errors; the service stays up either way.
func New(cfg Config) *Notifier {
	n := &Notifier{
		adminEmail:  cfg.AdminEmail,
		webhookURL:  cfg.SlackWebhookURL,
		postWebhook: slack.PostWebhookContext,
	}
	if cfg.ResendAPIKey != "" {
		n.emails = resend.NewClient(cfg.ResendAPIKey).Emails
	} else {
		slog.Warn("resend API key not configured, email notifications disabled")
	}
	return n
}

// SendWelcome emails the onboarding message to the submitter.
func (n *Notifier) SendWelcome(ctx context.Context, sub datatypes.Submission) error {
	if n.emails == nil {
		return ErrChannelDisabled
	}

	resp, err := n.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    welcomeFrom,
		To:      []string{sub.Email},
		Subject: welcomeSubject,
		Html:    welcomeEmailHTML(sub),
	})
	if err != nil {
		return fmt.Errorf("welcome email: %w", err)
	}
	slog.Info("welcome email sent", "email_id", resp.Id, "restaurant", sub.RestaurantName)
	return nil
}

// SendAdminAlert emails the new-signup alert to the admin inbox.
func (n *Notifier) SendAdminAlert(ctx context.Context, sub datatypes.Submission) error {
	if n.emails == nil {
		return ErrChannelDisabled
	}
	if n.adminEmail == "" {
		return ErrChannelDisabled
	}

	resp, err := n.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    adminAlertFrom,
		To:      []string{n.adminEmail},
		Subject: fmt.Sprintf("New Waitlist Signup: %s", sub.RestaurantName),
		Html:    adminAlertHTML(sub),
	})
	if err != nil {
		return fmt.Errorf("admin alert email: %w", err)
	}
	slog.Info("admin alert email sent", "email_id", resp.Id, "restaurant", sub.RestaurantName)
	return nil
}

// PostSlackSummary posts the end-of-pipeline summary for one
// submission, including per-sink status markers.
func (n *Notifier) PostSlackSummary(ctx context.Context, sub datatypes.Submission, outcome Outcome) error {
	if n.webhookURL == "" {
		return ErrChannelDisabled
	}

	msg := &slack.WebhookMessage{Text: slackSummaryText(sub, outcome)}
	if err := n.postWebhook(ctx, n.webhookURL, msg); err != nil {
		return fmt.Errorf("slack webhook: %w", err)
	}
	slog.Info("slack summary posted", "restaurant", sub.RestaurantName)
	return nil
}
