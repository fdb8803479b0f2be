// Copyright (C) 2025 BalaBite AI (dev@balabite.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/datatypes"
)

type fakeEmailSender struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeEmailSender) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.sent = append(f.sent, params)
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

func testSubmission() datatypes.Submission {
	return datatypes.Submission{
		ID:             "local-abc",
		RestaurantName: "Cafe X",
		OwnerName:      "Jo",
		Email:          "jo@x.com",
		Phone:          "555-123-4567",
		RestaurantType: "cafe",
		Location:       "NYC",
	}
}

// =============================================================================
// Welcome Email Tests
// =============================================================================

func TestSendWelcome(t *testing.T) {
	fake := &fakeEmailSender{}
	n := &Notifier{emails: fake}

	err := n.SendWelcome(context.Background(), testSubmission())
	require.NoError(t, err)

	require.Len(t, fake.sent, 1)
	req := fake.sent[0]
	assert.Equal(t, welcomeFrom, req.From)
	assert.Equal(t, []string{"jo@x.com"}, req.To)
	assert.Equal(t, "WELCOME TO THE FUTURE OF DINING", req.Subject)
	assert.Contains(t, req.Html, "Jo")
	assert.Contains(t, req.Html, "Cafe X")
	assert.Contains(t, req.Html, "jo@x.com")
}

func TestSendWelcome_Disabled(t *testing.T) {
	n := New(Config{AdminEmail: "admin@balabite.ai"})

	err := n.SendWelcome(context.Background(), testSubmission())
	assert.ErrorIs(t, err, ErrChannelDisabled)
}

func TestSendWelcome_SendError(t *testing.T) {
	fake := &fakeEmailSender{err: errors.New("rate limited")}
	n := &Notifier{emails: fake}

	err := n.SendWelcome(context.Background(), testSubmission())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestWelcomeEmailHTML_EscapesFields(t *testing.T) {
	sub := testSubmission()
	sub.OwnerName = `<script>alert("x")</script>`

	body := welcomeEmailHTML(sub)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

// =============================================================================
// Admin Alert Tests
// =============================================================================

func TestSendAdminAlert(t *testing.T) {
	fake := &fakeEmailSender{}
	n := &Notifier{emails: fake, adminEmail: "admin@balabite.ai"}

	err := n.SendAdminAlert(context.Background(), testSubmission())
	require.NoError(t, err)

	require.Len(t, fake.sent, 1)
	req := fake.sent[0]
	assert.Equal(t, adminAlertFrom, req.From)
	assert.Equal(t, []string{"admin@balabite.ai"}, req.To)
	assert.Equal(t, "New Waitlist Signup: Cafe X", req.Subject)
	assert.Contains(t, req.Html, "local-abc")
	assert.Contains(t, req.Html, "555-123-4567")
	assert.Contains(t, req.Html, "NYC")
}

func TestSendAdminAlert_NoAdminAddress(t *testing.T) {
	n := &Notifier{emails: &fakeEmailSender{}}

	err := n.SendAdminAlert(context.Background(), testSubmission())
	assert.ErrorIs(t, err, ErrChannelDisabled)
}

func TestAdminAlertHTML_EmptyMessagePlaceholder(t *testing.T) {
	body := adminAlertHTML(testSubmission())
	assert.Contains(t, body, "No additional message provided.")

	sub := testSubmission()
	sub.Message = "Interested in the pilot"
	body = adminAlertHTML(sub)
	assert.Contains(t, body, "Interested in the pilot")
	assert.NotContains(t, body, "No additional message provided.")
}

// =============================================================================
// Slack Summary Tests
// =============================================================================

func TestPostSlackSummary(t *testing.T) {
	var gotURL string
	var gotMsg *slack.WebhookMessage
	n := &Notifier{
		webhookURL: "https://hooks.slack.com/services/T0/B0/xyz",
		postWebhook: func(_ context.Context, url string, msg *slack.WebhookMessage) error {
			gotURL = url
			gotMsg = msg
			return nil
		},
	}

	outcome := Outcome{Database: true, FileBackup: true, WelcomeEmail: true, AdminEmail: false}
	err := n.PostSlackSummary(context.Background(), testSubmission(), outcome)
	require.NoError(t, err)

	assert.Equal(t, "https://hooks.slack.com/services/T0/B0/xyz", gotURL)
	require.NotNil(t, gotMsg)
	assert.Contains(t, gotMsg.Text, "*New Waitlist Signup*")
	assert.Contains(t, gotMsg.Text, "*Restaurant:* Cafe X")
	assert.Contains(t, gotMsg.Text, "Database ✅")
	assert.Contains(t, gotMsg.Text, "Admin ❌")
}

func TestPostSlackSummary_Disabled(t *testing.T) {
	n := New(Config{})

	err := n.PostSlackSummary(context.Background(), testSubmission(), Outcome{})
	assert.ErrorIs(t, err, ErrChannelDisabled)
}

func TestPostSlackSummary_WebhookError(t *testing.T) {
	n := &Notifier{
		webhookURL: "https://hooks.slack.com/services/T0/B0/xyz",
		postWebhook: func(context.Context, string, *slack.WebhookMessage) error {
			return errors.New("webhook gone")
		},
	}

	err := n.PostSlackSummary(context.Background(), testSubmission(), Outcome{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook gone")
}

func TestSlackSummaryText_AllFailed(t *testing.T) {
	text := slackSummaryText(testSubmission(), Outcome{FileBackup: true})
	assert.Contains(t, text, "Database ❌")
	assert.Contains(t, text, "File Backup ✅")
	assert.Contains(t, text, "Welcome ❌")
	assert.Contains(t, text, "Admin ❌")
}
