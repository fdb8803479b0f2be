// Copyright (C) 2025 BalaBite AI (dev@balabite.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package notify

import (
	"fmt"
	"html"
	"time"

	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/datatypes"
)

const (
	welcomeFrom    = "BalaBite AI <hello@waitlist.balabite.ai>"
	welcomeSubject = "WELCOME TO THE FUTURE OF DINING"

	adminAlertFrom = "BalaBite Waitlist <notifications@waitlist.balabite.ai>"

	brandDark   = "#0F1218"
	brandOrange = "#FF5A22"
)

// welcomeEmailHTML renders the onboarding email. Submission fields
// are HTML-escaped; the rest of the document is static.
func welcomeEmailHTML(sub datatypes.Submission) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>WELCOME TO THE FUTURE OF DINING</title>
</head>
<body style="font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; line-height: 1.6; color: #2D333B; margin: 0; padding: 0; background-color: #F6F9FC;">
  <table cellpadding="0" cellspacing="0" border="0" width="650" style="background-color: #FFFFFF; border-radius: 12px; margin: 40px auto;">
    <tr>
      <td align="center" style="background-color: %[1]s; padding: 60px 30px 50px;">
        <div style="font-size: 14px; color: rgba(255,255,255,0.75); letter-spacing: 2px; text-transform: uppercase;">NEXT-GEN AI WAITER</div>
        <h1 style="margin: 20px 0; color: #FFFFFF; font-size: 42px; font-weight: 800;">THE FUTURE OF DINING<br>HAS ARRIVED</h1>
        <div style="color: rgba(255,255,255,0.85); font-size: 18px;">Transforming restaurants with autonomous AI. Your competitive advantage starts now.</div>
      </td>
    </tr>
    <tr>
      <td style="padding: 50px 30px;">
        <div style="margin-bottom: 30px; font-size: 20px;">
          Hello <span style="color: %[2]s; font-weight: bold;">%[3]s</span>,<br>
          Welcome to the AI revolution.
        </div>
        <p style="margin-bottom: 20px;">From this moment on, we're partners. You're not just on a waitlist, you're joining our inner circle of visionaries who see the future before others do. Your restaurant <strong style="color: %[1]s;">%[4]s</strong> is now part of a select group leading the restaurant AI revolution.</p>
        <p style="margin-bottom: 40px;">We're reviewing your details now and will reach out personally within 48 hours. Have ideas or questions? Email me directly at <a href="mailto:lior@balabite.ai" style="color: %[2]s; text-decoration: none; font-weight: bold;">lior@balabite.ai</a>. I read every message.</p>
        <div style="font-weight: bold; font-size: 24px; color: %[2]s;">Lior</div>
        <div style="color: #6B7280;">Founder &amp; CEO, Balabite.ai</div>
      </td>
    </tr>
    <tr>
      <td align="center" style="background-color: %[1]s; padding: 30px;">
        <p style="margin: 0 0 5px; color: rgba(255,255,255,0.5); font-size: 13px;">&copy; %[5]d BalaBite Technologies Inc. All rights reserved.</p>
        <p style="margin: 0; color: rgba(255,255,255,0.5); font-size: 13px;">This email was sent to %[6]s because you joined our waitlist.</p>
      </td>
    </tr>
  </table>
</body>
</html>`,
		brandDark,
		brandOrange,
		html.EscapeString(sub.OwnerName),
		html.EscapeString(sub.RestaurantName),
		time.Now().Year(),
		html.EscapeString(sub.Email),
	)
}

// adminAlertHTML renders the internal alert email with the full
// submission details.
func adminAlertHTML(sub datatypes.Submission) string {
	message := sub.Message
	if message == "" {
		message = "No additional message provided."
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>New Waitlist Submission</title>
</head>
<body style="font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; line-height: 1.6; color: #2D333B; margin: 0; padding: 0; background-color: #F6F9FC;">
  <table cellpadding="0" cellspacing="0" border="0" width="650" style="background-color: #FFFFFF; border-radius: 12px; margin: 40px auto;">
    <tr>
      <td align="center" style="background-color: %[1]s; padding: 40px 30px;">
        <h1 style="margin: 0 0 15px 0; color: #FFFFFF; font-size: 28px; font-weight: bold;">New Waitlist Signup!</h1>
        <div style="font-size: 12px; color: rgba(255,255,255,0.8); letter-spacing: 1px; text-transform: uppercase;">PRIORITY LEAD</div>
      </td>
    </tr>
    <tr>
      <td style="padding: 40px 30px;">
        <p style="margin-bottom: 30px;"><span style="font-size: 17px; font-weight: bold; color: %[1]s;">%[3]s</span> has joined the BalaBite revolution!</p>
        <table cellpadding="0" cellspacing="0" border="0" width="100%%" style="margin-bottom: 30px;">
          <tr><th align="left" style="padding: 15px;">Submission ID</th><td style="padding: 15px;"><code style="color: %[2]s;">%[4]s</code></td></tr>
          <tr><th align="left" style="padding: 15px;">Restaurant</th><td style="padding: 15px;"><strong>%[3]s</strong></td></tr>
          <tr><th align="left" style="padding: 15px;">Owner</th><td style="padding: 15px;"><strong>%[5]s</strong></td></tr>
          <tr><th align="left" style="padding: 15px;">Email</th><td style="padding: 15px;"><a href="mailto:%[6]s" style="color: %[2]s;">%[6]s</a></td></tr>
          <tr><th align="left" style="padding: 15px;">Phone</th><td style="padding: 15px;">%[7]s</td></tr>
          <tr><th align="left" style="padding: 15px;">Type</th><td style="padding: 15px;">%[8]s</td></tr>
          <tr><th align="left" style="padding: 15px;">Location</th><td style="padding: 15px;">%[9]s</td></tr>
          <tr><th align="left" style="padding: 15px;">Message</th><td style="padding: 15px;">%[10]s</td></tr>
          <tr><th align="left" style="padding: 15px;">Date</th><td style="padding: 15px;">%[11]s</td></tr>
        </table>
      </td>
    </tr>
    <tr>
      <td align="center" style="background-color: %[1]s; padding: 25px; color: rgba(255,255,255,0.6); font-size: 13px;">
        <p style="margin: 0 0 10px;">This is an automated notification from the BalaBite AI Waitlist System.</p>
        <p style="margin: 0;">&copy; %[12]d BalaBite Technologies Inc.</p>
      </td>
    </tr>
  </table>
</body>
</html>`,
		brandDark,
		brandOrange,
		html.EscapeString(sub.RestaurantName),
		html.EscapeString(sub.ID),
		html.EscapeString(sub.OwnerName),
		html.EscapeString(sub.Email),
		html.EscapeString(sub.Phone),
		html.EscapeString(sub.RestaurantType),
		html.EscapeString(sub.Location),
		html.EscapeString(message),
		time.Now().Format("Jan 2, 2006 3:04 PM MST"),
		time.Now().Year(),
	)
}

// slackSummaryText formats the one-line pipeline summary with a
// status marker per sink.
func slackSummaryText(sub datatypes.Submission, outcome Outcome) string {
	return fmt.Sprintf(
		"🎉 *New Waitlist Signup*\n*Restaurant:* %s\n*Owner:* %s\n*Location:* %s\n*Type:* %s\n*Email:* %s\n*Phone:* %s\n*Storage:* %s | %s | *Emails:* %s | %s",
		sub.RestaurantName,
		sub.OwnerName,
		sub.Location,
		sub.RestaurantType,
		sub.Email,
		sub.Phone,
		statusMark("Database", outcome.Database),
		statusMark("File Backup", outcome.FileBackup),
		statusMark("Welcome", outcome.WelcomeEmail),
		statusMark("Admin", outcome.AdminEmail),
	)
}

func statusMark(label string, ok bool) string {
	if ok {
		return label + " ✅"
	}
	return label + " ❌"
}
