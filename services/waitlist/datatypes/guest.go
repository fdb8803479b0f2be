// Copyright (C) 2025 BalaBite AI (dev@balabite.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import "time"

// GuestSignupRequest represents the body of a guest-app waitlist
// signup. Email is the only field; entries are dedup-checked against
// existing signups by the store.
type GuestSignupRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Validate reports whether the email is present and RFC-shaped.
func (r *GuestSignupRequest) Validate() ValidationErrors {
	if err := waitlistValidate.Struct(r); err != nil {
		return ValidationErrors{"email": "Invalid email address"}
	}
	return nil
}

// GuestSignup is the append-only record inserted for a new guest
// email.
type GuestSignup struct {
	Email      string    `json:"email"`
	SignedUpAt time.Time `json:"signed_up_at"`
}
