// Copyright (C) 2025 BalaBite AI (dev@balabite.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes provides request, record, and result types for the
// waitlist service.
//
// This file contains the restaurant waitlist submission types. For the
// guest-app signup types, see guest.go.
package datatypes

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// =============================================================================
// Constants
// =============================================================================

// StatusNew is the status tag assigned to every incoming submission.
// Submissions are append-only; no later state transition exists in
// this system.
const StatusNew = "new"

// localIDPrefix marks identifiers generated locally before any
// durable-store confirmation.
const localIDPrefix = "local-"

// RestaurantTypes is the enumerated set accepted for the
// restaurantType field. Mirrors the options offered by the signup
// form.
var RestaurantTypes = []string{
	"fine-dining",
	"casual-dining",
	"fast-casual",
	"cafe",
	"bar",
	"other",
}

// =============================================================================
// Shared Validator Instance
// =============================================================================

// waitlistValidate is the validator instance for waitlist datatypes.
// Initialized in init() with custom validators.
var waitlistValidate *validator.Validate

func init() {
	waitlistValidate = validator.New()

	_ = waitlistValidate.RegisterValidation("phone", validatePhone)
	_ = waitlistValidate.RegisterValidation("restauranttype", validateRestaurantType)
}

// validatePhone accepts common phone formats: an optional leading +,
// digits, and the separators ()-. and space. At least five digits are
// required after stripping formatting.
func validatePhone(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	digits := 0
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 5
}

// validateRestaurantType checks membership in RestaurantTypes.
func validateRestaurantType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, t := range RestaurantTypes {
		if value == t {
			return true
		}
	}
	return false
}

// =============================================================================
// Validation Errors
// =============================================================================

// ValidationErrors maps a request field name (as it appears in the
// JSON body) to a human-readable message. All violating fields are
// reported in a single pass; the map is what the 400 response carries
// in its "details" object.
type ValidationErrors map[string]string

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// =============================================================================
// Submission Request
// =============================================================================

// SubmissionRequest represents the body of a restaurant waitlist
// signup.
//
// # Fields
//
//   - RestaurantName: Required. Name of the restaurant joining the list.
//   - OwnerName: Required. Contact person's name.
//   - Email: Required. RFC-shaped address; receives the welcome email.
//   - Phone: Required. Digits with optional formatting, at least five digits.
//   - RestaurantType: Required. One of RestaurantTypes.
//   - Location: Required. Free-form city/region string.
//   - Message: Optional free text.
//
// # Validation
//
// Uses go-playground/validator with the custom "phone" and
// "restauranttype" validators registered in init(). Call Validate()
// after binding; it returns a per-field ValidationErrors map rather
// than the library's error chain so callers can hand the result
// straight to the HTTP layer.
type SubmissionRequest struct {
	RestaurantName string `json:"restaurantName" validate:"required"`
	OwnerName      string `json:"ownerName" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required,phone"`
	RestaurantType string `json:"restaurantType" validate:"required,restauranttype"`
	Location       string `json:"location" validate:"required"`
	Message        string `json:"message,omitempty" validate:"omitempty,max=2000"`
}

// fieldMessages are the messages surfaced per field when its
// validation fails. Required-ness and format violations share a
// message per field, matching what the signup form shows.
var fieldMessages = map[string]string{
	"RestaurantName": "Restaurant name is required",
	"OwnerName":      "Owner name is required",
	"Email":          "Invalid email address",
	"Phone":          "Valid phone number is required",
	"RestaurantType": "Restaurant type is required",
	"Location":       "Location is required",
	"Message":        "Message is too long",
}

// jsonFieldNames maps struct field names to their JSON counterparts
// for error reporting.
var jsonFieldNames = map[string]string{
	"RestaurantName": "restaurantName",
	"OwnerName":      "ownerName",
	"Email":          "email",
	"Phone":          "phone",
	"RestaurantType": "restaurantType",
	"Location":       "location",
	"Message":        "message",
}

// Validate checks every field independently and reports all
// violations at once.
//
// Returns nil when the request is valid; otherwise a ValidationErrors
// map with one entry per violating field. No side effect may be
// attempted for a request that fails here.
func (r *SubmissionRequest) Validate() ValidationErrors {
	err := waitlistValidate.Struct(r)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{"request": err.Error()}
	}

	details := make(ValidationErrors, len(verrs))
	for _, fe := range verrs {
		name := jsonFieldNames[fe.StructField()]
		if name == "" {
			name = fe.StructField()
		}
		msg := fieldMessages[fe.StructField()]
		if msg == "" {
			msg = "Invalid value"
		}
		details[name] = msg
	}
	return details
}

// =============================================================================
// Submission Record
// =============================================================================

// Submission is the record persisted and fanned out for one validated
// signup. It owns no shared state; each request constructs its own
// copy and the pipeline is its only writer.
//
// # Identifier Lifecycle
//
// ID is assigned a temporary local identifier at intake
// ("local-<uuid>"). If the durable-store insert succeeds, the
// store-assigned identifier replaces it; otherwise the temporary
// identifier remains the record's reference for notifications and the
// response body.
type Submission struct {
	ID             string    `json:"id"`
	RestaurantName string    `json:"restaurantName"`
	OwnerName      string    `json:"ownerName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	RestaurantType string    `json:"restaurantType"`
	Location       string    `json:"location"`
	Message        string    `json:"message,omitempty"`
	Status         string    `json:"status"`
	SubmittedAt    time.Time `json:"submissionTime"`
}

// NewSubmission builds a Submission record from a validated request,
// assigning the temporary identifier, the initial status tag, and a
// server-side timestamp.
func NewSubmission(req SubmissionRequest) Submission {
	return Submission{
		ID:             NewLocalID(),
		RestaurantName: req.RestaurantName,
		OwnerName:      req.OwnerName,
		Email:          req.Email,
		Phone:          req.Phone,
		RestaurantType: req.RestaurantType,
		Location:       req.Location,
		Message:        req.Message,
		Status:         StatusNew,
		SubmittedAt:    time.Now().UTC(),
	}
}

// NewLocalID generates a temporary identifier for a submission that
// has not (or never will be) confirmed by the durable store.
func NewLocalID() string {
	return localIDPrefix + uuid.NewString()
}

// IsLocalID reports whether id is a temporary locally-generated
// identifier rather than a store-assigned one.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, localIDPrefix)
}
