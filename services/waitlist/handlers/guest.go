// Copyright (C) 2025 BalaBite AI (dev@balabite.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/datatypes"
	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/observability"
)

// GuestStore is the durable-store surface for guest email signups.
type GuestStore interface {
	GuestSignupExists(ctx context.Context, email string) (bool, error)
	InsertGuestSignup(ctx context.Context, email string) error
}

// HandleGuestSignup accepts a diner email for the guest app waitlist.
//
// Unlike restaurant submissions, guest signups have no file backup or
// notification fan-out: the store is the only sink, so a store
// failure is a request failure here. Duplicate emails are accepted
// idempotently with a 200.
func HandleGuestSignup(store GuestStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.GuestSignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			recordSubmission(observability.EndpointGuestWaitlist, "validation_failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
			return
		}
		if verrs := req.Validate(); verrs != nil {
			recordSubmission(observability.EndpointGuestWaitlist, "validation_failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
			return
		}

		if store == nil {
			slog.Error("guest signup rejected, store not configured")
			recordSubmission(observability.EndpointGuestWaitlist, "error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		exists, err := store.GuestSignupExists(c.Request.Context(), req.Email)
		if err != nil {
			slog.Error("guest signup lookup failed", "error", err)
			recordSubmission(observability.EndpointGuestWaitlist, "error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		if exists {
			recordSubmission(observability.EndpointGuestWaitlist, "accepted")
			c.JSON(http.StatusOK, gin.H{"message": "You're already on our waitlist!"})
			return
		}

		if err := store.InsertGuestSignup(c.Request.Context(), req.Email); err != nil {
			slog.Error("guest signup insert failed", "error", err)
			recordSubmission(observability.EndpointGuestWaitlist, "error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join waitlist"})
			return
		}

		slog.Info("guest signup recorded")
		recordSubmission(observability.EndpointGuestWaitlist, "accepted")
		c.JSON(http.StatusCreated, gin.H{"message": "Successfully joined the guest app waitlist!"})
	}
}
