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
)

// baseRestaurantCount is added to the stored submission count for the
// public counter, and returned alone when the store is unavailable.
const baseRestaurantCount = 120

// RestaurantCounter is the store surface for the public counter.
type RestaurantCounter interface {
	CountSubmissions(ctx context.Context) (int, error)
}

// SubmissionLister reads submissions back from the local backup
// directory.
type SubmissionLister interface {
	List() ([]datatypes.Submission, error)
}

// HandleRestaurantCount serves the marketing site's restaurant
// counter. Store problems degrade to the base count with a 200; this
// endpoint never errors.
func HandleRestaurantCount(counter RestaurantCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil {
			c.JSON(http.StatusOK, gin.H{"count": baseRestaurantCount})
			return
		}

		count, err := counter.CountSubmissions(c.Request.Context())
		if err != nil {
			slog.Error("restaurant count lookup failed", "error", err)
			c.JSON(http.StatusOK, gin.H{"count": baseRestaurantCount})
			return
		}

		c.JSON(http.StatusOK, gin.H{"count": count + baseRestaurantCount})
	}
}

// HandleListSubmissions returns the submissions recorded in the local
// backup directory. Operator endpoint; reads files, not the store.
func HandleListSubmissions(lister SubmissionLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		subs, err := lister.List()
		if err != nil {
			slog.Error("backup listing failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read backups"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"submissions": subs,
			"count":       len(subs),
		})
	}
}

// HandleHealthCheck reports service liveness.
func HandleHealthCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "waitlist",
		})
	}
}
