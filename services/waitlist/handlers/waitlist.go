// Copyright (C) 2025 BalaBite AI (dev@balabite.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers implements the HTTP handlers for the waitlist
// service.
//
// Handlers own the HTTP surface only: request binding, validation
// error mapping, and response shapes. Delivery semantics live in the
// pipeline package; handlers report whatever the pipeline reports and
// never turn a sink failure into a request failure.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/datatypes"
	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/observability"
	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/pipeline"
)

// SubmissionPipeline is the delivery surface HandleWaitlistSubmit
// drives.
type SubmissionPipeline interface {
	Process(ctx context.Context, req datatypes.SubmissionRequest) pipeline.Result
}

// HandleWaitlistSubmit accepts a restaurant waitlist submission,
// validates it, and runs it through the delivery pipeline.
//
// A validation failure is the only client error; everything after
// validation is best-effort and the response reports per-sink
// outcomes with a 200 status.
func HandleWaitlistSubmit(p SubmissionPipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.SubmissionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			slog.Error("waitlist submission body unreadable", "error", err)
			recordSubmission(observability.EndpointWaitlist, "error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process submission"})
			return
		}

		if verrs := req.Validate(); verrs != nil {
			slog.Info("waitlist submission rejected", "fields", len(verrs))
			recordSubmission(observability.EndpointWaitlist, "validation_failed")
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Validation failed",
				"details": verrs,
			})
			return
		}

		result := p.Process(c.Request.Context(), req)
		recordSubmission(observability.EndpointWaitlist, "accepted")

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Successfully joined the waitlist",
			"storage": gin.H{
				"database":   result.Database,
				"fileBackup": result.FileBackup,
			},
			"emails": result.Emails,
			"id":     result.ID,
		})
	}
}

// recordSubmission updates the submission counter when metrics are
// initialized.
func recordSubmission(endpoint observability.Endpoint, status string) {
	if observability.DefaultMetrics != nil {
		observability.DefaultMetrics.RecordSubmission(endpoint, status)
	}
}
