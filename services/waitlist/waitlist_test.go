// Copyright (C) 2025 BalaBite AI (dev@balabite.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package waitlist

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) Service {
	t.Helper()

	svc, err := New(Config{
		GinMode:   gin.TestMode,
		BackupDir: filepath.Join(t.TempDir(), "waitlist-data"),
	})
	require.NoError(t, err)
	return svc
}

// =============================================================================
// Constructor Tests
// =============================================================================

func TestNew_Defaults(t *testing.T) {
	svc := newTestService(t)
	require.NotNil(t, svc.Router())
}

func TestApplyConfigDefaults(t *testing.T) {
	cfg := applyConfigDefaults(Config{})

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, gin.ReleaseMode, cfg.GinMode)
	assert.Equal(t, "./waitlist-data", cfg.BackupDir)
}

func TestApplyConfigDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := applyConfigDefaults(Config{
		Port:      9090,
		GinMode:   gin.TestMode,
		BackupDir: "/var/lib/waitlist",
	})

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, gin.TestMode, cfg.GinMode)
	assert.Equal(t, "/var/lib/waitlist", cfg.BackupDir)
}

// =============================================================================
// Integration Tests (no external services configured)
// =============================================================================

func TestService_HealthEndpoint(t *testing.T) {
	svc := newTestService(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	svc.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
}

func TestService_SubmissionWithoutStore(t *testing.T) {
	svc := newTestService(t)

	payload, _ := json.Marshal(map[string]any{
		"restaurantName": "Cafe X",
		"ownerName":      "Jo",
		"email":          "jo@x.com",
		"phone":          "555-123-4567",
		"restaurantType": "cafe",
		"location":       "NYC",
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/waitlist", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	svc.Router().ServeHTTP(w, req)

	// No Supabase, no email keys, no Slack: file backup alone carries
	// the submission and the request still succeeds.
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Storage struct {
			Database   bool `json:"database"`
			FileBackup bool `json:"fileBackup"`
		} `json:"storage"`
		Emails struct {
			Welcome bool `json:"welcome"`
			Admin   bool `json:"admin"`
		} `json:"emails"`
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Storage.FileBackup)
	assert.False(t, resp.Storage.Database)
	assert.False(t, resp.Emails.Welcome)
	assert.False(t, resp.Emails.Admin)
	assert.Contains(t, resp.ID, "local-")
}

func TestService_SubmissionAppearsInListing(t *testing.T) {
	svc := newTestService(t)

	payload, _ := json.Marshal(map[string]any{
		"restaurantName": "Cafe X",
		"ownerName":      "Jo",
		"email":          "jo@x.com",
		"phone":          "555-123-4567",
		"restaurantType": "cafe",
		"location":       "NYC",
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/waitlist", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	svc.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/v1/submissions", nil)
	svc.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
	assert.Contains(t, w.Body.String(), "Cafe X")
}

func TestService_RestaurantCountFallback(t *testing.T) {
	svc := newTestService(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/restaurant-count", nil)
	svc.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":120`)
}

func TestService_GuestSignupWithoutStore(t *testing.T) {
	svc := newTestService(t)

	payload, _ := json.Marshal(map[string]any{"email": "guest@example.com"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/guest-waitlist", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	svc.Router().ServeHTTP(w, req)

	// Guest signups have no file fallback, so a missing store is a
	// server error for this endpoint.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestService_MetricsDisabledByDefaultConfig(t *testing.T) {
	svc := newTestService(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/metrics", nil)
	svc.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
