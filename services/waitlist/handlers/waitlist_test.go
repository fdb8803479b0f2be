// Copyright (C) 2025 BalaBite AI (dev@balabite.ai)
// Tests for the waitlist submission handler

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/datatypes"
	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/pipeline"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakePipeline returns a canned Result and records the request it
// processed.
type fakePipeline struct {
	result    pipeline.Result
	processed []datatypes.SubmissionRequest
}

func (f *fakePipeline) Process(_ context.Context, req datatypes.SubmissionRequest) pipeline.Result {
	f.processed = append(f.processed, req)
	return f.result
}

func submitRouter(p SubmissionPipeline) *gin.Engine {
	router := gin.New()
	router.POST("/v1/waitlist", HandleWaitlistSubmit(p))
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func validPayload() map[string]any {
	return map[string]any{
		"restaurantName": "Cafe X",
		"ownerName":      "Jo",
		"email":          "jo@x.com",
		"phone":          "555-123-4567",
		"restaurantType": "cafe",
		"location":       "NYC",
	}
}

// =============================================================================
// HandleWaitlistSubmit Tests
// =============================================================================

func TestHandleWaitlistSubmit_Success(t *testing.T) {
	fake := &fakePipeline{result: pipeline.Result{
		FileBackup: true,
		Database:   true,
		Emails:     pipeline.EmailResults{Welcome: true, Admin: true},
		ID:         "42",
	}}
	router := submitRouter(fake)

	w := postJSON(t, router, "/v1/waitlist", validPayload())

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
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
	assert.Equal(t, "Successfully joined the waitlist", resp.Message)
	assert.True(t, resp.Storage.Database)
	assert.True(t, resp.Storage.FileBackup)
	assert.True(t, resp.Emails.Welcome)
	assert.True(t, resp.Emails.Admin)
	assert.Equal(t, "42", resp.ID)

	require.Len(t, fake.processed, 1)
	assert.Equal(t, "Cafe X", fake.processed[0].RestaurantName)
}

func TestHandleWaitlistSubmit_DegradedSinksStillOK(t *testing.T) {
	fake := &fakePipeline{result: pipeline.Result{
		FileBackup: true,
		ID:         "local-abc",
	}}
	router := submitRouter(fake)

	w := postJSON(t, router, "/v1/waitlist", validPayload())

	// Sink failures never fail the request.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":false`)
	assert.Contains(t, w.Body.String(), `"fileBackup":true`)
	assert.Contains(t, w.Body.String(), `"local-abc"`)
}

func TestHandleWaitlistSubmit_ValidationFailure(t *testing.T) {
	fake := &fakePipeline{}
	router := submitRouter(fake)

	payload := validPayload()
	payload["email"] = "not-an-email"
	w := postJSON(t, router, "/v1/waitlist", payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp.Error)
	assert.Contains(t, resp.Details, "email")
	assert.Empty(t, fake.processed)
}

func TestHandleWaitlistSubmit_AllFieldsMissing(t *testing.T) {
	fake := &fakePipeline{}
	router := submitRouter(fake)

	w := postJSON(t, router, "/v1/waitlist", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// One pass reports every failed field.
	for _, field := range []string{"restaurantName", "ownerName", "email", "phone", "restaurantType", "location"} {
		assert.Contains(t, resp.Details, field)
	}
}

func TestHandleWaitlistSubmit_MalformedBody(t *testing.T) {
	fake := &fakePipeline{}
	router := submitRouter(fake)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/waitlist", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to process submission")
	assert.Empty(t, fake.processed)
}
