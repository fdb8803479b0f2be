// Copyright (C) 2025 BalaBite AI (dev@balabite.ai)
// Tests for the guest waitlist handler

package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGuestStore struct {
	exists    bool
	existsErr error
	insertErr error

	inserted []string
}

func (f *fakeGuestStore) GuestSignupExists(_ context.Context, _ string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeGuestStore) InsertGuestSignup(_ context.Context, email string) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, email)
	return nil
}

func guestRouter(store GuestStore) *gin.Engine {
	router := gin.New()
	router.POST("/v1/guest-waitlist", HandleGuestSignup(store))
	return router
}

// =============================================================================
// HandleGuestSignup Tests
// =============================================================================

func TestHandleGuestSignup_NewEmail(t *testing.T) {
	store := &fakeGuestStore{}
	router := guestRouter(store)

	w := postJSON(t, router, "/v1/guest-waitlist", map[string]any{"email": "guest@example.com"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Successfully joined the guest app waitlist!")
	require.Len(t, store.inserted, 1)
	assert.Equal(t, "guest@example.com", store.inserted[0])
}

func TestHandleGuestSignup_DuplicateEmail(t *testing.T) {
	store := &fakeGuestStore{exists: true}
	router := guestRouter(store)

	w := postJSON(t, router, "/v1/guest-waitlist", map[string]any{"email": "guest@example.com"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "You're already on our waitlist!")
	assert.Empty(t, store.inserted)
}

func TestHandleGuestSignup_InvalidEmail(t *testing.T) {
	store := &fakeGuestStore{}
	router := guestRouter(store)

	for _, email := range []string{"", "plainaddress", "a@b"} {
		w := postJSON(t, router, "/v1/guest-waitlist", map[string]any{"email": email})

		assert.Equal(t, http.StatusBadRequest, w.Code, "email %q", email)
		assert.Contains(t, w.Body.String(), "Invalid email address")
	}
	assert.Empty(t, store.inserted)
}

func TestHandleGuestSignup_LookupError(t *testing.T) {
	store := &fakeGuestStore{existsErr: errors.New("store down")}
	router := guestRouter(store)

	w := postJSON(t, router, "/v1/guest-waitlist", map[string]any{"email": "guest@example.com"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Server error")
}

func TestHandleGuestSignup_InsertError(t *testing.T) {
	store := &fakeGuestStore{insertErr: errors.New("store down")}
	router := guestRouter(store)

	w := postJSON(t, router, "/v1/guest-waitlist", map[string]any{"email": "guest@example.com"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to join waitlist")
}

func TestHandleGuestSignup_NoStore(t *testing.T) {
	router := guestRouter(nil)

	w := postJSON(t, router, "/v1/guest-waitlist", map[string]any{"email": "guest@example.com"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Server error")
}
