// Copyright (C) 2025 BalaBite AI (dev@balabite.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package store implements the durable-store client for waitlist
// records, backed by Supabase's PostgREST API.
//
// # Credential Tiers
//
// Two credential tiers are supported. The anon key is tried first for
// submission inserts: it is the appropriate credential for
// public-facing writes under row-level security. If the anon insert
// is rejected, the service-role key is used as fallback, preceded by
// a best-effort RPC that ensures the waitlist table exists. Each
// tier's failure is logged independently; when both tiers fail the
// store is reported unavailable and the caller proceeds with the
// submission's temporary identifier.
//
// There is no transactional coupling between this store and the file
// backup. The two can disagree and the system does not reconcile
// them.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/datatypes"
)

const (
	waitlistTable      = "waitlist"
	guestWaitlistTable = "guest_waitlist"

	// ensureTableRPC is invoked before the service-role retry to
	// create the waitlist table if a fresh project lacks it.
	ensureTableRPC = "check_and_create_waitlist_table"

	defaultTimeout = 15 * time.Second
)

// ErrNotConfigured is returned when the store has no usable
// credentials for the requested operation. Callers treat it like any
// other store outage: logged, reported, never fatal.
var ErrNotConfigured = errors.New("supabase credentials not configured")

// Tier identifies which credential a request was made with.
type Tier string

const (
	// TierAnon is the low-privilege public credential.
	TierAnon Tier = "anon"
	// TierServiceRole is the elevated fallback credential.
	TierServiceRole Tier = "service_role"
)

// TierError reports a rejected request for one credential tier.
type TierError struct {
	Tier       Tier
	StatusCode int
	Message    string
}

func (e *TierError) Error() string {
	return fmt.Sprintf("%s insert rejected (status %d): %s", e.Tier, e.StatusCode, e.Message)
}

// HTTPClient allows injecting mock HTTP clients for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the store client configuration. URL is the Supabase
// project URL; either key may be empty, disabling that tier.
type Config struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string

	// HTTPClient overrides the default client (tests). Optional.
	HTTPClient HTTPClient
}

// Client talks to the Supabase PostgREST API. Safe for concurrent
// use; all fields are read-only after New.
type Client struct {
	baseURL        string
	anonKey        string
	serviceRoleKey string
	httpClient     HTTPClient
}

// New creates a store Client. Returns an error only for a malformed
// URL; missing keys are tolerated and surface later as
// ErrNotConfigured on the operations that need them.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		return nil, ErrNotConfigured
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid supabase URL: %q", cfg.URL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		baseURL:        base,
		anonKey:        cfg.AnonKey,
		serviceRoleKey: cfg.ServiceRoleKey,
		httpClient:     httpClient,
	}, nil
}

// submissionRow is the waitlist table row shape (snake_case column
// names per the Supabase schema).
type submissionRow struct {
	ID             json.Number `json:"id,omitempty"`
	RestaurantName string      `json:"restaurant_name"`
	OwnerName      string      `json:"owner_name"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	RestaurantType string      `json:"restaurant_type"`
	Location       string      `json:"location"`
	Message        string      `json:"message"`
	Status         string      `json:"status"`
}

// guestRow is the guest_waitlist table row shape.
type guestRow struct {
	Email      string `json:"email"`
	SignedUpAt string `json:"signed_up_at,omitempty"`
}

// =============================================================================
// Submissions
// =============================================================================

// InsertSubmission inserts one submission row, anon tier first with a
// service-role fallback, and returns the store-assigned identifier.
//
// The returned error wraps the last tier's failure; when it is
// non-nil the caller keeps the submission's temporary identifier.
func (c *Client) InsertSubmission(ctx context.Context, sub datatypes.Submission) (string, error) {
	row := submissionRow{
		RestaurantName: sub.RestaurantName,
		OwnerName:      sub.OwnerName,
		Email:          sub.Email,
		Phone:          sub.Phone,
		RestaurantType: sub.RestaurantType,
		Location:       sub.Location,
		Message:        sub.Message,
		Status:         sub.Status,
	}

	if c.anonKey != "" {
		id, err := c.insertRow(ctx, TierAnon, c.anonKey, row)
		if err == nil {
			slog.Info("waitlist insert succeeded with anon key", "store_id", id)
			return id, nil
		}
		slog.Warn("anon tier insert failed, falling back to service role", "error", err)
	} else {
		slog.Warn("anon key not configured, trying service role directly")
	}

	if c.serviceRoleKey == "" {
		return "", ErrNotConfigured
	}

	// Best-effort schema bootstrap before the elevated retry. Failure
	// is logged and does not stop the insert attempt.
	if err := c.ensureWaitlistTable(ctx); err != nil {
		slog.Warn("waitlist table bootstrap failed", "error", err)
	}

	id, err := c.insertRow(ctx, TierServiceRole, c.serviceRoleKey, row)
	if err != nil {
		slog.Error("service role insert failed", "error", err)
		return "", err
	}
	slog.Info("waitlist insert succeeded with service role key", "store_id", id)
	return id, nil
}

// insertRow performs one tier's POST against the waitlist table and
// decodes the representation PostgREST returns for the new row.
func (c *Client) insertRow(ctx context.Context, tier Tier, key string, row submissionRow) (string, error) {
	body, err := json.Marshal([]submissionRow{row})
	if err != nil {
		return "", fmt.Errorf("encode row: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.tableURL(waitlistTable), key, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s insert: %w", tier, err)
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TierError{Tier: tier, StatusCode: resp.StatusCode, Message: errorMessage(payload)}
	}

	var inserted []submissionRow
	if err := json.Unmarshal(payload, &inserted); err != nil || len(inserted) == 0 {
		return "", fmt.Errorf("%s insert: unexpected response body", tier)
	}
	return inserted[0].ID.String(), nil
}

// ensureWaitlistTable calls the schema-bootstrap RPC with the service
// role key. Invoked at most once per fallback.
func (c *Client) ensureWaitlistTable(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/rest/v1/rpc/%s", c.baseURL, ensureTableRPC)
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, c.serviceRoleKey, strings.NewReader("{}"))
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("schema rpc: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return fmt.Errorf("schema rpc status %d: %s", resp.StatusCode, errorMessage(payload))
	}
	return nil
}

// CountSubmissions returns the number of waitlist rows using
// PostgREST's exact-count header so no row data crosses the wire.
func (c *Client) CountSubmissions(ctx context.Context) (int, error) {
	key := c.preferredKey()
	if key == "" {
		return 0, ErrNotConfigured
	}

	req, err := c.newRequest(ctx, http.MethodGet, c.tableURL(waitlistTable)+"?select=id&limit=1", key, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Prefer", "count=exact")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("count request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("count request status %d", resp.StatusCode)
	}

	return parseContentRangeTotal(resp.Header.Get("Content-Range"))
}

// =============================================================================
// Guest Waitlist
// =============================================================================

// GuestSignupExists reports whether email already has a
// guest-waitlist entry.
func (c *Client) GuestSignupExists(ctx context.Context, email string) (bool, error) {
	key := c.preferredKey()
	if key == "" {
		return false, ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s?select=email&email=eq.%s&limit=1",
		c.tableURL(guestWaitlistTable), url.QueryEscape(email))
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, key, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("guest lookup: %w", err)
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("guest lookup status %d: %s", resp.StatusCode, errorMessage(payload))
	}

	var rows []guestRow
	if err := json.Unmarshal(payload, &rows); err != nil {
		return false, fmt.Errorf("guest lookup: decode response: %w", err)
	}
	return len(rows) > 0, nil
}

// InsertGuestSignup appends one guest-waitlist entry. Dedup checking
// is the caller's responsibility via GuestSignupExists.
func (c *Client) InsertGuestSignup(ctx context.Context, email string) error {
	key := c.preferredKey()
	if key == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(guestRow{
		Email:      email,
		SignedUpAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encode guest row: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.tableURL(guestWaitlistTable), key, bytes.NewReader(body))
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("guest insert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return fmt.Errorf("guest insert status %d: %s", resp.StatusCode, errorMessage(payload))
	}
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

// preferredKey returns the elevated key when present, else the anon
// key. Reads and guest inserts go through a single tier.
func (c *Client) preferredKey() string {
	if c.serviceRoleKey != "" {
		return c.serviceRoleKey
	}
	return c.anonKey
}

func (c *Client) tableURL(table string) string {
	return fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
}

func (c *Client) newRequest(ctx context.Context, method, endpoint, key string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// errorMessage extracts PostgREST's error message from a response
// body, falling back to the raw payload.
func errorMessage(payload []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err == nil && body.Message != "" {
		return body.Message
	}
	trimmed := strings.TrimSpace(string(payload))
	if len(trimmed) > 200 {
		trimmed = trimmed[:200]
	}
	return trimmed
}

// parseContentRangeTotal extracts the total from a PostgREST
// Content-Range header such as "0-0/42" or "*/0".
func parseContentRangeTotal(header string) (int, error) {
	idx := strings.LastIndex(header, "/")
	if idx < 0 || idx == len(header)-1 {
		return 0, fmt.Errorf("missing count in Content-Range %q", header)
	}
	total := header[idx+1:]
	if total == "*" {
		return 0, fmt.Errorf("indeterminate count in Content-Range %q", header)
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("parse Content-Range %q: %w", header, err)
	}
	return n, nil
}
