// Copyright (C) 2025 BalaBite AI (dev@balabite.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package configuration loads service configuration from the
// environment, with optional .env file support for local development.
//
// Configuration is resolved once per process via Use():
//
//	conf := configuration.Use()
//	fmt.Println(conf.Port, conf.Supabase.URL)
//
// Values come from environment variables; `.env` and `.env.local`
// files in the working directory are loaded first if present, so
// local development does not require exporting variables by hand.
package configuration

import (
	"fmt"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var singleton = sync.OnceValue(func() *Configuration {
	c, err := Load([]string{".env", ".env.local"})
	if err != nil {
		panic(err)
	}
	return c
})

// SupabaseOptions configures the durable store client.
//
// Two credential tiers are recognized: the anon key is used for
// public-facing inserts under row-level security, the service-role
// key is the elevated fallback. Absence of either simply disables
// that tier; the pipeline treats every resulting failure as a
// non-fatal store outage.
type SupabaseOptions struct {
	URL            string `env:"SUPABASE_URL"`
	AnonKey        string `env:"SUPABASE_ANON_KEY"`
	ServiceRoleKey string `env:"SUPABASE_SERVICE_ROLE_KEY"`
}

// Configured reports whether the store has a URL and at least one key.
func (s SupabaseOptions) Configured() bool {
	return s.URL != "" && (s.AnonKey != "" || s.ServiceRoleKey != "")
}

// NotifyOptions configures outbound notifications. An empty
// ResendAPIKey disables email sending; an empty SlackWebhookURL
// disables the chat summary. Neither is fatal.
type NotifyOptions struct {
	ResendAPIKey    string `env:"RESEND_API_KEY"`
	AdminEmail      string `env:"ADMIN_EMAIL" envDefault:"admin@balabite.ai"`
	SlackWebhookURL string `env:"SLACK_WEBHOOK_URL"`
}

// OpenTelemetryOptions configures distributed tracing export.
type OpenTelemetryOptions struct {
	Enabled  bool   `env:"OTEL_ENABLED" envDefault:"false"`
	Endpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
}

// Configuration is the full environment-driven configuration for the
// waitlist service and its CLI.
type Configuration struct {
	Port      int    `env:"PORT" envDefault:"8080"`
	GinMode   string `env:"GIN_MODE" envDefault:"release"`
	BackupDir string `env:"BACKUP_DIR" envDefault:"./waitlist-data"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogDir   string `env:"LOG_DIR"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`

	Supabase SupabaseOptions
	Notify   NotifyOptions
	OTel     OpenTelemetryOptions
}

// Use returns the process-wide configuration, loading it on first
// call. Panics if the environment cannot be parsed.
func Use() *Configuration {
	return singleton()
}

// Load resolves configuration from the given env files (those that
// exist) plus the process environment. Exposed separately from Use()
// for tests and for callers that manage their own lifecycle.
func Load(envFiles []string) (*Configuration, error) {
	if _, err := LoadEnv(envFiles); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}

	c := &Configuration{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return c, nil
}

// LoadEnv loads the subset of envFiles that exist on disk. Returns
// how many files were loaded. Missing files are not an error.
func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existingFiles = append(existingFiles, file)
		}
	}

	if len(existingFiles) == 0 {
		return 0, nil
	}

	return len(existingFiles), godotenv.Load(existingFiles...)
}
