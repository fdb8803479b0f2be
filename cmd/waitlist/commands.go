// Copyright (C) 2025 BalaBite AI (dev@balabite.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/BalaBiteAI/balabite-waitlist/pkg/configuration"
	"github.com/BalaBiteAI/balabite-waitlist/pkg/logging"
	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist"
	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/backup"
)

// version is stamped at build time via -ldflags.
var version = "dev"

// --- Global Command Variables ---
var (
	envFile   string
	backupDir string

	rootCmd = &cobra.Command{
		Use:   "waitlist",
		Short: "BalaBite waitlist capture service",
		Long: `The waitlist service powers the BalaBite marketing site: it
validates restaurant and guest signups, persists them to Supabase and
local file backups, and fans out email and Slack notifications.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Pre-load the chosen env file so Use() sees its values.
			if _, err := configuration.LoadEnv([]string{envFile}); err != nil {
				log.Fatalf("Error loading environment file %s: %v", envFile, err)
			}
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the waitlist HTTP server",
		Run:   runServe,
	}

	// --- Backups ---
	backupsCmd = &cobra.Command{
		Use:   "backups",
		Short: "Inspect the local submission backup directory",
	}
	backupsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List submissions recorded in the backup directory",
		Run:   runBackupsList,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the waitlist service version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file to load before reading configuration")
	backupsListCmd.Flags().StringVar(&backupDir, "dir", "", "backup directory to read (default: BACKUP_DIR from configuration)")

	backupsCmd.AddCommand(backupsListCmd)
	rootCmd.AddCommand(serveCmd, backupsCmd, versionCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := configuration.Use()

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.LogLevel),
		LogDir:  cfg.LogDir,
		Service: "waitlist",
	})
	defer logger.Close()
	logger.SetDefault()

	svc, err := waitlist.New(waitlist.FromConfiguration(cfg))
	if err != nil {
		log.Fatalf("Error initializing waitlist service: %v", err)
	}

	if err := svc.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func runBackupsList(cmd *cobra.Command, args []string) {
	dir := backupDir
	if dir == "" {
		dir = configuration.Use().BackupDir
	}

	subs, err := backup.NewWriter(dir).List()
	if err != nil {
		log.Fatalf("Error reading backups from %s: %v", dir, err)
	}
	if len(subs) == 0 {
		fmt.Printf("No submissions found in %s\n", dir)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SUBMITTED\tRESTAURANT\tOWNER\tEMAIL\tTYPE\tLOCATION\tID")
	for _, sub := range subs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			sub.SubmittedAt.Format("2006-01-02"),
			sub.RestaurantName,
			sub.OwnerName,
			sub.Email,
			sub.RestaurantType,
			sub.Location,
			sub.ID,
		)
	}
	w.Flush()
	fmt.Printf("\n%d submission(s) in %s\n", len(subs), dir)
}
