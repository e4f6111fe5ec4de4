// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/CareFactory/pkg/logging"
	"github.com/AleutianAI/CareFactory/pkg/ux"
)

var (
	rootCmd = &cobra.Command{
		Use:   "carefactory",
		Short: "A CLI for building and running clinical review plans",
		Long: `CareFactory turns a clinical quality concern into a multi-lane
review plan and optionally executes it against a generation backend.`,
	}

	verbose bool
)

// cliLogger is shared by all subcommands. Logs go to stderr so command
// output on stdout stays pipeable.
var cliLogger *logging.Logger

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&registryDir, "registry-dir", "", "directory overriding the embedded lookup tables")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		ux.InitMode()
		level := logging.LevelInfo
		if verbose {
			level = logging.LevelDebug
		}
		cliLogger = logging.New(logging.Config{
			Level:   level,
			Service: "cli",
		})
		slog.SetDefault(cliLogger.Slog())
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if cliLogger != nil {
			_ = cliLogger.Close()
		}
	}

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(concernsCmd)
}

func fatal(msg string, err error) {
	ux.Error(msg + ": " + err.Error())
	os.Exit(1)
}
