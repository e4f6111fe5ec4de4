// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"os"
	"strings"
	"sync"
)

// OutputMode controls how the CLI renders its output.
type OutputMode string

const (
	// ModeStyled enables colors, icons, and boxes.
	ModeStyled OutputMode = "styled"

	// ModePlain outputs unstyled text suitable for scripting and parsing.
	ModePlain OutputMode = "plain"
)

var (
	currentMode = ModeStyled
	modeMu      sync.RWMutex
)

// GetMode returns the current output mode.
func GetMode() OutputMode {
	modeMu.RLock()
	defer modeMu.RUnlock()
	return currentMode
}

// SetMode updates the current output mode.
func SetMode(mode OutputMode) {
	modeMu.Lock()
	defer modeMu.Unlock()
	currentMode = mode
}

// ParseMode converts a string to an OutputMode. Unknown values map to styled.
func ParseMode(s string) OutputMode {
	switch strings.ToLower(s) {
	case "plain", "machine", "quiet", "q":
		return ModePlain
	default:
		return ModeStyled
	}
}

// InitMode initializes the output mode from environment and terminal state.
// Piped output falls back to plain so downstream tools get clean text.
func InitMode() {
	if env := os.Getenv("CAREFACTORY_OUTPUT"); env != "" {
		SetMode(ParseMode(env))
		return
	}
	if !isTerminal() {
		SetMode(ModePlain)
		return
	}
	SetMode(ModeStyled)
}

// isTerminal checks if stdout is a terminal.
func isTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
