// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"strings"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  OutputMode
	}{
		{"plain", ModePlain},
		{"machine", ModePlain},
		{"quiet", ModePlain},
		{"q", ModePlain},
		{"PLAIN", ModePlain},
		{"styled", ModeStyled},
		{"", ModeStyled},
		{"garbage", ModeStyled},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseMode(tt.input); got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSetAndGetMode(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)

	SetMode(ModePlain)
	if GetMode() != ModePlain {
		t.Errorf("GetMode() = %v, want plain", GetMode())
	}

	SetMode(ModeStyled)
	if GetMode() != ModeStyled {
		t.Errorf("GetMode() = %v, want styled", GetMode())
	}
}

func TestInitModeRespectsEnv(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)

	t.Setenv("CAREFACTORY_OUTPUT", "plain")
	InitMode()
	if GetMode() != ModePlain {
		t.Errorf("GetMode() = %v, want plain", GetMode())
	}
}

func TestIconRenderContainsGlyph(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)

	for _, mode := range []OutputMode{ModePlain, ModeStyled} {
		SetMode(mode)
		for _, icon := range []Icon{IconSuccess, IconWarning, IconError, IconOptional, IconArrow} {
			if !strings.Contains(icon.Render(), string(icon)) {
				t.Errorf("mode %v: Render() of %q lost the glyph", mode, icon)
			}
		}
	}
}

func TestIconRenderPlainIsUnstyled(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)

	SetMode(ModePlain)
	if got := IconSuccess.Render(); got != string(IconSuccess) {
		t.Errorf("plain Render() = %q, want bare glyph", got)
	}
}
