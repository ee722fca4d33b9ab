package cmd

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"modlist-manager/db"
	"modlist-manager/modlists"
	"modlist-manager/nexus"
	"modlist-manager/tracked"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"42", 42, false},
		{" 7 ", 7, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseID(tt.input, "mod id")
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseID(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"missing key", fmt.Errorf("list tracked: %w", nexus.ErrMissingAPIKey), "A Nexus API key is required. Set NEXUS_API_KEY or pass --api-key."},
		{"not downloaded", nexus.ErrNotDownloaded, "You must download this mod before you can endorse it."},
		{"remote fetch", fmt.Errorf("%w: %w", tracked.ErrRemoteFetch, nexus.ErrUnreachable), "Could not fetch your tracked mods from Nexus. Nothing was changed."},
		{"duplicate name", modlists.ErrDuplicateName, "You already have a modlist with that name."},
		{"protected", fmt.Errorf("edit: %w", modlists.ErrProtected), "This modlist is managed automatically and cannot be changed."},
		{"already kept", tracked.ErrAlreadyKept, "Mod is already in your Keep-Tracked list."},
		{"bad credentials", db.ErrInvalidCredentials, "Invalid username or password."},
		{"unknown", errors.New("disk full"), "disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeError(tt.err); got != tt.want {
				t.Errorf("describeError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVisibleMods(t *testing.T) {
	mods := []db.Mod{
		{ID: 1, IsNSFW: false},
		{ID: 2, IsNSFW: true},
		{ID: 3, IsNSFW: false},
	}

	if got := visibleMods(mods, false); len(got) != 3 {
		t.Errorf("visibleMods(show) returned %d mods, want 3", len(got))
	}

	got := visibleMods(mods, true)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("visibleMods(hide) = %+v, want mods 1 and 3", got)
	}
}

func TestFormatTimestamp(t *testing.T) {
	if got := formatTimestamp(0); got != "unknown" {
		t.Errorf("formatTimestamp(0) = %q, want unknown", got)
	}
	if got := formatTimestamp(1700000000); got != "2023-11-14" {
		t.Errorf("formatTimestamp(1700000000) = %q, want 2023-11-14", got)
	}
}

func TestModLine(t *testing.T) {
	line := modLine(db.Mod{ID: 1704, Name: "SkyUI", UploadedBy: "schlangster", UpdatedTimestamp: 1700000000, IsNSFW: true})
	for _, want := range []string{"1704", "SkyUI", "schlangster", "2023-11-14", "NSFW"} {
		if !strings.Contains(line, want) {
			t.Errorf("modLine() = %q, missing %q", line, want)
		}
	}
}
