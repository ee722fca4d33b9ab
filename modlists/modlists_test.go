package modlists

import (
	"errors"
	"testing"

	"modlist-manager/db"
	"modlist-manager/testutil"
)

func strPtr(s string) *string { return &s }

func TestCreateNameRules(t *testing.T) {
	gdb := testutil.SetupTestDB(t)
	alice := testutil.CreateUser(t, gdb, "alice")
	bob := testutil.CreateUser(t, gdb, "bob")

	if _, err := Create(gdb, alice.ID, "Survival", strPtr("hard mode"), false); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name    string
		userID  int
		listNm  string
		wantErr error
	}{
		{"duplicate for same user", alice.ID, "Survival", ErrDuplicateName},
		{"duplicate with padding", alice.ID, "  Survival ", ErrDuplicateName},
		{"reserved name", alice.ID, db.TrackedModlistName, ErrDuplicateName},
		{"reserved name other case", alice.ID, "nexus tracked mods", ErrDuplicateName},
		{"empty name", alice.ID, "   ", ErrInvalidName},
		{"same name other user", bob.ID, "Survival", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Create(gdb, tt.userID, tt.listNm, nil, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create(%q) error = %v, want %v", tt.listNm, err, tt.wantErr)
			}
		})
	}
}

func TestEditAndDeleteGuards(t *testing.T) {
	gdb := testutil.SetupTestDB(t)
	alice := testutil.CreateUser(t, gdb, "alice")
	bob := testutil.CreateUser(t, gdb, "bob")
	first, _ := Create(gdb, alice.ID, "First", nil, false)
	second, _ := Create(gdb, alice.ID, "Second", nil, false)
	tracked, _ := db.FindTrackedModlist(gdb, alice.ID)

	tests := []struct {
		name    string
		userID  int
		id      int
		newName string
		wantErr error
	}{
		{"rename onto sibling", alice.ID, second.ID, "First", ErrDuplicateName},
		{"rename onto reserved", alice.ID, second.ID, db.TrackedModlistName, ErrDuplicateName},
		{"edit tracked modlist", alice.ID, tracked.ID, "Renamed", ErrProtected},
		{"edit by non-owner", bob.ID, first.ID, "Stolen", ErrNotOwner},
		{"edit missing", alice.ID, 9999, "Ghost", ErrNotFound},
		{"keep own name", alice.ID, first.ID, "First", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Edit(gdb, tt.userID, tt.id, tt.newName, strPtr("desc"), true)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Edit(%q) error = %v, want %v", tt.newName, err, tt.wantErr)
			}
		})
	}

	reloaded, err := Get(gdb, alice.ID, first.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reloaded.Private || reloaded.Description == nil || *reloaded.Description != "desc" {
		t.Errorf("edited modlist = %+v", reloaded)
	}
	if _, err := Get(gdb, bob.ID, first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("private modlist visible to other user, err = %v", err)
	}

	if err := Delete(gdb, alice.ID, tracked.ID); !errors.Is(err, ErrProtected) {
		t.Errorf("Delete(tracked) error = %v, want ErrProtected", err)
	}
	if err := Delete(gdb, bob.ID, second.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Delete by non-owner error = %v, want ErrNotOwner", err)
	}
	if err := Delete(gdb, alice.ID, second.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := Get(gdb, alice.ID, second.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted modlist still found, err = %v", err)
	}
}

func TestAddRemoveMaintainsFlagsAndGames(t *testing.T) {
	gdb := testutil.SetupTestDB(t)
	alice := testutil.CreateUser(t, gdb, "alice")
	skyrim := testutil.SeedGame(t, gdb, 1, "skyrim")
	fallout := testutil.SeedGame(t, gdb, 2, "fallout4")
	testutil.SeedMod(t, gdb, 10, skyrim.ID, false)
	testutil.SeedMod(t, gdb, 11, fallout.ID, true)

	ml, err := Create(gdb, alice.ID, "Mixed", nil, false)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := AddMod(gdb, alice.ID, ml.ID, 10); err != nil {
		t.Fatalf("AddMod(10) error = %v", err)
	}
	if err := AddMod(gdb, alice.ID, ml.ID, 11); err != nil {
		t.Fatalf("AddMod(11) error = %v", err)
	}
	if err := AddMod(gdb, alice.ID, ml.ID, 11); !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("AddMod twice error = %v, want ErrAlreadyMember", err)
	}
	if err := AddMod(gdb, alice.ID, ml.ID, 404); !errors.Is(err, db.ErrModNotFound) {
		t.Errorf("AddMod(unknown) error = %v, want ErrModNotFound", err)
	}

	got, _ := Get(gdb, alice.ID, ml.ID)
	if !got.HasNSFW {
		t.Error("has_nsfw should be set after adding an NSFW mod")
	}
	if len(got.Games) != 2 {
		t.Errorf("games = %v, want both games", got.Games)
	}

	if err := RemoveMod(gdb, alice.ID, ml.ID, 11); err != nil {
		t.Fatalf("RemoveMod() error = %v", err)
	}
	if err := RemoveMod(gdb, alice.ID, ml.ID, 11); !errors.Is(err, ErrNotMember) {
		t.Errorf("RemoveMod twice error = %v, want ErrNotMember", err)
	}

	got, _ = Get(gdb, alice.ID, ml.ID)
	if !got.HasNSFW {
		t.Error("has_nsfw must never be lowered")
	}
	if len(got.Games) != 1 || got.Games[0].ID != skyrim.ID {
		t.Errorf("games after removal = %v, want only skyrim", got.Games)
	}
	if len(got.Mods) != 1 || got.Mods[0].ID != 10 {
		t.Errorf("mods after removal = %v, want only 10", got.Mods)
	}

	tracked, _ := db.FindTrackedModlist(gdb, alice.ID)
	if err := AddMod(gdb, alice.ID, tracked.ID, 10); !errors.Is(err, ErrProtected) {
		t.Errorf("AddMod(tracked) error = %v, want ErrProtected", err)
	}
}

func TestGetCandidates(t *testing.T) {
	gdb := testutil.SetupTestDB(t)
	alice := testutil.CreateUser(t, gdb, "alice")
	skyrim := testutil.SeedGame(t, gdb, 1, "skyrim")
	fallout := testutil.SeedGame(t, gdb, 2, "fallout4")
	testutil.SeedMod(t, gdb, 10, skyrim.ID, false)
	testutil.SeedMod(t, gdb, 11, skyrim.ID, false)
	testutil.SeedMod(t, gdb, 20, fallout.ID, false)

	containing, _ := Create(gdb, alice.ID, "Has it", nil, false)
	scoped, _ := Create(gdb, alice.ID, "Skyrim list", nil, false)
	empty, _ := Create(gdb, alice.ID, "Empty", nil, false)
	other, _ := Create(gdb, alice.ID, "Fallout list", nil, false)
	AddMod(gdb, alice.ID, containing.ID, 10)
	AddMod(gdb, alice.ID, scoped.ID, 11)
	AddMod(gdb, alice.ID, other.ID, 20)

	c, err := GetCandidates(gdb, alice.ID, 10)
	if err != nil {
		t.Fatalf("GetCandidates() error = %v", err)
	}

	check := func(label string, got []db.Modlist, wantID int) {
		t.Helper()
		if len(got) != 1 || got[0].ID != wantID {
			t.Errorf("%s = %v, want only modlist %d", label, got, wantID)
		}
	}
	check("Containing", c.Containing, containing.ID)
	check("Scoped", c.Scoped, scoped.ID)
	check("Unassigned", c.Unassigned, empty.ID)
}

func TestListForUserHidesPrivate(t *testing.T) {
	gdb := testutil.SetupTestDB(t)
	alice := testutil.CreateUser(t, gdb, "alice")
	bob := testutil.CreateUser(t, gdb, "bob")
	Create(gdb, alice.ID, "Public", nil, false)
	Create(gdb, alice.ID, "Secret", nil, true)

	own, err := ListForUser(gdb, alice.ID, alice.ID)
	if err != nil {
		t.Fatalf("ListForUser() error = %v", err)
	}
	// Public, Secret and the tracked modlist.
	if len(own) != 3 {
		t.Errorf("owner sees %d modlists, want 3", len(own))
	}

	visible, _ := ListForUser(gdb, alice.ID, bob.ID)
	if len(visible) != 1 || visible[0].Name != "Public" {
		t.Errorf("other user sees %v, want only Public", visible)
	}
}
