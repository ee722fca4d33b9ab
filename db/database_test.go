package db

import (
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := Open(filepath.Join(t.TempDir(), "test.db"), gormlogger.Silent)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return gdb
}

func TestSignupCreatesTrackedModlist(t *testing.T) {
	gdb := openTestDB(t)

	user, err := Signup(gdb, "alice", "alice@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if !user.HideNSFW {
		t.Error("expected new users to hide NSFW content by default")
	}

	ml, err := FindTrackedModlist(gdb, user.ID)
	if err != nil {
		t.Fatalf("FindTrackedModlist() error = %v", err)
	}
	if !ml.Private {
		t.Error("expected tracked modlist to be private")
	}
	if ml.Description == nil || *ml.Description != TrackedModlistDescription {
		t.Errorf("unexpected tracked modlist description: %v", ml.Description)
	}
}

func TestSignupRejectsDuplicates(t *testing.T) {
	gdb := openTestDB(t)
	if _, err := Signup(gdb, "alice", "alice@example.com", "pw"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"same username", "alice", "other@example.com"},
		{"same email", "bob", "alice@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Signup(gdb, tt.username, tt.email, "pw")
			if !errors.Is(err, ErrUserExists) {
				t.Errorf("Signup(%q, %q) error = %v, want ErrUserExists", tt.username, tt.email, err)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	gdb := openTestDB(t)
	if _, err := Signup(gdb, "alice", "alice@example.com", "correct"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"valid", "alice", "correct", nil},
		{"wrong password", "alice", "wrong", ErrInvalidCredentials},
		{"unknown user", "mallory", "correct", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Authenticate(gdb, tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Authenticate(%q) error = %v, want %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestChangePasswordAndHideNSFW(t *testing.T) {
	gdb := openTestDB(t)
	user, err := Signup(gdb, "alice", "alice@example.com", "old")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	if err := ChangePassword(gdb, user.ID, "bad", "new"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("ChangePassword with wrong current password error = %v", err)
	}
	if err := ChangePassword(gdb, user.ID, "old", "new"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if _, err := Authenticate(gdb, "alice", "new"); err != nil {
		t.Errorf("Authenticate with new password error = %v", err)
	}

	if err := SetHideNSFW(gdb, user.ID, false); err != nil {
		t.Fatalf("SetHideNSFW() error = %v", err)
	}
	reloaded, _ := UserByID(gdb, user.ID)
	if reloaded.HideNSFW {
		t.Error("expected HideNSFW to be false after update")
	}
}

func TestDeleteUserRemovesOwnedRows(t *testing.T) {
	gdb := openTestDB(t)
	user, err := Signup(gdb, "alice", "alice@example.com", "pw")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	mod := Mod{ID: 10, Name: "Mod", PictureURL: DefaultPictureURL}
	if err := gdb.Create(&mod).Error; err != nil {
		t.Fatalf("create mod: %v", err)
	}
	ml, _ := FindTrackedModlist(gdb, user.ID)
	if err := AddMembers(gdb, ml.ID, []int{10}); err != nil {
		t.Fatalf("AddMembers() error = %v", err)
	}
	if err := gdb.Exec("INSERT INTO keep_tracked (user_id, tracked_mod_id) VALUES (?, ?)", user.ID, 10).Error; err != nil {
		t.Fatalf("insert keep_tracked: %v", err)
	}

	if err := DeleteUser(gdb, user.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}

	var count int64
	gdb.Model(&Modlist{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected modlists to be deleted, found %d", count)
	}
	gdb.Table("modlist_mod").Where("modlist_id = ?", ml.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected memberships to be deleted, found %d", count)
	}
	if _, err := ModByID(gdb, 10); err != nil {
		t.Errorf("mods must survive user deletion, got %v", err)
	}
}

func TestMembershipHelpers(t *testing.T) {
	gdb := openTestDB(t)
	user, _ := Signup(gdb, "alice", "alice@example.com", "pw")
	games := []Game{{ID: 1, DomainName: "skyrim", Name: "Skyrim"}, {ID: 2, DomainName: "fallout4", Name: "Fallout 4"}}
	mods := []Mod{{ID: 100, Name: "Clean"}, {ID: 101, Name: "Spicy", IsNSFW: true}}
	gdb.Create(&games)
	gdb.Create(&mods)
	LinkModsToGame(gdb, 1, []int{100})
	LinkModsToGame(gdb, 2, []int{101})
	// Linking twice must not fail.
	if err := LinkModsToGame(gdb, 1, []int{100}); err != nil {
		t.Fatalf("LinkModsToGame() repeated error = %v", err)
	}

	ml := Modlist{Name: "Mine", UserID: user.ID}
	gdb.Create(&ml)

	AddMembers(gdb, ml.ID, []int{100, 101})
	flagged, err := MarkNSFWIfAny(gdb, ml.ID, []int{100, 101})
	if err != nil || !flagged {
		t.Fatalf("MarkNSFWIfAny() = %v, %v; want true, nil", flagged, err)
	}
	if err := AssignGamesForMods(gdb, ml.ID, []int{100, 101}); err != nil {
		t.Fatalf("AssignGamesForMods() error = %v", err)
	}

	RemoveMembers(gdb, ml.ID, []int{101})
	if err := RetractOrphanedGames(gdb, ml.ID); err != nil {
		t.Fatalf("RetractOrphanedGames() error = %v", err)
	}

	var gameIDs []int
	gdb.Table("game_modlist").Where("modlist_id = ?", ml.ID).Pluck("game_id", &gameIDs)
	if len(gameIDs) != 1 || gameIDs[0] != 1 {
		t.Errorf("game associations = %v, want [1]", gameIDs)
	}

	var reloaded Modlist
	gdb.First(&reloaded, ml.ID)
	if !reloaded.HasNSFW {
		t.Error("has_nsfw must stay set after removing the NSFW mod")
	}

	ids, _ := MemberIDs(gdb, ml.ID)
	if len(ids) != 1 || ids[0] != 100 {
		t.Errorf("MemberIDs() = %v, want [100]", ids)
	}
}

func TestIsReservedName(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Nexus Tracked Mods", true},
		{"  nexus tracked mods ", true},
		{"My Mods", false},
	}
	for _, tt := range tests {
		if got := IsReservedName(tt.in); got != tt.want {
			t.Errorf("IsReservedName(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
