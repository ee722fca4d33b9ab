package testutil

import (
	"path/filepath"
	"testing"

	"modlist-manager/db"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SetupTestDB creates a migrated SQLite database under t.TempDir().
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(filepath.Join(t.TempDir(), "test.db"), gormlogger.Silent)
	if err != nil {
		t.Fatalf("Failed to init test db: %v", err)
	}
	return gdb
}

// CreateUser signs up a user with a throwaway password.
func CreateUser(t *testing.T, gdb *gorm.DB, username string) *db.User {
	t.Helper()
	user, err := db.Signup(gdb, username, username+"@example.com", "password")
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

// SeedGame stores a game.
func SeedGame(t *testing.T, gdb *gorm.DB, id int, domain string) db.Game {
	t.Helper()
	game := db.Game{ID: id, DomainName: domain, Name: domain}
	if err := gdb.Create(&game).Error; err != nil {
		t.Fatalf("Failed to seed game %s: %v", domain, err)
	}
	return game
}

// SeedMod stores a mod and links it to gameID when non-zero.
func SeedMod(t *testing.T, gdb *gorm.DB, id, gameID int, nsfw bool) db.Mod {
	t.Helper()
	mod := db.Mod{ID: id, Name: "Mod", PictureURL: db.DefaultPictureURL, IsNSFW: nsfw, UpdatedTimestamp: int64(id)}
	if err := gdb.Create(&mod).Error; err != nil {
		t.Fatalf("Failed to seed mod %d: %v", id, err)
	}
	if gameID != 0 {
		if err := db.LinkModsToGame(gdb, gameID, []int{id}); err != nil {
			t.Fatalf("Failed to link mod %d: %v", id, err)
		}
	}
	return mod
}

// TrackedMembers returns the member ids of the user's tracked modlist.
func TrackedMembers(t *testing.T, gdb *gorm.DB, userID int) []int {
	t.Helper()
	ml, err := db.FindTrackedModlist(gdb, userID)
	if err != nil {
		t.Fatalf("Failed to load tracked modlist: %v", err)
	}
	ids, err := db.MemberIDs(gdb, ml.ID)
	if err != nil {
		t.Fatalf("Failed to load members: %v", err)
	}
	return ids
}
