package db

import (
	"strings"
	"time"
)

const (
	// TrackedModlistName is the reserved modlist every user owns, mirroring
	// their Nexus Tracking Centre.
	TrackedModlistName = "Nexus Tracked Mods"

	TrackedModlistDescription = "This modlist automatically populates with all the mods in your Nexus account's Tracking Centre."

	// DefaultPictureURL replaces a missing mod picture.
	DefaultPictureURL = "https://upload.wikimedia.org/wikipedia/commons/b/b1/Missing-image-232x150.png"
)

// User is a local account. The Nexus API key is never stored.
type User struct {
	ID          int       `gorm:"primaryKey;autoIncrement"`
	Username    string    `gorm:"size:30;uniqueIndex;not null"`
	Email       string    `gorm:"size:30;uniqueIndex;not null"`
	Password    string    `gorm:"not null"` // bcrypt hash
	HideNSFW    bool      `gorm:"column:hide_nsfw"`
	Modlists    []Modlist `gorm:"constraint:OnDelete:CASCADE;"`
	KeepTracked []Mod     `gorm:"many2many:keep_tracked;joinForeignKey:UserID;joinReferences:TrackedModID"`
}

// Game mirrors a Nexus game. IDs come from Nexus.
type Game struct {
	ID         int    `gorm:"primaryKey;autoIncrement:false"`
	DomainName string `gorm:"uniqueIndex;not null"`
	Name       string `gorm:"not null"`
	Downloads  int64  `gorm:"index"`
}

// Mod mirrors a published Nexus mod. IDs come from Nexus.
type Mod struct {
	ID               int    `gorm:"primaryKey;autoIncrement:false"`
	Name             string `gorm:"not null"`
	Summary          string
	IsNSFW           bool   `gorm:"column:is_nsfw"`
	PictureURL       string `gorm:"column:picture_url"`
	UpdatedTimestamp int64  `gorm:"index"`
	UploadedBy       string
	Games            []Game `gorm:"many2many:game_mod;"`
}

// Modlist is a named, user-owned collection of mods.
type Modlist struct {
	ID          int    `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"not null;uniqueIndex:idx_modlist_user_name"`
	Description *string
	Private     bool
	HasNSFW     bool      `gorm:"column:has_nsfw"`
	LastUpdated time.Time `gorm:"index"`
	UserID      int       `gorm:"not null;uniqueIndex:idx_modlist_user_name"`
	Games       []Game    `gorm:"many2many:game_modlist;constraint:OnDelete:CASCADE;"`
	Mods        []Mod     `gorm:"many2many:modlist_mod;constraint:OnDelete:CASCADE;"`
}

// IsTracked reports whether m is the reserved tracked-mods modlist.
func (m *Modlist) IsTracked() bool {
	return m.Name == TrackedModlistName
}

// IsReservedName reports whether a user-supplied name collides with the
// reserved modlist name.
func IsReservedName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), TrackedModlistName)
}
