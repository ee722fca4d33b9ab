package tracked

import (
	"context"
	"errors"
	"fmt"
	"time"

	"modlist-manager/db"
	"modlist-manager/nexus"

	"gorm.io/gorm"
)

// Keep marks a tracked mod as one to keep tracking. The mod must be a member
// of the user's tracked modlist.
func Keep(gdb *gorm.DB, userID, modID int) (*db.Mod, error) {
	var mod *db.Mod
	err := gdb.Transaction(func(tx *gorm.DB) error {
		m, err := db.ModByID(tx, modID)
		if err != nil {
			return err
		}
		ml, err := db.FindTrackedModlist(tx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotTracked
		}
		if err != nil {
			return err
		}
		member, err := db.IsMember(tx, ml.ID, modID)
		if err != nil {
			return err
		}
		if !member {
			return ErrNotTracked
		}
		kept, err := isKept(tx, userID, modID)
		if err != nil {
			return err
		}
		if kept {
			return ErrAlreadyKept
		}
		if err := tx.Exec("INSERT INTO keep_tracked (user_id, tracked_mod_id) VALUES (?, ?)", userID, modID).Error; err != nil {
			return err
		}
		mod = m
		return nil
	})
	return mod, err
}

// Unkeep removes a mod from the keep-tracked set.
func Unkeep(gdb *gorm.DB, userID, modID int) (*db.Mod, error) {
	var mod *db.Mod
	err := gdb.Transaction(func(tx *gorm.DB) error {
		m, err := db.ModByID(tx, modID)
		if err != nil {
			return err
		}
		res := tx.Exec("DELETE FROM keep_tracked WHERE user_id = ? AND tracked_mod_id = ?", userID, modID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotKept
		}
		mod = m
		return nil
	})
	return mod, err
}

func isKept(tx *gorm.DB, userID, modID int) (bool, error) {
	var count int64
	err := tx.Table("keep_tracked").Where("user_id = ? AND tracked_mod_id = ?", userID, modID).Count(&count).Error
	return count > 0, err
}

// TrackedMods returns members of the tracked modlist that are not kept,
// most recently updated first.
func TrackedMods(gdb *gorm.DB, userID int) ([]db.Mod, error) {
	var mods []db.Mod
	err := gdb.
		Joins("JOIN modlist_mod ON modlist_mod.mod_id = mods.id").
		Joins("JOIN modlists ON modlists.id = modlist_mod.modlist_id").
		Where("modlists.user_id = ? AND modlists.name = ?", userID, db.TrackedModlistName).
		Where("mods.id NOT IN (?)", gdb.Table("keep_tracked").Select("tracked_mod_id").Where("user_id = ?", userID)).
		Order("mods.updated_timestamp DESC").Order("mods.id").
		Find(&mods).Error
	return mods, err
}

// KeptMods returns the keep-tracked set, most recently updated first.
func KeptMods(gdb *gorm.DB, userID int) ([]db.Mod, error) {
	var mods []db.Mod
	err := gdb.
		Joins("JOIN keep_tracked ON keep_tracked.tracked_mod_id = mods.id").
		Where("keep_tracked.user_id = ?", userID).
		Order("mods.updated_timestamp DESC").Order("mods.id").
		Find(&mods).Error
	return mods, err
}

// Tracker is the slice of the Nexus client SetTracking needs.
type Tracker interface {
	SetTracking(ctx context.Context, domain string, modID int, action nexus.TrackAction) error
}

// SetTracking changes the remote tracking state and mirrors it into the
// user's tracked modlist. Mods unknown locally are picked up by the next sync.
func SetTracking(ctx context.Context, gdb *gorm.DB, catalog Tracker, userID int, domain string, modID int, action nexus.TrackAction) error {
	if err := catalog.SetTracking(ctx, domain, modID, action); err != nil {
		return err
	}

	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ml, err := db.EnsureTrackedModlist(tx, userID)
		if err != nil {
			return err
		}
		ids := []int{modID}

		if action == nexus.Untrack {
			if err := db.RemoveMembers(tx, ml.ID, ids); err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM keep_tracked WHERE user_id = ? AND tracked_mod_id = ?", userID, modID).Error; err != nil {
				return err
			}
			if err := db.RetractOrphanedGames(tx, ml.ID); err != nil {
				return err
			}
			return db.TouchModlist(tx, ml.ID, timeNow())
		}

		known, err := db.ExistingModIDs(tx, ids)
		if err != nil {
			return err
		}
		if len(known) == 0 {
			return nil
		}
		if err := db.AddMembers(tx, ml.ID, ids); err != nil {
			return err
		}
		if _, err := db.MarkNSFWIfAny(tx, ml.ID, ids); err != nil {
			return err
		}
		if err := db.AssignGamesForMods(tx, ml.ID, ids); err != nil {
			return fmt.Errorf("failed to assign games: %w", err)
		}
		return db.TouchModlist(tx, ml.ID, timeNow())
	})
}

var timeNow = time.Now

// Endorser is the slice of the Nexus client Endorse needs.
type Endorser interface {
	SetEndorsement(ctx context.Context, domain string, modID int, version string, action nexus.EndorseAction) error
}

// Endorse endorses or abstains and returns the message to show the user.
func Endorse(ctx context.Context, catalog Endorser, domain string, modID int, version string, action nexus.EndorseAction) (string, error) {
	if err := catalog.SetEndorsement(ctx, domain, modID, version, action); err != nil {
		return "", err
	}
	if action == nexus.Abstain {
		return "You have abstained from endorsing this mod.", nil
	}
	return "Thank you for endorsing this mod!", nil
}
