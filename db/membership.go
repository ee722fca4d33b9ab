package db

import (
	"time"

	"gorm.io/gorm"
)

// Join-table maintenance shared by modlist curation and the tracked-mods
// engine. Every function expects to run inside the caller's transaction.

func MemberIDs(tx *gorm.DB, modlistID int) ([]int, error) {
	var ids []int
	err := tx.Table("modlist_mod").Where("modlist_id = ?", modlistID).Order("mod_id").Pluck("mod_id", &ids).Error
	return ids, err
}

func IsMember(tx *gorm.DB, modlistID, modID int) (bool, error) {
	var count int64
	err := tx.Table("modlist_mod").Where("modlist_id = ? AND mod_id = ?", modlistID, modID).Count(&count).Error
	return count > 0, err
}

func AddMembers(tx *gorm.DB, modlistID int, modIDs []int) error {
	for _, id := range modIDs {
		if err := tx.Exec(
			"INSERT INTO modlist_mod (modlist_id, mod_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
			modlistID, id,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

func RemoveMembers(tx *gorm.DB, modlistID int, modIDs []int) error {
	if len(modIDs) == 0 {
		return nil
	}
	return tx.Exec("DELETE FROM modlist_mod WHERE modlist_id = ? AND mod_id IN ?", modlistID, modIDs).Error
}

// MarkNSFWIfAny raises has_nsfw when any of modIDs is adult content.
// The flag is never lowered.
func MarkNSFWIfAny(tx *gorm.DB, modlistID int, modIDs []int) (bool, error) {
	if len(modIDs) == 0 {
		return false, nil
	}
	var count int64
	if err := tx.Model(&Mod{}).Where("id IN ? AND is_nsfw = ?", modIDs, true).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}
	return true, tx.Model(&Modlist{}).Where("id = ?", modlistID).Update("has_nsfw", true).Error
}

// AssignGamesForMods associates the modlist with every game of modIDs.
func AssignGamesForMods(tx *gorm.DB, modlistID int, modIDs []int) error {
	if len(modIDs) == 0 {
		return nil
	}
	return tx.Exec(
		"INSERT INTO game_modlist (modlist_id, game_id) "+
			"SELECT DISTINCT ?, game_id FROM game_mod WHERE mod_id IN ? "+
			"ON CONFLICT DO NOTHING",
		modlistID, modIDs,
	).Error
}

// RetractOrphanedGames drops game associations no remaining member supports.
func RetractOrphanedGames(tx *gorm.DB, modlistID int) error {
	return tx.Exec(
		"DELETE FROM game_modlist WHERE modlist_id = ? AND game_id NOT IN ("+
			"SELECT gm.game_id FROM game_mod gm "+
			"JOIN modlist_mod mm ON mm.mod_id = gm.mod_id "+
			"WHERE mm.modlist_id = ?)",
		modlistID, modlistID,
	).Error
}

func TouchModlist(tx *gorm.DB, modlistID int, at time.Time) error {
	return tx.Model(&Modlist{}).Where("id = ?", modlistID).Update("last_updated", at.UTC()).Error
}

// LinkModsToGame records that each mod belongs to game. Existing links are kept.
func LinkModsToGame(tx *gorm.DB, gameID int, modIDs []int) error {
	for _, id := range modIDs {
		if err := tx.Exec(
			"INSERT INTO game_mod (mod_id, game_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
			id, gameID,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

func GameIDsForMod(tx *gorm.DB, modID int) ([]int, error) {
	var ids []int
	err := tx.Table("game_mod").Where("mod_id = ?", modID).Pluck("game_id", &ids).Error
	return ids, err
}
