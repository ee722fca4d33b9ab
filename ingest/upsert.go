package ingest

import (
	"fmt"

	"modlist-manager/db"
	"modlist-manager/nexus"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const batchSize = 200

// UpsertGames inserts games or refreshes their catalog fields.
func UpsertGames(tx *gorm.DB, games []db.Game) error {
	if len(games) == 0 {
		return nil
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"domain_name", "name", "downloads"}),
	}).CreateInBatches(&games, batchSize).Error
	if err != nil {
		return fmt.Errorf("failed to upsert %d games: %w", len(games), err)
	}
	return nil
}

// UpsertMods inserts mods or refreshes their catalog fields. Associations
// are left alone.
func UpsertMods(tx *gorm.DB, mods []db.Mod) error {
	if len(mods) == 0 {
		return nil
	}
	err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "summary", "is_nsfw", "picture_url", "updated_timestamp", "uploaded_by",
		}),
	}).CreateInBatches(&mods, batchSize).Error
	if err != nil {
		return fmt.Errorf("failed to upsert %d mods: %w", len(mods), err)
	}
	return nil
}

// StoreModsForGame upserts mods and links them to game in one transaction.
func StoreModsForGame(gdb *gorm.DB, game *db.Game, mods []db.Mod) error {
	if len(mods) == 0 {
		return nil
	}
	return gdb.Transaction(func(tx *gorm.DB) error {
		if err := UpsertMods(tx, mods); err != nil {
			return err
		}
		if game == nil {
			return nil
		}
		if err := db.LinkModsToGame(tx, game.ID, ModIDs(mods)); err != nil {
			return fmt.Errorf("failed to link mods to %s: %w", game.DomainName, err)
		}
		return nil
	})
}

// StoreFetchedMod stores one catalog mod and links it to game, which may be
// nil. Unpublished mods are normalized but never stored; stored reports
// whether the row was written.
func StoreFetchedMod(gdb *gorm.DB, game *db.Game, r nexus.ModRecord) (mod db.Mod, stored bool, err error) {
	mods := NormalizeMods([]nexus.ModRecord{r}, true)
	if len(mods) == 0 {
		return NormalizeMod(r), false, nil
	}
	if err := StoreModsForGame(gdb, game, mods); err != nil {
		return mods[0], false, err
	}
	return mods[0], true, nil
}
