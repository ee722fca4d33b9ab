package ingest

import (
	"context"
	"errors"
	"fmt"

	"modlist-manager/db"
	"modlist-manager/nexus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type GameLister interface {
	ListGames(ctx context.Context) ([]nexus.GameRecord, error)
}

type ModLister interface {
	ListMods(ctx context.Context, domain string, category nexus.Category) ([]nexus.ModRecord, error)
}

// RefreshGames pulls the full game catalogue into the store and returns how
// many games were written.
func RefreshGames(ctx context.Context, catalog GameLister, gdb *gorm.DB, log *zap.SugaredLogger) (int, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	raw, err := catalog.ListGames(ctx)
	if err != nil {
		return 0, err
	}
	games := NormalizeGames(raw)
	if err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return UpsertGames(tx, games)
	}); err != nil {
		return 0, err
	}
	log.Infow("Refreshed games", zap.Int("received", len(raw)), zap.Int("stored", len(games)))
	return len(games), nil
}

// Section is one listing of a game page.
type Section struct {
	Category nexus.Category
	Title    string
	Mods     []db.Mod
	// Err marks a listing that could not be loaded; Mods is empty.
	Err bool
}

// GameSections loads every listing for game, persisting what it receives.
// A failed listing degrades to an empty section; only store failures are
// returned as errors.
func GameSections(ctx context.Context, catalog ModLister, gdb *gorm.DB, game *db.Game, log *zap.SugaredLogger) ([]Section, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	sections := make([]Section, 0, len(nexus.Categories))
	for _, cat := range nexus.Categories {
		section := Section{Category: cat, Title: cat.Title()}

		raw, err := catalog.ListMods(ctx, game.DomainName, cat)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warnw("Section unavailable", zap.String("game", game.DomainName), zap.String("category", string(cat)), zap.Error(err))
			section.Err = true
			sections = append(sections, section)
			continue
		}

		mods := NormalizeMods(raw, true)
		if err := StoreModsForGame(gdb.WithContext(ctx), game, mods); err != nil {
			return nil, fmt.Errorf("failed to store %s mods for %s: %w", cat, game.DomainName, err)
		}
		section.Mods = mods
		sections = append(sections, section)
	}
	return sections, nil
}

// LoadGame resolves a domain to a stored game, refreshing the catalogue once
// when the game is not known yet.
func LoadGame(ctx context.Context, catalog GameLister, gdb *gorm.DB, domain string, log *zap.SugaredLogger) (*db.Game, error) {
	game, err := db.GameByDomain(gdb, domain)
	if err == nil || !errors.Is(err, db.ErrGameNotFound) {
		return game, err
	}
	if _, err := RefreshGames(ctx, catalog, gdb, log); err != nil {
		return nil, err
	}
	return db.GameByDomain(gdb, domain)
}
