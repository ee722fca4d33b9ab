package db

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrModNotFound  = errors.New("mod not found")
)

// AllGames returns every stored game, most downloaded first.
func AllGames(gdb *gorm.DB) ([]Game, error) {
	var games []Game
	err := gdb.Order("downloads DESC").Order("id").Find(&games).Error
	return games, err
}

func GameByDomain(gdb *gorm.DB, domain string) (*Game, error) {
	var game Game
	err := gdb.Where("domain_name = ?", domain).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// ModByID loads a mod with its games.
func ModByID(gdb *gorm.DB, id int) (*Mod, error) {
	var mod Mod
	err := gdb.Preload("Games").First(&mod, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrModNotFound
	}
	if err != nil {
		return nil, err
	}
	return &mod, nil
}

// ExistingModIDs returns the subset of ids present in the mods table.
func ExistingModIDs(gdb *gorm.DB, ids []int) ([]int, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []int
	err := gdb.Model(&Mod{}).Where("id IN ?", ids).Order("id").Pluck("id", &found).Error
	return found, err
}
