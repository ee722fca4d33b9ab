package modlists

import (
	"errors"

	"modlist-manager/db"

	"gorm.io/gorm"
)

// Candidates partitions a user's modlists for the "add to modlist" picker.
type Candidates struct {
	// Containing already hold the mod.
	Containing []db.Modlist
	// Unassigned have no game yet, so any mod fits.
	Unassigned []db.Modlist
	// Scoped share a game with the mod.
	Scoped []db.Modlist
}

// GetCandidates returns the user's modlists the mod could be added to, plus the
// ones already holding it. The tracked modlist is never offered.
func GetCandidates(gdb *gorm.DB, userID, modID int) (*Candidates, error) {
	if _, err := db.ModByID(gdb, modID); err != nil {
		return nil, err
	}

	var lists []db.Modlist
	err := gdb.Preload("Games").
		Where("user_id = ? AND name <> ?", userID, db.TrackedModlistName).
		Order("last_updated DESC").Order("id").
		Find(&lists).Error
	if err != nil {
		return nil, err
	}

	var containing []int
	if err := gdb.Table("modlist_mod").Where("mod_id = ?", modID).Pluck("modlist_id", &containing).Error; err != nil {
		return nil, err
	}
	modGames, err := db.GameIDsForMod(gdb, modID)
	if err != nil {
		return nil, err
	}
	holds := make(map[int]struct{}, len(containing))
	for _, id := range containing {
		holds[id] = struct{}{}
	}
	gameSet := make(map[int]struct{}, len(modGames))
	for _, id := range modGames {
		gameSet[id] = struct{}{}
	}

	c := &Candidates{}
	for _, ml := range lists {
		if _, ok := holds[ml.ID]; ok {
			c.Containing = append(c.Containing, ml)
			continue
		}
		if len(ml.Games) == 0 {
			c.Unassigned = append(c.Unassigned, ml)
			continue
		}
		for _, g := range ml.Games {
			if _, ok := gameSet[g.ID]; ok {
				c.Scoped = append(c.Scoped, ml)
				break
			}
		}
	}
	return c, nil
}

// Get loads a modlist with its games and mods. Private modlists are only
// visible to their owner.
func Get(gdb *gorm.DB, viewerID, modlistID int) (*db.Modlist, error) {
	var ml db.Modlist
	err := gdb.
		Preload("Games", func(tx *gorm.DB) *gorm.DB { return tx.Order("games.name") }).
		Preload("Mods", func(tx *gorm.DB) *gorm.DB { return tx.Order("mods.updated_timestamp DESC") }).
		First(&ml, modlistID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if ml.Private && ml.UserID != viewerID {
		return nil, ErrNotFound
	}
	return &ml, nil
}

// ListForUser returns ownerID's modlists as seen by viewerID, most recently
// updated first.
func ListForUser(gdb *gorm.DB, ownerID, viewerID int) ([]db.Modlist, error) {
	q := gdb.Preload("Games", func(tx *gorm.DB) *gorm.DB { return tx.Order("games.name") }).
		Where("user_id = ?", ownerID)
	if ownerID != viewerID {
		q = q.Where("private = ?", false)
	}
	var lists []db.Modlist
	err := q.Order("last_updated DESC").Order("id").Find(&lists).Error
	return lists, err
}

// FindByName resolves one of the user's modlists by name.
func FindByName(gdb *gorm.DB, userID int, name string) (*db.Modlist, error) {
	var ml db.Modlist
	err := gdb.Where("user_id = ? AND name = ?", userID, name).First(&ml).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ml, nil
}
