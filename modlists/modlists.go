package modlists

import (
	"errors"
	"strings"
	"time"

	"modlist-manager/db"

	"gorm.io/gorm"
)

var (
	ErrDuplicateName = errors.New("you already have a modlist with that name")
	ErrProtected     = errors.New("this modlist is managed automatically and cannot be changed")
	ErrNotOwner      = errors.New("this modlist belongs to another user")
	ErrNotFound      = errors.New("modlist not found")
	ErrAlreadyMember = errors.New("mod is already in this modlist")
	ErrNotMember     = errors.New("mod is not in this modlist")
	ErrInvalidName   = errors.New("modlist name must not be empty")
)

// timeNow is replaced in tests.
var timeNow = time.Now

// Create adds a modlist owned by userID.
func Create(gdb *gorm.DB, userID int, name string, description *string, private bool) (*db.Modlist, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	ml := &db.Modlist{
		Name:        name,
		Description: cleanDescription(description),
		Private:     private,
		UserID:      userID,
		LastUpdated: timeNow().UTC(),
	}
	err = gdb.Transaction(func(tx *gorm.DB) error {
		taken, err := nameTaken(tx, userID, name, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateName
		}
		return translate(tx.Create(ml).Error)
	})
	if err != nil {
		return nil, err
	}
	return ml, nil
}

// Edit replaces the name, description and visibility of a modlist.
func Edit(gdb *gorm.DB, userID, modlistID int, name string, description *string, private bool) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	return gdb.Transaction(func(tx *gorm.DB) error {
		ml, err := loadOwned(tx, userID, modlistID)
		if err != nil {
			return err
		}
		taken, err := nameTaken(tx, userID, name, ml.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateName
		}
		return translate(tx.Model(&db.Modlist{}).Where("id = ?", ml.ID).Updates(map[string]any{
			"name":        name,
			"description": cleanDescription(description),
			"private":     private,
		}).Error)
	})
}

// Delete removes a modlist and its association rows.
func Delete(gdb *gorm.DB, userID, modlistID int) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		ml, err := loadOwned(tx, userID, modlistID)
		if err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM modlist_mod WHERE modlist_id = ?", ml.ID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM game_modlist WHERE modlist_id = ?", ml.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Modlist{}, ml.ID).Error
	})
}

// AddMod appends a mod, raising has_nsfw and assigning the mod's games.
func AddMod(gdb *gorm.DB, userID, modlistID, modID int) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		ml, err := loadOwned(tx, userID, modlistID)
		if err != nil {
			return err
		}
		if _, err := db.ModByID(tx, modID); err != nil {
			return err
		}
		member, err := db.IsMember(tx, ml.ID, modID)
		if err != nil {
			return err
		}
		if member {
			return ErrAlreadyMember
		}

		ids := []int{modID}
		if err := db.AddMembers(tx, ml.ID, ids); err != nil {
			return err
		}
		if _, err := db.MarkNSFWIfAny(tx, ml.ID, ids); err != nil {
			return err
		}
		if err := db.AssignGamesForMods(tx, ml.ID, ids); err != nil {
			return err
		}
		return db.TouchModlist(tx, ml.ID, timeNow())
	})
}

// RemoveMod drops a mod and any game no remaining member belongs to.
// has_nsfw is left as is.
func RemoveMod(gdb *gorm.DB, userID, modlistID, modID int) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		ml, err := loadOwned(tx, userID, modlistID)
		if err != nil {
			return err
		}
		member, err := db.IsMember(tx, ml.ID, modID)
		if err != nil {
			return err
		}
		if !member {
			return ErrNotMember
		}
		if err := db.RemoveMembers(tx, ml.ID, []int{modID}); err != nil {
			return err
		}
		if err := db.RetractOrphanedGames(tx, ml.ID); err != nil {
			return err
		}
		return db.TouchModlist(tx, ml.ID, timeNow())
	})
}

// loadOwned returns a user-editable modlist or the reason it is not one.
func loadOwned(tx *gorm.DB, userID, modlistID int) (*db.Modlist, error) {
	var ml db.Modlist
	err := tx.First(&ml, modlistID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if ml.UserID != userID {
		return nil, ErrNotOwner
	}
	if ml.IsTracked() {
		return nil, ErrProtected
	}
	return &ml, nil
}

func nameTaken(tx *gorm.DB, userID int, name string, exceptID int) (bool, error) {
	if db.IsReservedName(name) {
		return true, nil
	}
	var count int64
	q := tx.Model(&db.Modlist{}).Where("user_id = ? AND name = ?", userID, name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// translate maps a unique-index race to ErrDuplicateName.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateName
	}
	return err
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}

func cleanDescription(desc *string) *string {
	if desc == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*desc)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
