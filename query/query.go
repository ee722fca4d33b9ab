package query

import (
	"strings"

	"modlist-manager/db"

	"gorm.io/gorm"
)

const DefaultPageSize = 20

type Order int

const (
	OrderRecent Order = iota
	OrderName
	OrderAuthor
)

// ParseOrder maps a flag value to an Order. Unknown values sort by recency.
func ParseOrder(s string) Order {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "alpha":
		return OrderName
	case "author", "uploader":
		return OrderAuthor
	}
	return OrderRecent
}

func (o Order) String() string {
	switch o {
	case OrderName:
		return "name"
	case OrderAuthor:
		return "author"
	}
	return "recent"
}

// Scope orders mods; ties fall back to id so pages are stable.
func (o Order) Scope() func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		switch o {
		case OrderName:
			tx = tx.Order("LOWER(mods.name) ASC")
		case OrderAuthor:
			tx = tx.Order("LOWER(mods.uploaded_by) ASC").Order("mods.updated_timestamp DESC")
		default:
			tx = tx.Order("mods.updated_timestamp DESC")
		}
		return tx.Order("mods.id ASC")
	}
}

// Page selects a window of results. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

func (p Page) normalized() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	return p
}

func (p Page) offset() int {
	return (p.Number - 1) * p.Size
}

// Paginate is a gorm scope applying the page window.
func Paginate(page Page) func(*gorm.DB) *gorm.DB {
	p := page.normalized()
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Offset(p.offset()).Limit(p.Size)
	}
}

type PageResult[T any] struct {
	Items   []T
	Number  int
	Size    int
	Total   int64
	HasNext bool
}

// ModsPage orders and windows base, which must select from mods. A page past
// the end yields no items.
func ModsPage(base *gorm.DB, order Order, page Page) (*PageResult[db.Mod], error) {
	p := page.normalized()
	q := base.Model(&db.Mod{}).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	items := []db.Mod{}
	if err := q.Scopes(order.Scope(), Paginate(p)).Find(&items).Error; err != nil {
		return nil, err
	}
	return &PageResult[db.Mod]{
		Items:   items,
		Number:  p.Number,
		Size:    p.Size,
		Total:   total,
		HasNext: int64(p.offset()+len(items)) < total,
	}, nil
}

// ModlistMods selects the members of a modlist.
func ModlistMods(gdb *gorm.DB, modlistID int) *gorm.DB {
	return gdb.Model(&db.Mod{}).
		Joins("JOIN modlist_mod ON modlist_mod.mod_id = mods.id").
		Where("modlist_mod.modlist_id = ?", modlistID)
}

// GameMods selects the stored mods of a game.
func GameMods(gdb *gorm.DB, gameID int) *gorm.DB {
	return gdb.Model(&db.Mod{}).
		Joins("JOIN game_mod ON game_mod.mod_id = mods.id").
		Where("game_mod.game_id = ?", gameID)
}

// HideNSFW drops adult mods when hide is set.
func HideNSFW(hide bool) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if !hide {
			return tx
		}
		return tx.Where("mods.is_nsfw = ?", false)
	}
}

// GameGroup is a set of modlists sharing their first game.
type GameGroup struct {
	// Game is nil for modlists without any game.
	Game       *db.Game
	Modlists   []db.Modlist
	AllPrivate bool
}

// GroupByGame groups modlists by their first associated game, keeping the
// order in which games first appear. Modlists without a game come last.
func GroupByGame(lists []db.Modlist) []GameGroup {
	var groups []GameGroup
	index := make(map[int]int)
	var unassigned *GameGroup

	for _, ml := range lists {
		var g *GameGroup
		if len(ml.Games) == 0 {
			if unassigned == nil {
				unassigned = &GameGroup{AllPrivate: true}
			}
			g = unassigned
		} else {
			game := ml.Games[0]
			i, ok := index[game.ID]
			if !ok {
				i = len(groups)
				index[game.ID] = i
				groups = append(groups, GameGroup{Game: &game, AllPrivate: true})
			}
			g = &groups[i]
		}
		g.Modlists = append(g.Modlists, ml)
		if !ml.Private {
			g.AllPrivate = false
		}
	}

	if unassigned != nil {
		groups = append(groups, *unassigned)
	}
	return groups
}
