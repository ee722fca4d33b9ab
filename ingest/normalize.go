package ingest

import (
	"strings"

	"modlist-manager/db"
	"modlist-manager/nexus"
)

// NormalizeGames maps catalog games to rows, skipping records without an id
// or domain.
func NormalizeGames(raw []nexus.GameRecord) []db.Game {
	games := make([]db.Game, 0, len(raw))
	seen := make(map[int]struct{}, len(raw))
	for _, r := range raw {
		if r.ID == 0 || r.DomainName == "" {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		games = append(games, db.Game{
			ID:         r.ID,
			DomainName: r.DomainName,
			Name:       r.Name,
			Downloads:  r.Downloads,
		})
	}
	return games
}

// NormalizeMods maps catalog mods to rows. With requirePublished set,
// anything not in the published state is dropped. A missing picture is
// replaced by db.DefaultPictureURL.
func NormalizeMods(raw []nexus.ModRecord, requirePublished bool) []db.Mod {
	mods := make([]db.Mod, 0, len(raw))
	seen := make(map[int]struct{}, len(raw))
	for _, r := range raw {
		if r.ModID == 0 {
			continue
		}
		if requirePublished && !r.Published() {
			continue
		}
		if _, dup := seen[r.ModID]; dup {
			continue
		}
		seen[r.ModID] = struct{}{}
		mods = append(mods, NormalizeMod(r))
	}
	return mods
}

func NormalizeMod(r nexus.ModRecord) db.Mod {
	picture := db.DefaultPictureURL
	if r.PictureURL != nil && strings.TrimSpace(*r.PictureURL) != "" {
		picture = *r.PictureURL
	}
	uploader := r.UploadedBy
	if uploader == "" {
		uploader = r.Author
	}
	return db.Mod{
		ID:               r.ModID,
		Name:             r.Name,
		Summary:          r.Summary,
		IsNSFW:           r.ContainsAdultContent,
		PictureURL:       picture,
		UpdatedTimestamp: r.UpdatedTimestamp,
		UploadedBy:       uploader,
	}
}

// ModIDs returns the ids of mods in order.
func ModIDs(mods []db.Mod) []int {
	ids := make([]int, len(mods))
	for i, m := range mods {
		ids[i] = m.ID
	}
	return ids
}
