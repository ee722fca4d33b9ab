package nexus

// StatusPublished is the only mod status ingested into the store.
const StatusPublished = "published"

// Category selects one of the per-game mod listings.
type Category string

const (
	Trending      Category = "trending"
	LatestAdded   Category = "latest_added"
	LatestUpdated Category = "latest_updated"
)

// Categories lists every listing in display order.
var Categories = []Category{Trending, LatestAdded, LatestUpdated}

func (c Category) Valid() bool {
	switch c {
	case Trending, LatestAdded, LatestUpdated:
		return true
	}
	return false
}

// Title is the heading shown above the listing.
func (c Category) Title() string {
	switch c {
	case Trending:
		return "Trending Mods"
	case LatestAdded:
		return "Latest Added Mods"
	case LatestUpdated:
		return "Latest Updated Mods"
	}
	return string(c)
}

type EndorseAction string

const (
	Endorse EndorseAction = "endorse"
	Abstain EndorseAction = "abstain"
)

type TrackAction int

const (
	Track TrackAction = iota
	Untrack
)

func (a TrackAction) String() string {
	if a == Untrack {
		return "untrack"
	}
	return "track"
}

// GameRecord is a game as returned by /v1/games.json.
type GameRecord struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	DomainName   string `json:"domain_name"`
	Downloads    int64  `json:"downloads"`
	Genre        string `json:"genre"`
	FileCount    int64  `json:"file_count"`
	Mods         int64  `json:"mods"`
	NexusmodsURL string `json:"nexusmods_url"`
}

// ModRecord is a mod as returned by the listing endpoints.
type ModRecord struct {
	ModID                int     `json:"mod_id"`
	GameID               int     `json:"game_id"`
	DomainName           string  `json:"domain_name"`
	Name                 string  `json:"name"`
	Summary              string  `json:"summary"`
	PictureURL           *string `json:"picture_url"`
	Version              string  `json:"version"`
	Author               string  `json:"author"`
	UploadedBy           string  `json:"uploaded_by"`
	UpdatedTimestamp     int64   `json:"updated_timestamp"`
	CreatedTimestamp     int64   `json:"created_timestamp"`
	ContainsAdultContent bool    `json:"contains_adult_content"`
	Status               string  `json:"status"`
	Available            bool    `json:"available"`
	EndorsementCount     int     `json:"endorsement_count"`
}

func (r ModRecord) Published() bool {
	return r.Status == StatusPublished
}

// Endorsement is the calling user's endorsement state for a mod.
type Endorsement struct {
	EndorseStatus string `json:"endorse_status"`
	Version       string `json:"version"`
}

// ModDetailRecord is the single-mod response, which adds user-scoped fields.
type ModDetailRecord struct {
	ModRecord
	Description string       `json:"description"`
	Endorsement *Endorsement `json:"endorsement"`
}

// TrackedModRef identifies one entry of the user's Tracking Centre.
type TrackedModRef struct {
	ModID      int    `json:"mod_id"`
	DomainName string `json:"domain_name"`
}
