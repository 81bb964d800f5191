package hypixel

import (
	"encoding/json"
	"time"
)

// Class names tracked for the dungeon class average, in reporting order.
var ClassNames = []string{"healer", "mage", "berserk", "archer", "tank"}

// NoSelectedClass is the sentinel reported when a member never picked a
// dungeon class.
const NoSelectedClass = "None"

type profilesResponse struct {
	Success  bool       `json:"success"`
	Profiles []*Profile `json:"profiles"`
}

// Profile is one save-profile snapshot. Member payloads stay raw so the
// networth appraiser receives them untouched.
type Profile struct {
	ProfileID string                     `json:"profile_id"`
	Selected  bool                       `json:"selected"`
	Members   map[string]json.RawMessage `json:"members"`
	Banking   *Banking                   `json:"banking"`
}

type Banking struct {
	Balance float64 `json:"balance"`
}

// Member is the subset of a profile member this gateway derives stats from.
type Member struct {
	Leveling *struct {
		Experience float64 `json:"experience"`
	} `json:"leveling"`
	Dungeons *Dungeons `json:"dungeons"`
}

type Dungeons struct {
	DungeonTypes  map[string]DungeonType `json:"dungeon_types"`
	PlayerClasses map[string]struct {
		Experience float64 `json:"experience"`
	} `json:"player_classes"`
	SelectedClass string  `json:"selected_dungeon_class"`
	Secrets       float64 `json:"secrets"`
}

type DungeonType struct {
	Experience       float64            `json:"experience"`
	TierCompletions  map[string]float64 `json:"tier_completions"`
	FastestTimeSPlus map[string]float64 `json:"fastest_time_s_plus"`
}

type playerResponse struct {
	Success bool `json:"success"`
	Player  *struct {
		SocialMedia *struct {
			Links map[string]string `json:"links"`
		} `json:"socialMedia"`
	} `json:"player"`
}

type museumResponse struct {
	Museum struct {
		Members map[string]json.RawMessage `json:"members"`
	} `json:"museum"`
}

// MasterTier is the master-mode tier-7 record. BestTime is nil when the
// player has no recorded completion time.
type MasterTier struct {
	BestTime    *time.Duration
	Completions int
}

type DungeonStats struct {
	CatacombsLevel     float64
	ClassLevels        map[string]float64
	SelectedClass      string
	SelectedClassLevel float64
	ClassAverage       float64
	SecretsFound       int
	MasterSeven        MasterTier
}

// SkyBlockStats is the aggregate the stats and check commands report.
type SkyBlockStats struct {
	OverallLevel float64
	Dungeons     DungeonStats
	Networth     float64
}
