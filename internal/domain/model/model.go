// Package model contains domain models passed between layers.
package model

// PlayerStanding is a player's current progression snapshot as read from
// the standings store. The ranking core never writes these.
type PlayerStanding struct {
	CharacterID   string // stable, unique character identifier
	UserID        string // owning user identity
	CharacterName string
	Username      string
	Level         int // level tier, starts at 1
	XP            int
}

// LevelInfo holds display metadata for a level tier. Tiers are not
// guaranteed contiguous, so lookups by order level may miss.
type LevelInfo struct {
	ID         string
	OrderLevel int
	Name       string
	Title      string
}

// RankingResult is one hydrated leaderboard row in a query response.
type RankingResult struct {
	Position      int    `json:"position"`
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	CharacterName string `json:"character_name"`
	Level         int    `json:"level"`
	XP            int    `json:"xp"`
	LevelName     string `json:"level_name"`
	LevelTitle    string `json:"level_title"`
	IsMe          bool   `json:"is_me"`
}

// Page is a paginated ranking response. TotalElements reflects the cached
// scope size at read time, not the number of hydrated rows.
type Page struct {
	Content       []RankingResult `json:"content"`
	TotalElements int             `json:"total_elements"`
	Offset        int             `json:"offset"`
	Limit         int             `json:"limit"`
}

// MyRanking summarizes the caller's own position on the global leaderboard.
type MyRanking struct {
	Position      int     `json:"position"`
	TotalPlayers  int     `json:"total_players"`
	Percentile    float64 `json:"percentile"`
	CharacterName string  `json:"character_name"`
	Level         int     `json:"level"`
	XP            int     `json:"xp"`
	LevelName     string  `json:"level_name"`
	LevelTitle    string  `json:"level_title"`
}
