package fpl

// Wire types for the public FPL classic API. Stat fields that upstream
// serves as numeric strings stay strings here; Normalize converts them once.

type RawPlayer struct {
	ID                       int     `json:"id"`
	WebName                  string  `json:"web_name"`
	FirstName                string  `json:"first_name"`
	SecondName               string  `json:"second_name"`
	Team                     int     `json:"team"`
	TeamCode                 int     `json:"team_code"`
	ElementType              int     `json:"element_type"`
	NowCost                  int     `json:"now_cost"`
	CostChangeStart          int     `json:"cost_change_start"`
	SelectedByPercent        string  `json:"selected_by_percent"`
	Form                     string  `json:"form"`
	PointsPerGame            string  `json:"points_per_game"`
	TotalPoints              int     `json:"total_points"`
	Minutes                  int     `json:"minutes"`
	GoalsScored              int     `json:"goals_scored"`
	Assists                  int     `json:"assists"`
	CleanSheets              int     `json:"clean_sheets"`
	GoalsConceded            int     `json:"goals_conceded"`
	Saves                    int     `json:"saves"`
	Bonus                    int     `json:"bonus"`
	BPS                      int     `json:"bps"`
	Influence                string  `json:"influence"`
	Creativity               string  `json:"creativity"`
	Threat                   string  `json:"threat"`
	ICTIndex                 string  `json:"ict_index"`
	ExpectedGoals            string  `json:"expected_goals"`
	ExpectedAssists          string  `json:"expected_assists"`
	ExpectedGoalInvolvements string  `json:"expected_goal_involvements"`
	ExpectedGoalsConceded    string  `json:"expected_goals_conceded"`
	News                     string  `json:"news"`
	ChanceOfPlayingThisRound *int    `json:"chance_of_playing_this_round"`
	ChanceOfPlayingNextRound *int    `json:"chance_of_playing_next_round"`
	Status                   string  `json:"status"`
	EPThis                   *string `json:"ep_this"`
	EPNext                   *string `json:"ep_next"`
}

type Team struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	ShortName           string `json:"short_name"`
	Code                int    `json:"code"`
	Strength            int    `json:"strength"`
	StrengthOverallHome int    `json:"strength_overall_home"`
	StrengthOverallAway int    `json:"strength_overall_away"`
	StrengthAttackHome  int    `json:"strength_attack_home"`
	StrengthAttackAway  int    `json:"strength_attack_away"`
	StrengthDefenceHome int    `json:"strength_defence_home"`
	StrengthDefenceAway int    `json:"strength_defence_away"`
}

type ChipPlay struct {
	ChipName  string `json:"chip_name"`
	NumPlayed int    `json:"num_played"`
}

type Gameweek struct {
	ID                int        `json:"id"`
	Name              string     `json:"name"`
	DeadlineTime      string     `json:"deadline_time"`
	Finished          bool       `json:"finished"`
	IsCurrent         bool       `json:"is_current"`
	IsNext            bool       `json:"is_next"`
	IsPrevious        bool       `json:"is_previous"`
	AverageEntryScore int        `json:"average_entry_score"`
	HighestScore      int        `json:"highest_score"`
	ChipPlays         []ChipPlay `json:"chip_plays"`
}

type ElementType struct {
	ID           int    `json:"id"`
	SingularName string `json:"singular_name"`
	PluralName   string `json:"plural_name"`
}

type Bootstrap struct {
	Elements     []RawPlayer   `json:"elements"`
	Teams        []Team        `json:"teams"`
	Events       []Gameweek    `json:"events"`
	ElementTypes []ElementType `json:"element_types"`
}

type Fixture struct {
	ID              int     `json:"id"`
	Event           *int    `json:"event"`
	TeamH           int     `json:"team_h"`
	TeamA           int     `json:"team_a"`
	TeamHDifficulty int     `json:"team_h_difficulty"`
	TeamADifficulty int     `json:"team_a_difficulty"`
	Finished        bool    `json:"finished"`
	KickoffTime     *string `json:"kickoff_time"`
	TeamHScore      *int    `json:"team_h_score"`
	TeamAScore      *int    `json:"team_a_score"`
}

// GW returns the scheduled gameweek; ok is false for unscheduled fixtures.
func (f Fixture) GW() (int, bool) {
	if f.Event == nil {
		return 0, false
	}
	return *f.Event, true
}

// Involves reports whether teamID plays in the fixture.
func (f Fixture) Involves(teamID int) bool {
	return f.TeamH == teamID || f.TeamA == teamID
}

type Pick struct {
	Element       int  `json:"element"`
	Position      int  `json:"position"`
	Multiplier    int  `json:"multiplier"`
	IsCaptain     bool `json:"is_captain"`
	IsViceCaptain bool `json:"is_vice_captain"`
}

type AutomaticSub struct {
	ElementIn  int `json:"element_in"`
	ElementOut int `json:"element_out"`
}

type EventHistory struct {
	Event              int `json:"event"`
	Points             int `json:"points"`
	TotalPoints        int `json:"total_points"`
	Rank               int `json:"rank"`
	OverallRank        int `json:"overall_rank"`
	Bank               int `json:"bank"`
	Value              int `json:"value"`
	EventTransfers     int `json:"event_transfers"`
	EventTransfersCost int `json:"event_transfers_cost"`
	PointsOnBench      int `json:"points_on_bench"`
}

type TeamPicks struct {
	ActiveChip    *string        `json:"active_chip"`
	AutomaticSubs []AutomaticSub `json:"automatic_subs"`
	EntryHistory  EventHistory   `json:"entry_history"`
	Picks         []Pick         `json:"picks"`
}

type Entry struct {
	ID                         int    `json:"id"`
	PlayerFirstName            string `json:"player_first_name"`
	PlayerLastName             string `json:"player_last_name"`
	Name                       string `json:"name"`
	SummaryOverallPoints       int    `json:"summary_overall_points"`
	SummaryOverallRank         int    `json:"summary_overall_rank"`
	SummaryEventPoints         int    `json:"summary_event_points"`
	SummaryEventRank           int    `json:"summary_event_rank"`
	CurrentEvent               int    `json:"current_event"`
	StartedEvent               int    `json:"started_event"`
	FavouriteTeam              *int   `json:"favourite_team"`
	LastDeadlineBank           int    `json:"last_deadline_bank"`
	LastDeadlineValue          int    `json:"last_deadline_value"`
	LastDeadlineTotalTransfers int    `json:"last_deadline_total_transfers"`
}

type PastSeason struct {
	SeasonName  string `json:"season_name"`
	TotalPoints int    `json:"total_points"`
	Rank        int    `json:"rank"`
}

type ChipUsage struct {
	Name  string `json:"name"`
	Event int    `json:"event"`
	Time  string `json:"time"`
}

type EntryHistory struct {
	Current []EventHistory `json:"current"`
	Past    []PastSeason   `json:"past"`
	Chips   []ChipUsage    `json:"chips"`
}
