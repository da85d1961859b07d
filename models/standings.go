package models

// StandingRow is one line of a group table. Rows are derived from a group's
// played matches on demand and never stored.
type StandingRow struct {
	Team           string `json:"team"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
}

// ThirdPlaceRow is a group's third-ranked row tagged with its group, used for
// the cross-group ranking that fills the last round-of-32 slots.
type ThirdPlaceRow struct {
	Group string      `json:"group"`
	Row   StandingRow `json:"row"`
}
