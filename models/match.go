package models

// Stage names a phase of the tournament: the playoff phase, the group phase,
// one of the knockout rounds, or the final stage (final + third-place match).
type Stage string

const (
	StagePlayoffs      Stage = "playoffs"
	StageGroups        Stage = "groups"
	StageRoundOf32     Stage = "r32"
	StageRoundOf16     Stage = "r16"
	StageQuarterfinals Stage = "qf"
	StageSemifinals    Stage = "sf"
	StageFinal         Stage = "final"
)

// KnockoutStages lists the elimination rounds in play order, excluding the
// final stage which is generated together with the third-place match.
var KnockoutStages = []Stage{StageRoundOf32, StageRoundOf16, StageQuarterfinals, StageSemifinals}

// NextKnockoutStage returns the round that follows the given one.
// Advancing from the semifinals leads into the final stage.
func NextKnockoutStage(s Stage) (Stage, bool) {
	switch s {
	case StageRoundOf32:
		return StageRoundOf16, true
	case StageRoundOf16:
		return StageQuarterfinals, true
	case StageQuarterfinals:
		return StageSemifinals, true
	case StageSemifinals:
		return StageFinal, true
	}
	return "", false
}

// MatchRef is the canonical match identity used by every submission and lookup.
type MatchRef string

// Match is a single fixture. Scores are nil until a result has been recorded.
// Winner is only ever set on knockout matches (group matches may end level);
// PenaltyWinner is set when a knockout match finished level and was decided
// from the spot.
type Match struct {
	ID            MatchRef `json:"id"`
	Stage         Stage    `json:"stage"`
	Slot          string   `json:"slot"`
	Matchday      int      `json:"matchday,omitempty"` // group fixtures only, 1..3
	TeamA         string   `json:"team_a"`
	TeamB         string   `json:"team_b"`
	ScoreA        *int     `json:"score_a,omitempty"`
	ScoreB        *int     `json:"score_b,omitempty"`
	PenaltyWinner *string  `json:"penalty_winner,omitempty"`
	Winner        *string  `json:"winner,omitempty"`
	Played        bool     `json:"played"`
}

// IsKnockout reports whether the match is single-elimination, i.e. must
// produce a winner. Everything outside the group phase qualifies, including
// playoff fixtures and the third-place match.
func (m *Match) IsKnockout() bool {
	return m.Stage != StageGroups
}

// HasWinner reports whether a decisive outcome exists for the match.
func (m *Match) HasWinner() bool {
	return m.Played && m.Winner != nil && *m.Winner != ""
}

// Loser returns the defeated side of a decided knockout match.
func (m *Match) Loser() string {
	if !m.HasWinner() {
		return ""
	}
	if *m.Winner == m.TeamA {
		return m.TeamB
	}
	return m.TeamA
}

// HasTeams reports whether both slots of the match are bound to real teams.
// Knockout and playoff fixtures exist structurally before their pairings are
// known.
func (m *Match) HasTeams() bool {
	return m.TeamA != "" && m.TeamB != ""
}
