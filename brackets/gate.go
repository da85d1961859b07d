package brackets

import (
	"github.com/footylab/prediction-engine/models"
)

// StageComplete is the gate that must pass before a stage can be advanced.
// It is a pure predicate over the snapshot and safe to call repeatedly.
func StageComplete(s *models.TournamentState, stage models.Stage) bool {
	switch stage {
	case models.StagePlayoffs:
		for _, b := range s.Playoffs {
			if b.Final == nil || !b.Final.HasWinner() {
				return false
			}
		}
		return true

	case models.StageGroups:
		for _, g := range s.Groups {
			for _, m := range g.Matches {
				if !m.Played {
					return false
				}
			}
		}
		return len(s.Groups) > 0

	case models.StageRoundOf32, models.StageRoundOf16, models.StageQuarterfinals, models.StageSemifinals:
		round := s.Knockouts[stage]
		if len(round) == 0 {
			return false
		}
		for _, m := range round {
			if !m.HasWinner() {
				return false
			}
		}
		return true

	case models.StageFinal:
		return s.Final != nil && s.Final.HasWinner() &&
			s.ThirdPlace != nil && s.ThirdPlace.HasWinner()
	}
	return false
}

// MatchdayComplete reports whether every fixture scheduled for the given
// matchday has been played across all groups.
func MatchdayComplete(s *models.TournamentState, matchday int) bool {
	found := false
	for _, g := range s.Groups {
		for _, m := range g.Matches {
			if m.Matchday != matchday {
				continue
			}
			found = true
			if !m.Played {
				return false
			}
		}
	}
	return found
}

// playoffRoundComplete reports whether every match of one playoff bracket
// round has been decided.
func playoffRoundComplete(round []*models.Match) bool {
	if len(round) == 0 {
		return false
	}
	for _, m := range round {
		if !m.HasWinner() {
			return false
		}
	}
	return true
}
