package brackets

import (
	"errors"
	"testing"

	"github.com/footylab/prediction-engine/models"
)

func validBaseState(t *testing.T) *models.TournamentState {
	t.Helper()
	s := &models.TournamentState{
		ID:    "t1",
		Phase: models.PhaseGroups,
		Groups: []*models.Group{
			newTestGroup("A", "W", "X", "Y", "Z"),
		},
		Knockouts: make(map[models.Stage]models.KnockoutRound),
		Closed:    make(map[models.Stage]bool),
	}
	return s
}

func TestValidateStateAcceptsFreshState(t *testing.T) {
	if err := ValidateState(validBaseState(t)); err != nil {
		t.Errorf("ValidateState: %v", err)
	}
}

func TestValidateStateRejectsTampering(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *models.TournamentState)
	}{
		{"unknown phase", func(s *models.TournamentState) {
			s.Phase = "halftime"
		}},
		{"duplicate match id", func(s *models.TournamentState) {
			s.Groups[0].Matches[1].ID = s.Groups[0].Matches[0].ID
		}},
		{"wrong team count", func(s *models.TournamentState) {
			s.Groups[0].Teams = s.Groups[0].Teams[:3]
		}},
		{"duplicate team", func(s *models.TournamentState) {
			s.Groups[0].Teams[1] = s.Groups[0].Teams[0]
		}},
		{"fixture names outsider", func(s *models.TournamentState) {
			s.Groups[0].Matches[0].TeamA = "Atlantis"
		}},
		{"matchday out of range", func(s *models.TournamentState) {
			s.Groups[0].Matches[0].Matchday = 7
		}},
		{"negative score", func(s *models.TournamentState) {
			bad := -1
			s.Groups[0].Matches[0].ScoreA = &bad
		}},
		{"played match without score", func(s *models.TournamentState) {
			s.Groups[0].Matches[0].Played = true
		}},
		{"unplayed match with winner", func(s *models.TournamentState) {
			w := "W"
			s.Groups[0].Matches[0].Winner = &w
		}},
		{"knockout round without closed groups", func(s *models.TournamentState) {
			s.Knockouts[models.StageRoundOf32] = make(models.KnockoutRound, 16)
			for i := range s.Knockouts[models.StageRoundOf32] {
				s.Knockouts[models.StageRoundOf32][i] = &models.Match{
					ID:    models.MatchRef(rune('a' + i)),
					Stage: models.StageRoundOf32,
				}
			}
		}},
		{"champion without a final", func(s *models.TournamentState) {
			s.Phase = models.PhaseComplete
			s.Champion = "W"
		}},
		{"final without third place", func(s *models.TournamentState) {
			s.Closed[models.StageSemifinals] = true
			s.Final = &models.Match{ID: "FINAL", Stage: models.StageFinal, TeamA: "W", TeamB: "X"}
		}},
		{"winner contradicts score", func(s *models.TournamentState) {
			two, one := 2, 1
			loser := "X"
			s.Closed[models.StageSemifinals] = true
			s.Final = &models.Match{ID: "FINAL", Stage: models.StageFinal, TeamA: "W", TeamB: "X",
				ScoreA: &two, ScoreB: &one, Winner: &loser, Played: true}
			s.ThirdPlace = &models.Match{ID: "THIRD_PLACE", Stage: models.StageFinal, TeamA: "Y", TeamB: "Z"}
		}},
		{"final mislabeled as group match", func(s *models.TournamentState) {
			// A final carrying the group stage tag would dodge the knockout
			// penalty rules on submission.
			s.Closed[models.StageSemifinals] = true
			s.Final = &models.Match{ID: "FINAL", Stage: models.StageGroups, TeamA: "W", TeamB: "X"}
			s.ThirdPlace = &models.Match{ID: "THIRD_PLACE", Stage: models.StageFinal, TeamA: "Y", TeamB: "Z"}
		}},
		{"third place mislabeled", func(s *models.TournamentState) {
			s.Closed[models.StageSemifinals] = true
			s.Final = &models.Match{ID: "FINAL", Stage: models.StageFinal, TeamA: "W", TeamB: "X"}
			s.ThirdPlace = &models.Match{ID: "THIRD_PLACE", Stage: models.StageSemifinals, TeamA: "Y", TeamB: "Z"}
		}},
		{"playoff with a single semifinal", func(s *models.TournamentState) {
			s.Phase = models.PhasePlayoffs
			s.Playoffs = []*models.PlayoffBracket{{
				Key:      "UEFA_Playoff_A",
				SlotName: "UEFA Playoff A",
				Semifinals: []*models.Match{
					{ID: "UPA-SF1", Stage: models.StagePlayoffs, TeamA: "Italy", TeamB: "Wales"},
				},
				Final: &models.Match{ID: "UPA-F", Stage: models.StagePlayoffs},
			}}
		}},
		{"playoff mixing both shapes", func(s *models.TournamentState) {
			s.Phase = models.PhasePlayoffs
			s.Playoffs = []*models.PlayoffBracket{{
				Key:      "FIFA_Playoff_1",
				SlotName: "FIFA Playoff 1",
				Round1: []*models.Match{
					{ID: "FP1-R1", Stage: models.StagePlayoffs, TeamA: "Bolivia", TeamB: "Suriname"},
				},
				Semifinals: []*models.Match{
					{ID: "FP1-SF1", Stage: models.StagePlayoffs, TeamA: "Italy", TeamB: "Wales"},
					{ID: "FP1-SF2", Stage: models.StagePlayoffs, TeamA: "Poland", TeamB: "Ukraine"},
				},
				Final: &models.Match{ID: "FP1-F", Stage: models.StagePlayoffs, TeamB: "Iraq"},
			}}
		}},
		{"playoff with only a final", func(s *models.TournamentState) {
			s.Phase = models.PhasePlayoffs
			s.Playoffs = []*models.PlayoffBracket{{
				Key:      "FIFA_Playoff_1",
				SlotName: "FIFA Playoff 1",
				Final:    &models.Match{ID: "FP1-F", Stage: models.StagePlayoffs, TeamA: "Bolivia", TeamB: "Iraq"},
			}}
		}},
		{"level knockout without penalty winner", func(s *models.TournamentState) {
			one := 1
			w := "W"
			s.Closed[models.StageSemifinals] = true
			s.Final = &models.Match{ID: "FINAL", Stage: models.StageFinal, TeamA: "W", TeamB: "X",
				ScoreA: &one, ScoreB: &one, Winner: &w, Played: true}
			s.ThirdPlace = &models.Match{ID: "THIRD_PLACE", Stage: models.StageFinal, TeamA: "Y", TeamB: "Z"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validBaseState(t)
			tt.mutate(s)
			if err := ValidateState(s); !errors.Is(err, ErrMalformedState) {
				t.Errorf("got %v, want ErrMalformedState", err)
			}
		})
	}
}
