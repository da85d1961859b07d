package brackets

import (
	"fmt"
	"strings"

	"github.com/footylab/prediction-engine/models"
)

// ResolvePlayoffs reads every playoff bracket's final winner and binds it to
// its designated group slot, replacing the placeholder in the group's team
// list and in every fixture that references it. The playoff phase closes on
// success: its matches become immutable.
func ResolvePlayoffs(s *models.TournamentState) error {
	if s.Closed[models.StagePlayoffs] {
		return fmt.Errorf("%w: playoffs already resolved", ErrStageClosed)
	}

	winners := make(map[string]string, 2*len(s.Playoffs))
	for _, b := range s.Playoffs {
		if b.Final == nil || !b.Final.HasWinner() {
			return fmt.Errorf("%w: %s final is unplayed", ErrIncompletePlayoff, b.Key)
		}
		winners[b.SlotName] = *b.Final.Winner
		winners[b.Key] = *b.Final.Winner
	}

	for _, g := range s.Groups {
		for i, team := range g.Teams {
			if bound, ok := winners[team]; ok {
				g.Teams[i] = bound
			}
		}
		for _, m := range g.Matches {
			if bound, ok := winners[m.TeamA]; ok {
				m.TeamA = bound
			}
			if bound, ok := winners[m.TeamB]; ok {
				m.TeamB = bound
			}
		}
	}

	s.Closed[models.StagePlayoffs] = true
	s.Phase = models.PhaseGroups
	return nil
}

// GenerateRoundOf32 selects each group's top two plus the best eight
// third-placed teams and pairs them per the seeding table. Requires every
// group fixture to be played; the group stage closes on success
// (close-on-generate), so group results become immutable.
func GenerateRoundOf32(s *models.TournamentState, table SeedingTable) error {
	if s.Closed[models.StageGroups] || len(s.Knockouts[models.StageRoundOf32]) > 0 {
		return fmt.Errorf("%w: round of 32 already generated", ErrStageClosed)
	}
	if len(s.Playoffs) > 0 && !s.Closed[models.StagePlayoffs] {
		return fmt.Errorf("%w: playoffs must be resolved before the group stage closes", ErrIncompletePlayoff)
	}
	for _, g := range s.Groups {
		for _, m := range g.Matches {
			if !m.Played {
				return fmt.Errorf("%w: group %s match %s is unplayed", ErrGroupStageIncomplete, g.ID, m.ID)
			}
		}
	}
	if len(table) == 0 {
		table = DefaultSeedingTable()
	}

	src := newSeedSources(s.Groups)
	round := make(models.KnockoutRound, 0, len(table))
	seen := make(map[string]bool, 2*len(table))
	for _, rule := range table {
		teamA, teamB, err := src.pair(rule)
		if err != nil {
			return err
		}
		if seen[teamA] || seen[teamB] || teamA == teamB {
			return fmt.Errorf("%w: seeding table assigns %q/%q more than once", ErrMalformedState, teamA, teamB)
		}
		seen[teamA] = true
		seen[teamB] = true
		round = append(round, &models.Match{
			ID:    models.MatchRef(rule.Slot),
			Stage: models.StageRoundOf32,
			Slot:  rule.Slot,
			TeamA: teamA,
			TeamB: teamB,
		})
	}

	s.Knockouts[models.StageRoundOf32] = round
	s.Closed[models.StageGroups] = true
	s.Phase = models.PhaseKnockouts
	return nil
}

// GenerateNextRound consumes a completed knockout round and appends its
// successor, pairing adjacent winners in bracket order. Advancing from the
// semifinals produces the final (winners) and the third-place match (losers)
// together. The source round closes on success.
func GenerateNextRound(s *models.TournamentState, from models.Stage) error {
	next, ok := models.NextKnockoutStage(from)
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidStage, from)
	}
	if s.Closed[from] {
		return fmt.Errorf("%w: %s already consumed", ErrStageClosed, from)
	}

	round := s.Knockouts[from]
	if len(round) == 0 {
		return fmt.Errorf("%w: %s has not been generated", ErrRoundIncomplete, from)
	}
	winners := make([]string, 0, len(round))
	losers := make([]string, 0, len(round))
	for _, m := range round {
		if !m.HasWinner() {
			return fmt.Errorf("%w: match %s has no winner", ErrRoundIncomplete, m.ID)
		}
		winners = append(winners, *m.Winner)
		losers = append(losers, m.Loser())
	}
	if len(winners)%2 != 0 {
		return fmt.Errorf("%w: odd number of winners in %s", ErrMalformedState, from)
	}

	if from == models.StageSemifinals {
		if s.Final != nil {
			return fmt.Errorf("%w: final stage already generated", ErrStageClosed)
		}
		s.Final = &models.Match{
			ID:    "FINAL",
			Stage: models.StageFinal,
			Slot:  "FINAL",
			TeamA: winners[0],
			TeamB: winners[1],
		}
		s.ThirdPlace = &models.Match{
			ID:    "THIRD_PLACE",
			Stage: models.StageFinal,
			Slot:  "THIRD_PLACE",
			TeamA: losers[0],
			TeamB: losers[1],
		}
	} else {
		if len(s.Knockouts[next]) > 0 {
			return fmt.Errorf("%w: %s already generated", ErrStageClosed, next)
		}
		prefix := strings.ToUpper(string(next))
		nextRound := make(models.KnockoutRound, 0, len(winners)/2)
		for i := 0; i < len(winners); i += 2 {
			slot := fmt.Sprintf("%s_%02d", prefix, i/2+1)
			nextRound = append(nextRound, &models.Match{
				ID:    models.MatchRef(slot),
				Stage: next,
				Slot:  slot,
				TeamA: winners[i],
				TeamB: winners[i+1],
			})
		}
		s.Knockouts[next] = nextRound
	}

	s.Closed[from] = true
	return nil
}

// AdvanceStage runs the generation step that consumes the named stage:
// playoffs bind into groups, a complete group stage yields the round of 32,
// and each knockout round yields its successor.
func AdvanceStage(s *models.TournamentState, from models.Stage, table SeedingTable) error {
	switch from {
	case models.StagePlayoffs:
		return ResolvePlayoffs(s)
	case models.StageGroups:
		return GenerateRoundOf32(s, table)
	case models.StageRoundOf32, models.StageRoundOf16, models.StageQuarterfinals, models.StageSemifinals:
		return GenerateNextRound(s, from)
	}
	return fmt.Errorf("%w: %s", ErrInvalidStage, from)
}
