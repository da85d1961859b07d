package brackets

import (
	"fmt"

	"github.com/footylab/prediction-engine/models"
)

var knockoutRoundSizes = map[models.Stage]int{
	models.StageRoundOf32:     16,
	models.StageRoundOf16:     8,
	models.StageQuarterfinals: 4,
	models.StageSemifinals:    2,
}

// ValidateState re-checks every structural invariant of a snapshot. It is run
// on externally supplied state before the engine acts on it; any failure is
// reported as ErrMalformedState and the snapshot must be discarded.
func ValidateState(s *models.TournamentState) error {
	switch s.Phase {
	case models.PhasePlayoffs, models.PhaseGroups, models.PhaseKnockouts, models.PhaseComplete:
	default:
		return fmt.Errorf("%w: unknown phase %q", ErrMalformedState, s.Phase)
	}

	seen := make(map[models.MatchRef]bool)
	register := func(m *models.Match) error {
		if m.ID == "" {
			return fmt.Errorf("%w: match with empty id in stage %s", ErrMalformedState, m.Stage)
		}
		if seen[m.ID] {
			return fmt.Errorf("%w: duplicate match id %s", ErrMalformedState, m.ID)
		}
		seen[m.ID] = true
		return nil
	}

	for _, b := range s.Playoffs {
		if b.Final == nil {
			return fmt.Errorf("%w: playoff %s has no final", ErrMalformedState, b.Key)
		}
		// Exactly one of the two bracket shapes: a single round-1 match
		// feeding the final, or two semifinals feeding it.
		switch {
		case len(b.Round1) > 0 && len(b.Semifinals) > 0:
			return fmt.Errorf("%w: playoff %s mixes round-1 and semifinal shapes", ErrMalformedState, b.Key)
		case len(b.Round1) == 0 && len(b.Semifinals) == 0:
			return fmt.Errorf("%w: playoff %s has no matches before the final", ErrMalformedState, b.Key)
		case len(b.Round1) > 1:
			return fmt.Errorf("%w: playoff %s has %d round-1 matches, want 1", ErrMalformedState, b.Key, len(b.Round1))
		case len(b.Semifinals) == 1 || len(b.Semifinals) > 2:
			return fmt.Errorf("%w: playoff %s has %d semifinals, want 2", ErrMalformedState, b.Key, len(b.Semifinals))
		}
		for _, m := range b.AllMatches() {
			if err := register(m); err != nil {
				return err
			}
			if m.Stage != models.StagePlayoffs {
				return fmt.Errorf("%w: playoff match %s carries stage %s", ErrMalformedState, m.ID, m.Stage)
			}
			if err := validateResult(m); err != nil {
				return err
			}
		}
	}

	for _, g := range s.Groups {
		if len(g.Teams) != groupSize {
			return fmt.Errorf("%w: group %s has %d teams, want %d", ErrMalformedState, g.ID, len(g.Teams), groupSize)
		}
		if len(g.Matches) != matchesPerGroup {
			return fmt.Errorf("%w: group %s has %d matches, want %d", ErrMalformedState, g.ID, len(g.Matches), matchesPerGroup)
		}
		members := make(map[string]bool, groupSize)
		for _, team := range g.Teams {
			if team == "" {
				return fmt.Errorf("%w: group %s has an empty team slot", ErrMalformedState, g.ID)
			}
			if members[team] {
				return fmt.Errorf("%w: group %s lists %q twice", ErrMalformedState, g.ID, team)
			}
			members[team] = true
		}
		pairs := make(map[string]bool, matchesPerGroup)
		for _, m := range g.Matches {
			if err := register(m); err != nil {
				return err
			}
			if m.Stage != models.StageGroups {
				return fmt.Errorf("%w: group match %s carries stage %s", ErrMalformedState, m.ID, m.Stage)
			}
			if m.Matchday < 1 || m.Matchday > 3 {
				return fmt.Errorf("%w: group match %s has matchday %d", ErrMalformedState, m.ID, m.Matchday)
			}
			if !members[m.TeamA] || !members[m.TeamB] || m.TeamA == m.TeamB {
				return fmt.Errorf("%w: group %s match %s pairs %q and %q", ErrMalformedState, g.ID, m.ID, m.TeamA, m.TeamB)
			}
			key := m.TeamA + "|" + m.TeamB
			if m.TeamB < m.TeamA {
				key = m.TeamB + "|" + m.TeamA
			}
			if pairs[key] {
				return fmt.Errorf("%w: group %s pairs %q and %q twice", ErrMalformedState, g.ID, m.TeamA, m.TeamB)
			}
			pairs[key] = true
			if err := validateResult(m); err != nil {
				return err
			}
		}
	}

	for _, stage := range models.KnockoutStages {
		round, ok := s.Knockouts[stage]
		if !ok || len(round) == 0 {
			continue
		}
		if len(round) != knockoutRoundSizes[stage] {
			return fmt.Errorf("%w: %s has %d matches, want %d", ErrMalformedState, stage, len(round), knockoutRoundSizes[stage])
		}
		for _, m := range round {
			if err := register(m); err != nil {
				return err
			}
			if m.Stage != stage {
				return fmt.Errorf("%w: match %s in round %s carries stage %s", ErrMalformedState, m.ID, stage, m.Stage)
			}
			if err := validateResult(m); err != nil {
				return err
			}
		}
	}
	// A later round can only exist once its predecessor was consumed.
	for i := 1; i < len(models.KnockoutStages); i++ {
		prev, cur := models.KnockoutStages[i-1], models.KnockoutStages[i]
		if len(s.Knockouts[cur]) > 0 && !s.Closed[prev] {
			return fmt.Errorf("%w: %s exists but %s was never closed", ErrMalformedState, cur, prev)
		}
	}
	if len(s.Knockouts[models.StageRoundOf32]) > 0 && !s.Closed[models.StageGroups] {
		return fmt.Errorf("%w: round of 32 exists but the group stage was never closed", ErrMalformedState)
	}

	if (s.Final == nil) != (s.ThirdPlace == nil) {
		return fmt.Errorf("%w: final and third-place match must exist together", ErrMalformedState)
	}
	if s.Final != nil {
		if !s.Closed[models.StageSemifinals] {
			return fmt.Errorf("%w: final stage exists but the semifinals were never closed", ErrMalformedState)
		}
		for _, m := range []*models.Match{s.Final, s.ThirdPlace} {
			if err := register(m); err != nil {
				return err
			}
			if m.Stage != models.StageFinal {
				return fmt.Errorf("%w: final-stage match %s carries stage %s", ErrMalformedState, m.ID, m.Stage)
			}
			if err := validateResult(m); err != nil {
				return err
			}
		}
	}

	if s.Champion != "" {
		if s.Phase != models.PhaseComplete {
			return fmt.Errorf("%w: champion set while phase is %s", ErrMalformedState, s.Phase)
		}
		if s.Final == nil || !s.Final.HasWinner() || *s.Final.Winner != s.Champion {
			return fmt.Errorf("%w: champion %q does not match the final's winner", ErrMalformedState, s.Champion)
		}
	}
	return nil
}

// validateResult checks the internal consistency of one match record.
func validateResult(m *models.Match) error {
	if m.ScoreA != nil && *m.ScoreA < 0 || m.ScoreB != nil && *m.ScoreB < 0 {
		return fmt.Errorf("%w: match %s has a negative score", ErrMalformedState, m.ID)
	}
	if !m.Played {
		if m.Winner != nil {
			return fmt.Errorf("%w: unplayed match %s has a winner", ErrMalformedState, m.ID)
		}
		return nil
	}
	if m.ScoreA == nil || m.ScoreB == nil {
		return fmt.Errorf("%w: played match %s is missing a score", ErrMalformedState, m.ID)
	}
	if !m.IsKnockout() {
		return nil
	}
	if m.Winner == nil || (*m.Winner != m.TeamA && *m.Winner != m.TeamB) {
		return fmt.Errorf("%w: knockout match %s has no valid winner", ErrMalformedState, m.ID)
	}
	switch {
	case *m.ScoreA > *m.ScoreB:
		if *m.Winner != m.TeamA {
			return fmt.Errorf("%w: match %s winner contradicts its score", ErrMalformedState, m.ID)
		}
	case *m.ScoreB > *m.ScoreA:
		if *m.Winner != m.TeamB {
			return fmt.Errorf("%w: match %s winner contradicts its score", ErrMalformedState, m.ID)
		}
	default:
		if m.PenaltyWinner == nil || *m.PenaltyWinner != *m.Winner {
			return fmt.Errorf("%w: level match %s was decided without a penalty winner", ErrMalformedState, m.ID)
		}
	}
	return nil
}
