package brackets

import (
	"fmt"

	"github.com/footylab/prediction-engine/models"
)

// SubmitResult validates and applies one submitted score to the referenced
// match. Resubmission before the owning stage closes overwrites the prior
// result; no duplicate match entries ever accumulate. For knockout fixtures a
// level score additionally requires a penalty winner, and the match's Winner
// is recomputed on every write.
func SubmitResult(s *models.TournamentState, ref models.MatchRef, scoreA, scoreB int, penaltyWinner string) error {
	if s.Phase == models.PhaseComplete {
		return fmt.Errorf("%w: tournament is complete", ErrStageClosed)
	}

	m, bracket := s.FindMatch(ref)
	if m == nil {
		return fmt.Errorf("%w: %s", ErrUnknownMatch, ref)
	}
	if s.Closed[m.Stage] {
		return fmt.Errorf("%w: %s (match %s)", ErrStageClosed, m.Stage, ref)
	}
	if scoreA < 0 || scoreB < 0 {
		return fmt.Errorf("%w: got %d:%d for match %s", ErrInvalidScore, scoreA, scoreB, ref)
	}
	if m.IsKnockout() {
		if !m.HasTeams() {
			return fmt.Errorf("%w: %s awaits an earlier round", ErrMatchNotReady, ref)
		}
		if scoreA == scoreB {
			if penaltyWinner == "" {
				return fmt.Errorf("%w: match %s", ErrPenaltyWinnerRequired, ref)
			}
			if penaltyWinner != m.TeamA && penaltyWinner != m.TeamB {
				return fmt.Errorf("%w: %q is not playing match %s", ErrInvalidPenaltyWinner, penaltyWinner, ref)
			}
		}
	}

	a, b := scoreA, scoreB
	m.ScoreA, m.ScoreB = &a, &b
	m.Played = true
	m.Winner = nil
	m.PenaltyWinner = nil
	if m.IsKnockout() {
		var winner string
		switch {
		case a > b:
			winner = m.TeamA
		case b > a:
			winner = m.TeamB
		default:
			winner = penaltyWinner
			pw := penaltyWinner
			m.PenaltyWinner = &pw
		}
		m.Winner = &winner
	}

	if bracket != nil {
		progressBracket(bracket)
	}
	if m.Stage == models.StageFinal && StageComplete(s, models.StageFinal) {
		s.Champion = *s.Final.Winner
		s.Closed[models.StageFinal] = true
		s.Phase = models.PhaseComplete
	}
	return nil
}

// progressBracket rebinds a playoff bracket final's pairing from its earlier
// rounds. A corrected upstream result that changes the pairing invalidates any
// result already recorded on the final.
func progressBracket(b *models.PlayoffBracket) {
	if b.Final == nil {
		return
	}
	if len(b.Round1) > 0 && playoffRoundComplete(b.Round1) {
		bindTeam(b.Final, &b.Final.TeamA, *b.Round1[0].Winner)
	}
	if len(b.Semifinals) == 2 && playoffRoundComplete(b.Semifinals) {
		bindTeam(b.Final, &b.Final.TeamA, *b.Semifinals[0].Winner)
		bindTeam(b.Final, &b.Final.TeamB, *b.Semifinals[1].Winner)
	}
}

func bindTeam(m *models.Match, slot *string, team string) {
	if *slot == team {
		return
	}
	*slot = team
	m.ScoreA, m.ScoreB = nil, nil
	m.Winner = nil
	m.PenaltyWinner = nil
	m.Played = false
}
