package brackets

import (
	"errors"
	"testing"

	"github.com/footylab/prediction-engine/models"
)

func newRecorderState(t *testing.T) *models.TournamentState {
	t.Helper()
	s := &models.TournamentState{
		ID:        "t1",
		Phase:     models.PhaseGroups,
		Groups:    []*models.Group{newTestGroup("A", "W", "X", "Y", "Z")},
		Knockouts: make(map[models.Stage]models.KnockoutRound),
		Closed:    make(map[models.Stage]bool),
	}
	s.Knockouts[models.StageRoundOf16] = models.KnockoutRound{
		{ID: "R16_01", Stage: models.StageRoundOf16, Slot: "R16_01", TeamA: "W", TeamB: "X"},
	}
	return s
}

func TestSubmitResultGroupDraw(t *testing.T) {
	s := newRecorderState(t)
	if err := SubmitResult(s, "G-A-1", 1, 1, ""); err != nil {
		t.Fatalf("SubmitResult: %v", err)
	}
	m, _ := s.FindMatch("G-A-1")
	if !m.Played || *m.ScoreA != 1 || *m.ScoreB != 1 {
		t.Errorf("match not recorded: %+v", m)
	}
	if m.Winner != nil {
		t.Errorf("group draw produced a winner %q", *m.Winner)
	}
}

func TestSubmitResultOverwrites(t *testing.T) {
	s := newRecorderState(t)
	if err := SubmitResult(s, "G-A-1", 1, 0, ""); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if err := SubmitResult(s, "G-A-1", 2, 2, ""); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	m, _ := s.FindMatch("G-A-1")
	if *m.ScoreA != 2 || *m.ScoreB != 2 {
		t.Errorf("resubmission did not overwrite: %d:%d", *m.ScoreA, *m.ScoreB)
	}
	if got := len(s.Groups[0].Matches); got != matchesPerGroup {
		t.Errorf("group has %d matches after resubmission, want %d", got, matchesPerGroup)
	}
}

func TestSubmitResultErrors(t *testing.T) {
	tests := []struct {
		name          string
		ref           models.MatchRef
		scoreA        int
		scoreB        int
		penaltyWinner string
		want          error
	}{
		{"unknown match", "NOPE", 1, 0, "", ErrUnknownMatch},
		{"negative score", "G-A-1", -1, 0, "", ErrInvalidScore},
		{"level knockout without penalty winner", "R16_01", 1, 1, "", ErrPenaltyWinnerRequired},
		{"penalty winner not playing", "R16_01", 2, 2, "Y", ErrInvalidPenaltyWinner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newRecorderState(t)
			err := SubmitResult(s, tt.ref, tt.scoreA, tt.scoreB, tt.penaltyWinner)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSubmitResultClosedStage(t *testing.T) {
	s := newRecorderState(t)
	s.Closed[models.StageGroups] = true
	if err := SubmitResult(s, "G-A-1", 1, 0, ""); !errors.Is(err, ErrStageClosed) {
		t.Errorf("got %v, want ErrStageClosed", err)
	}
}

func TestSubmitResultKnockoutDecidedOnPenalties(t *testing.T) {
	s := newRecorderState(t)
	if err := SubmitResult(s, "R16_01", 1, 1, "X"); err != nil {
		t.Fatalf("SubmitResult: %v", err)
	}
	m, _ := s.FindMatch("R16_01")
	if m.Winner == nil || *m.Winner != "X" {
		t.Errorf("winner = %v, want X", m.Winner)
	}
	if m.PenaltyWinner == nil || *m.PenaltyWinner != "X" {
		t.Errorf("penalty winner = %v, want X", m.PenaltyWinner)
	}

	// Correcting to a decisive score clears the penalty record.
	if err := SubmitResult(s, "R16_01", 2, 0, ""); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if m.PenaltyWinner != nil {
		t.Errorf("penalty winner survived a decisive correction: %q", *m.PenaltyWinner)
	}
	if *m.Winner != "W" {
		t.Errorf("winner = %q, want W", *m.Winner)
	}
}

func TestSubmitResultUnboundKnockoutMatch(t *testing.T) {
	s := newRecorderState(t)
	s.Knockouts[models.StageRoundOf16] = append(s.Knockouts[models.StageRoundOf16],
		&models.Match{ID: "R16_02", Stage: models.StageRoundOf16, Slot: "R16_02"})
	if err := SubmitResult(s, "R16_02", 1, 0, ""); !errors.Is(err, ErrMatchNotReady) {
		t.Errorf("got %v, want ErrMatchNotReady", err)
	}
}

func TestSubmitResultProgressesPlayoffBracket(t *testing.T) {
	s := &models.TournamentState{
		ID:    "t1",
		Phase: models.PhasePlayoffs,
		Playoffs: []*models.PlayoffBracket{{
			Key:      "FIFA_Playoff_1",
			SlotName: "FIFA Playoff 1",
			Round1: []*models.Match{
				{ID: "FP1-R1", Stage: models.StagePlayoffs, Slot: "FP1-R1", TeamA: "Bolivia", TeamB: "Suriname"},
			},
			Final: &models.Match{ID: "FP1-F", Stage: models.StagePlayoffs, Slot: "FP1-F", TeamB: "Iraq"},
		}},
		Knockouts: make(map[models.Stage]models.KnockoutRound),
		Closed:    make(map[models.Stage]bool),
	}

	// The final cannot be played before its pairing is known.
	if err := SubmitResult(s, "FP1-F", 1, 0, ""); !errors.Is(err, ErrMatchNotReady) {
		t.Fatalf("got %v, want ErrMatchNotReady", err)
	}

	if err := SubmitResult(s, "FP1-R1", 1, 0, ""); err != nil {
		t.Fatalf("round 1: %v", err)
	}
	final := s.Playoffs[0].Final
	if final.TeamA != "Bolivia" {
		t.Fatalf("final TeamA = %q, want Bolivia", final.TeamA)
	}

	if err := SubmitResult(s, "FP1-F", 2, 0, ""); err != nil {
		t.Fatalf("final: %v", err)
	}
	if final.Winner == nil || *final.Winner != "Bolivia" {
		t.Fatalf("final winner = %v, want Bolivia", final.Winner)
	}

	// Correcting round 1 changes the pairing and voids the final's result.
	if err := SubmitResult(s, "FP1-R1", 0, 2, ""); err != nil {
		t.Fatalf("round 1 correction: %v", err)
	}
	if final.TeamA != "Suriname" {
		t.Errorf("final TeamA = %q after correction, want Suriname", final.TeamA)
	}
	if final.Played || final.Winner != nil || final.ScoreA != nil {
		t.Errorf("stale final result survived the pairing change: %+v", final)
	}
}

func TestSubmitResultDecidesChampion(t *testing.T) {
	s := &models.TournamentState{
		ID:         "t1",
		Phase:      models.PhaseKnockouts,
		Knockouts:  make(map[models.Stage]models.KnockoutRound),
		Closed:     map[models.Stage]bool{models.StageSemifinals: true},
		Final:      &models.Match{ID: "FINAL", Stage: models.StageFinal, Slot: "FINAL", TeamA: "Brazil", TeamB: "France"},
		ThirdPlace: &models.Match{ID: "THIRD_PLACE", Stage: models.StageFinal, Slot: "THIRD_PLACE", TeamA: "Spain", TeamB: "England"},
	}

	if err := SubmitResult(s, "THIRD_PLACE", 2, 1, ""); err != nil {
		t.Fatalf("third place: %v", err)
	}
	if s.Phase == models.PhaseComplete {
		t.Fatal("tournament completed before the final was played")
	}

	if err := SubmitResult(s, "FINAL", 3, 1, ""); err != nil {
		t.Fatalf("final: %v", err)
	}
	if s.Champion != "Brazil" {
		t.Errorf("champion = %q, want Brazil", s.Champion)
	}
	if s.Phase != models.PhaseComplete {
		t.Errorf("phase = %s, want complete", s.Phase)
	}

	// A complete tournament accepts no further results.
	if err := SubmitResult(s, "FINAL", 0, 1, ""); !errors.Is(err, ErrStageClosed) {
		t.Errorf("got %v, want ErrStageClosed", err)
	}
}
