package models

import "testing"

func testState() *TournamentState {
	return &TournamentState{
		ID:    "t1",
		Phase: PhaseGroups,
		Groups: []*Group{{
			ID:    "A",
			Teams: []string{"W", "X", "Y", "Z"},
			Matches: []*Match{
				{ID: "G-A-1", Stage: StageGroups, Matchday: 1, TeamA: "W", TeamB: "X"},
			},
		}},
		Knockouts: map[Stage]KnockoutRound{
			StageRoundOf32: {{ID: "R32_01", Stage: StageRoundOf32, TeamA: "W", TeamB: "Q"}},
		},
		Closed: map[Stage]bool{StageGroups: true},
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := testState()
	clone, err := s.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}

	one := 1
	clone.Groups[0].Matches[0].ScoreA = &one
	clone.Groups[0].Matches[0].Played = true
	clone.Closed[StageRoundOf32] = true

	if s.Groups[0].Matches[0].Played {
		t.Error("mutating the clone changed the original's matches")
	}
	if s.Closed[StageRoundOf32] {
		t.Error("mutating the clone changed the original's closed set")
	}
}

func TestFindMatch(t *testing.T) {
	s := testState()
	s.Final = &Match{ID: "FINAL", Stage: StageFinal}
	s.ThirdPlace = &Match{ID: "THIRD_PLACE", Stage: StageFinal}

	for _, ref := range []MatchRef{"G-A-1", "R32_01", "FINAL", "THIRD_PLACE"} {
		if m, _ := s.FindMatch(ref); m == nil || m.ID != ref {
			t.Errorf("FindMatch(%s) = %v", ref, m)
		}
	}
	if m, _ := s.FindMatch("NOPE"); m != nil {
		t.Errorf("FindMatch(NOPE) = %v, want nil", m)
	}
}

func TestNextKnockoutStage(t *testing.T) {
	tests := []struct {
		from   Stage
		want   Stage
		wantOK bool
	}{
		{StageRoundOf32, StageRoundOf16, true},
		{StageRoundOf16, StageQuarterfinals, true},
		{StageQuarterfinals, StageSemifinals, true},
		{StageSemifinals, StageFinal, true},
		{StageFinal, "", false},
		{StageGroups, "", false},
	}
	for _, tt := range tests {
		got, ok := NextKnockoutStage(tt.from)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NextKnockoutStage(%s) = %s, %t; want %s, %t", tt.from, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestMatchLoser(t *testing.T) {
	one, zero := 1, 0
	w := "W"
	m := &Match{TeamA: "W", TeamB: "X", ScoreA: &one, ScoreB: &zero, Winner: &w, Played: true}
	if got := m.Loser(); got != "X" {
		t.Errorf("Loser() = %q, want X", got)
	}

	undecided := &Match{TeamA: "W", TeamB: "X", Winner: &w}
	if got := undecided.Loser(); got != "" {
		t.Errorf("Loser() on an unplayed match = %q, want empty", got)
	}
}
