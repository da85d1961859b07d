package brackets

import (
	"reflect"
	"testing"

	"github.com/footylab/prediction-engine/models"
)

func newTestGroup(id string, teams ...string) *models.Group {
	g := &models.Group{ID: id, Teams: teams}
	g.Matches = groupFixtures(id, teams)
	return g
}

// score records a result on the group's i-th fixture without going through the
// recorder, for tests that exercise the standings math directly.
func score(t *testing.T, g *models.Group, i, a, b int) {
	t.Helper()
	if i >= len(g.Matches) {
		t.Fatalf("group %s has no fixture %d", g.ID, i)
	}
	g.Matches[i].ScoreA = &a
	g.Matches[i].ScoreB = &b
	g.Matches[i].Played = true
}

// playFullGroup records results that rank the group's teams in seeding order:
// the first team wins all three matches, the last loses all three.
func playFullGroup(t *testing.T, g *models.Group) {
	t.Helper()
	results := [matchesPerGroup][2]int{
		{1, 0}, {1, 0},
		{2, 0}, {2, 0},
		{3, 0}, {1, 0},
	}
	for i, r := range results {
		score(t, g, i, r[0], r[1])
	}
}

func TestComputeStandingsWorkedExample(t *testing.T) {
	g := newTestGroup("A", "A", "B", "C", "D")
	// Fixture order: A-B, C-D, A-C, B-D, A-D, B-C.
	score(t, g, 0, 2, 1)
	score(t, g, 1, 0, 0)
	score(t, g, 2, 1, 1)
	score(t, g, 3, 3, 0)
	score(t, g, 4, 0, 0)
	score(t, g, 5, 2, 2)

	got := GroupStandings(g)
	want := []models.StandingRow{
		{Team: "A", Played: 3, Won: 1, Drawn: 2, Lost: 0, GoalsFor: 3, GoalsAgainst: 2, GoalDifference: 1, Points: 5},
		{Team: "B", Played: 3, Won: 1, Drawn: 1, Lost: 1, GoalsFor: 6, GoalsAgainst: 4, GoalDifference: 2, Points: 4},
		{Team: "C", Played: 3, Won: 0, Drawn: 3, Lost: 0, GoalsFor: 3, GoalsAgainst: 3, GoalDifference: 0, Points: 3},
		{Team: "D", Played: 3, Won: 0, Drawn: 2, Lost: 1, GoalsFor: 0, GoalsAgainst: 3, GoalDifference: -3, Points: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("standings mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestComputeStandingsIgnoresUnplayedMatches(t *testing.T) {
	g := newTestGroup("B", "W", "X", "Y", "Z")
	score(t, g, 0, 2, 0)

	rows := ComputeStandings(g)
	if rows[0].Played != 1 || rows[1].Played != 1 {
		t.Errorf("played counts = %d/%d, want 1/1", rows[0].Played, rows[1].Played)
	}
	for _, row := range rows[2:] {
		if row.Played != 0 || row.Points != 0 {
			t.Errorf("team %s has played=%d points=%d from unplayed fixtures", row.Team, row.Played, row.Points)
		}
	}
}

func TestComputeStandingsIsIdempotent(t *testing.T) {
	g := newTestGroup("C", "W", "X", "Y", "Z")
	playFullGroup(t, g)

	first := GroupStandings(g)
	second := GroupStandings(g)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("recomputation changed the table:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestComputeStandingsConservation(t *testing.T) {
	g := newTestGroup("D", "W", "X", "Y", "Z")
	score(t, g, 0, 2, 1)
	score(t, g, 1, 1, 1)
	score(t, g, 2, 0, 3)
	score(t, g, 3, 2, 2)

	rows := ComputeStandings(g)
	var won, lost, drawn, gf, ga int
	for _, row := range rows {
		won += row.Won
		lost += row.Lost
		drawn += row.Drawn
		gf += row.GoalsFor
		ga += row.GoalsAgainst
	}
	if won != lost {
		t.Errorf("total wins %d != total losses %d", won, lost)
	}
	if drawn%2 != 0 {
		t.Errorf("total draws %d is odd", drawn)
	}
	if gf != ga {
		t.Errorf("total goals for %d != total goals against %d", gf, ga)
	}
}
