package brackets

import (
	"sort"

	"github.com/footylab/prediction-engine/models"
)

// SortRows orders standing rows by points, then goal difference, then goals
// scored, all descending. A remaining tie between exactly two teams is broken
// by their head-to-head result when they met and the match produced a winner.
// Anything still level keeps the incoming order (the group's seeding order),
// which makes the ordering a total order and recomputation stable: sorting an
// already-sorted set is a no-op.
func SortRows(rows []models.StandingRow, matches []*models.Match) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rowLess(rows[j], rows[i])
	})

	// Head-to-head applies only to ties of exactly two teams; larger tied
	// runs keep the seeding order.
	for i := 0; i < len(rows); {
		j := i + 1
		for j < len(rows) && sameRank(rows[i], rows[j]) {
			j++
		}
		if j-i == 2 {
			if w := headToHead(matches, rows[i].Team, rows[i+1].Team); w == rows[i+1].Team {
				rows[i], rows[i+1] = rows[i+1], rows[i]
			}
		}
		i = j
	}
}

// rowLess reports whether a ranks strictly below b on the points/GD/GF chain.
func rowLess(a, b models.StandingRow) bool {
	if a.Points != b.Points {
		return a.Points < b.Points
	}
	if a.GoalDifference != b.GoalDifference {
		return a.GoalDifference < b.GoalDifference
	}
	return a.GoalsFor < b.GoalsFor
}

func sameRank(a, b models.StandingRow) bool {
	return a.Points == b.Points && a.GoalDifference == b.GoalDifference && a.GoalsFor == b.GoalsFor
}

// headToHead returns the winner of the played match between the two teams, or
// "" when they have not met or the match ended level.
func headToHead(matches []*models.Match, teamA, teamB string) string {
	for _, m := range matches {
		if !m.Played || m.ScoreA == nil || m.ScoreB == nil {
			continue
		}
		if (m.TeamA == teamA && m.TeamB == teamB) || (m.TeamA == teamB && m.TeamB == teamA) {
			switch {
			case *m.ScoreA > *m.ScoreB:
				return m.TeamA
			case *m.ScoreB > *m.ScoreA:
				return m.TeamB
			}
			return ""
		}
	}
	return ""
}

// ThirdPlaceRanking ranks every group's third-placed row across groups with
// the same points/GD/GF chain. Head-to-head does not apply across groups; ties
// keep group order, so the ranking is reproducible from the group data alone.
func ThirdPlaceRanking(groups []*models.Group) []models.ThirdPlaceRow {
	rows := make([]models.ThirdPlaceRow, 0, len(groups))
	for _, g := range groups {
		ranked := GroupStandings(g)
		if len(ranked) >= 3 {
			rows = append(rows, models.ThirdPlaceRow{Group: g.ID, Row: ranked[2]})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rowLess(rows[j].Row, rows[i].Row)
	})
	return rows
}

// BestThirdPlaces returns the top n of the cross-group third-place ranking.
// The remaining third-placed teams are eliminated.
func BestThirdPlaces(groups []*models.Group, n int) []models.ThirdPlaceRow {
	ranking := ThirdPlaceRanking(groups)
	if len(ranking) > n {
		ranking = ranking[:n]
	}
	return ranking
}
