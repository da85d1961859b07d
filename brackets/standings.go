package brackets

import (
	"github.com/footylab/prediction-engine/models"
)

// ComputeStandings folds a group's played matches into one StandingRow per
// team: win 3 points, draw 1 each, loss 0. Unplayed matches contribute
// nothing. The fold is pure and idempotent; identical match data always
// yields identical rows, in the group's team order.
func ComputeStandings(g *models.Group) []models.StandingRow {
	rows := make([]models.StandingRow, len(g.Teams))
	index := make(map[string]*models.StandingRow, len(g.Teams))
	for i, team := range g.Teams {
		rows[i] = models.StandingRow{Team: team}
		index[team] = &rows[i]
	}

	for _, m := range g.Matches {
		if !m.Played || m.ScoreA == nil || m.ScoreB == nil {
			continue
		}
		ra, rb := index[m.TeamA], index[m.TeamB]
		if ra == nil || rb == nil {
			continue
		}
		ga, gb := *m.ScoreA, *m.ScoreB

		ra.Played++
		rb.Played++
		ra.GoalsFor += ga
		ra.GoalsAgainst += gb
		rb.GoalsFor += gb
		rb.GoalsAgainst += ga

		switch {
		case ga > gb:
			ra.Won++
			rb.Lost++
			ra.Points += 3
		case gb > ga:
			rb.Won++
			ra.Lost++
			rb.Points += 3
		default:
			ra.Drawn++
			rb.Drawn++
			ra.Points++
			rb.Points++
		}
	}

	for i := range rows {
		rows[i].GoalDifference = rows[i].GoalsFor - rows[i].GoalsAgainst
	}
	return rows
}

// GroupStandings returns a group's table ordered by the tie-break chain.
func GroupStandings(g *models.Group) []models.StandingRow {
	rows := ComputeStandings(g)
	SortRows(rows, g.Matches)
	return rows
}
