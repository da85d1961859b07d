package brackets

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/footylab/prediction-engine/models"
)

const (
	groupSize             = 4
	matchesPerGroup       = 6
	qualifyingThirdPlaces = 8
)

// Template describes the fixed shape of a tournament: group composition,
// playoff brackets feeding group slots, and the round-of-32 seeding table.
// Team names are opaque identifiers; a group slot may instead carry a playoff
// SlotName, to be bound once that playoff resolves.
type Template struct {
	Groups   []GroupTemplate   `json:"groups"`
	Playoffs []PlayoffTemplate `json:"playoffs"`
	Seeding  SeedingTable      `json:"seeding"`
}

type GroupTemplate struct {
	ID    string   `json:"id"`
	Teams []string `json:"teams"`
}

// PlayoffTemplate defines one qualification bracket. Exactly one of Round1 or
// Semifinals is set: a Round1 winner meets the preseeded FinalOpponent in the
// final, while two semifinal winners meet each other.
type PlayoffTemplate struct {
	Key           string         `json:"key"`
	SlotName      string         `json:"slot_name"`
	Round1        []PairTemplate `json:"round1,omitempty"`
	Semifinals    []PairTemplate `json:"semifinals,omitempty"`
	FinalID       string         `json:"final_id"`
	FinalOpponent string         `json:"final_opponent,omitempty"`
}

type PairTemplate struct {
	ID    string `json:"id"`
	TeamA string `json:"team_a"`
	TeamB string `json:"team_b"`
}

// LoadTemplate reads a template from a JSON file. An empty path yields the
// shipped default.
func LoadTemplate(path string) (*Template, error) {
	if path == "" {
		return DefaultTemplate(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tournament template %s: %w", path, err)
	}
	var t Template
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("failed to parse tournament template %s: %w", path, err)
	}
	if len(t.Seeding) == 0 {
		t.Seeding = DefaultSeedingTable()
	}
	return &t, nil
}

// NewState creates the initial tournament state from a template: playoff
// brackets ready for predictions, groups with their full round-robin schedule,
// knockouts empty. The round-robin fixture order is fixed at construction:
// matchday 1 pairs (1v2, 3v4), matchday 2 (1v3, 2v4), matchday 3 (1v4, 2v3).
func NewState(id string, t *Template) (*models.TournamentState, error) {
	state := &models.TournamentState{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		Knockouts: make(map[models.Stage]models.KnockoutRound),
		Closed:    make(map[models.Stage]bool),
	}

	for _, pt := range t.Playoffs {
		bracket := &models.PlayoffBracket{Key: pt.Key, SlotName: pt.SlotName}
		for _, pair := range pt.Round1 {
			bracket.Round1 = append(bracket.Round1, playoffMatch(pair.ID, pair.TeamA, pair.TeamB))
		}
		for _, pair := range pt.Semifinals {
			bracket.Semifinals = append(bracket.Semifinals, playoffMatch(pair.ID, pair.TeamA, pair.TeamB))
		}
		// The final's pairing is bound as earlier rounds resolve; a Round1
		// bracket carries its preseeded opponent from the start.
		bracket.Final = playoffMatch(pt.FinalID, "", pt.FinalOpponent)
		state.Playoffs = append(state.Playoffs, bracket)
	}

	for _, gt := range t.Groups {
		if len(gt.Teams) != groupSize {
			return nil, fmt.Errorf("%w: group %s has %d teams, want %d", ErrMalformedState, gt.ID, len(gt.Teams), groupSize)
		}
		group := &models.Group{ID: gt.ID, Teams: append([]string(nil), gt.Teams...)}
		group.Matches = groupFixtures(gt.ID, group.Teams)
		state.Groups = append(state.Groups, group)
	}

	state.Phase = models.PhaseGroups
	if len(state.Playoffs) > 0 {
		state.Phase = models.PhasePlayoffs
	}
	if err := ValidateState(state); err != nil {
		return nil, err
	}
	return state, nil
}

func playoffMatch(id, teamA, teamB string) *models.Match {
	return &models.Match{
		ID:    models.MatchRef(id),
		Stage: models.StagePlayoffs,
		Slot:  id,
		TeamA: teamA,
		TeamB: teamB,
	}
}

// groupFixtures builds the six-match schedule of a four-team group,
// partitioned into three matchdays of two fixtures each.
func groupFixtures(groupID string, teams []string) []*models.Match {
	pairings := [matchesPerGroup][3]int{
		{0, 1, 1}, {2, 3, 1},
		{0, 2, 2}, {1, 3, 2},
		{0, 3, 3}, {1, 2, 3},
	}
	matches := make([]*models.Match, 0, matchesPerGroup)
	for i, p := range pairings {
		matches = append(matches, &models.Match{
			ID:       models.MatchRef(fmt.Sprintf("G-%s-%d", groupID, i+1)),
			Stage:    models.StageGroups,
			Slot:     fmt.Sprintf("%s%d", groupID, i+1),
			Matchday: p[2],
			TeamA:    teams[p[0]],
			TeamB:    teams[p[1]],
		})
	}
	return matches
}

// DefaultTemplate returns the shipped 12-group, 48-slot World Cup shape with
// two qualification playoffs feeding group slots A4 and C4.
func DefaultTemplate() *Template {
	return &Template{
		Groups: []GroupTemplate{
			{ID: "A", Teams: []string{"Mexico", "South Korea", "South Africa", "FIFA Playoff 1"}},
			{ID: "B", Teams: []string{"Canada", "Switzerland", "Ivory Coast", "Qatar"}},
			{ID: "C", Teams: []string{"United States", "Japan", "Panama", "UEFA Playoff A"}},
			{ID: "D", Teams: []string{"France", "Senegal", "Norway", "Paraguay"}},
			{ID: "E", Teams: []string{"Brazil", "Morocco", "Scotland", "Jordan"}},
			{ID: "F", Teams: []string{"England", "Ecuador", "Australia", "Uzbekistan"}},
			{ID: "G", Teams: []string{"Spain", "Uruguay", "Egypt", "New Zealand"}},
			{ID: "H", Teams: []string{"Argentina", "Croatia", "Iran", "Tunisia"}},
			{ID: "I", Teams: []string{"Germany", "Colombia", "Algeria", "Cape Verde"}},
			{ID: "J", Teams: []string{"Portugal", "Austria", "Saudi Arabia", "Curacao"}},
			{ID: "K", Teams: []string{"Netherlands", "Denmark", "Jamaica", "Haiti"}},
			{ID: "L", Teams: []string{"Belgium", "Nigeria", "Costa Rica", "Oman"}},
		},
		Playoffs: []PlayoffTemplate{
			{
				Key:      "FIFA_Playoff_1",
				SlotName: "FIFA Playoff 1",
				Round1: []PairTemplate{
					{ID: "FP1-R1", TeamA: "Bolivia", TeamB: "Suriname"},
				},
				FinalID:       "FP1-F",
				FinalOpponent: "Iraq",
			},
			{
				Key:      "UEFA_Playoff_A",
				SlotName: "UEFA Playoff A",
				Semifinals: []PairTemplate{
					{ID: "UPA-SF1", TeamA: "Italy", TeamB: "Wales"},
					{ID: "UPA-SF2", TeamA: "Poland", TeamB: "Ukraine"},
				},
				FinalID: "UPA-F",
			},
		},
		Seeding: DefaultSeedingTable(),
	}
}
