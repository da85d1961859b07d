package brackets

import (
	"fmt"
	"strings"

	"github.com/footylab/prediction-engine/models"
)

// SeedingRule maps one round-of-32 slot to its source rule. Rules use the
// token grammar "<left> vs <right>" where a token is either "1X" (winner of
// group X), "2X" (runner-up of group X) or "best3rd" (the next team taken, in
// ranked order, from the cross-group third-place ranking).
type SeedingRule struct {
	Slot string `json:"slot"`
	Rule string `json:"rule"`
}

// SeedingTable is the fixed mapping from group positions to round-of-32
// bracket slots. It is configuration input, not a computed value, and must use
// every group winner, every runner-up and exactly eight third-placed teams
// once each.
type SeedingTable []SeedingRule

// DefaultSeedingTable returns the shipped bracket layout for the 12-group,
// 48-team format. Deployments with an official layout override it through the
// tournament template.
func DefaultSeedingTable() SeedingTable {
	return SeedingTable{
		{Slot: "R32_01", Rule: "1A vs best3rd"},
		{Slot: "R32_02", Rule: "2B vs 2C"},
		{Slot: "R32_03", Rule: "1D vs best3rd"},
		{Slot: "R32_04", Rule: "1G vs 2H"},
		{Slot: "R32_05", Rule: "1B vs best3rd"},
		{Slot: "R32_06", Rule: "1E vs 2F"},
		{Slot: "R32_07", Rule: "1I vs best3rd"},
		{Slot: "R32_08", Rule: "2K vs 2L"},
		{Slot: "R32_09", Rule: "1C vs best3rd"},
		{Slot: "R32_10", Rule: "1F vs 2E"},
		{Slot: "R32_11", Rule: "1H vs 2G"},
		{Slot: "R32_12", Rule: "1J vs best3rd"},
		{Slot: "R32_13", Rule: "1K vs best3rd"},
		{Slot: "R32_14", Rule: "2A vs 2D"},
		{Slot: "R32_15", Rule: "1L vs best3rd"},
		{Slot: "R32_16", Rule: "2I vs 2J"},
	}
}

// seedSources holds the resolved group outcomes a seeding table draws from.
// thirdQueue is consumed front-to-back as "best3rd" tokens resolve.
type seedSources struct {
	winners    map[string]string
	runnersUp  map[string]string
	thirdQueue []string
}

func (src *seedSources) resolve(token string) (string, error) {
	token = strings.TrimSpace(token)
	switch {
	case token == "best3rd":
		if len(src.thirdQueue) == 0 {
			return "", fmt.Errorf("%w: seeding table consumes more third-placed teams than qualify", ErrMalformedState)
		}
		team := src.thirdQueue[0]
		src.thirdQueue = src.thirdQueue[1:]
		return team, nil
	case strings.HasPrefix(token, "1") && len(token) >= 2:
		if team, ok := src.winners[token[1:]]; ok {
			return team, nil
		}
		return "", fmt.Errorf("%w: seeding token %q names an unknown group", ErrMalformedState, token)
	case strings.HasPrefix(token, "2") && len(token) >= 2:
		if team, ok := src.runnersUp[token[1:]]; ok {
			return team, nil
		}
		return "", fmt.Errorf("%w: seeding token %q names an unknown group", ErrMalformedState, token)
	}
	return "", fmt.Errorf("%w: unrecognized seeding token %q", ErrMalformedState, token)
}

// pair resolves one "<left> vs <right>" rule into its two teams.
func (src *seedSources) pair(rule SeedingRule) (string, string, error) {
	parts := strings.SplitN(rule.Rule, "vs", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: seeding rule %q for slot %s is not of the form \"<a> vs <b>\"", ErrMalformedState, rule.Rule, rule.Slot)
	}
	teamA, err := src.resolve(parts[0])
	if err != nil {
		return "", "", err
	}
	teamB, err := src.resolve(parts[1])
	if err != nil {
		return "", "", err
	}
	return teamA, teamB, nil
}

func newSeedSources(groups []*models.Group) *seedSources {
	src := &seedSources{
		winners:   make(map[string]string, len(groups)),
		runnersUp: make(map[string]string, len(groups)),
	}
	for _, g := range groups {
		ranked := GroupStandings(g)
		if len(ranked) < 2 {
			continue
		}
		src.winners[g.ID] = ranked[0].Team
		src.runnersUp[g.ID] = ranked[1].Team
	}
	for _, third := range BestThirdPlaces(groups, qualifyingThirdPlaces) {
		src.thirdQueue = append(src.thirdQueue, third.Row.Team)
	}
	return src
}
