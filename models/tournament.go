package models

import (
	"encoding/json"
	"time"
)

// Phase is the lifecycle position of a tournament. Stage transitions only ever
// move forward; PhaseComplete is terminal and rejects every further mutation.
type Phase string

const (
	PhasePlayoffs  Phase = "playoffs"
	PhaseGroups    Phase = "groups"
	PhaseKnockouts Phase = "knockouts"
	PhaseComplete  Phase = "complete"
)

// Group is a complete round-robin among exactly four teams: six matches,
// partitioned into three matchdays of two fixtures each.
type Group struct {
	ID      string   `json:"id"`
	Teams   []string `json:"teams"`
	Matches []*Match `json:"matches"`
}

// PlayoffBracket is a single-elimination mini-tournament whose final winner
// fills the group slot named by SlotName. Two shapes occur: Round1 feeding the
// final against a preseeded opponent, or two Semifinals feeding the final.
type PlayoffBracket struct {
	Key        string   `json:"key"`
	SlotName   string   `json:"slot_name"`
	Round1     []*Match `json:"round1,omitempty"`
	Semifinals []*Match `json:"semifinals,omitempty"`
	Final      *Match   `json:"final"`
}

// AllMatches returns every fixture of the bracket in play order.
func (b *PlayoffBracket) AllMatches() []*Match {
	out := make([]*Match, 0, len(b.Round1)+len(b.Semifinals)+1)
	out = append(out, b.Round1...)
	out = append(out, b.Semifinals...)
	if b.Final != nil {
		out = append(out, b.Final)
	}
	return out
}

// KnockoutRound holds one elimination round's matches in bracket order.
type KnockoutRound []*Match

// TournamentState is the aggregate root: playoffs, groups and the knockout
// progression of a single tournament instance. It is the unit of persistence
// and of optimistic concurrency; engine operations take a snapshot and either
// fully apply or leave it untouched.
type TournamentState struct {
	ID         string                  `json:"id"`
	Phase      Phase                   `json:"phase"`
	CreatedAt  time.Time               `json:"created_at"`
	Playoffs   []*PlayoffBracket       `json:"playoffs,omitempty"`
	Groups     []*Group                `json:"groups"`
	Knockouts  map[Stage]KnockoutRound `json:"knockouts"`
	Final      *Match                  `json:"final,omitempty"`
	ThirdPlace *Match                  `json:"third_place,omitempty"`
	Closed     map[Stage]bool          `json:"closed"`
	Champion   string                  `json:"champion,omitempty"`
}

// Clone deep-copies the state via a JSON round trip. Engine operations run on
// a clone so a failed validation never leaks partial mutation into the stored
// snapshot.
func (s *TournamentState) Clone() (*TournamentState, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out TournamentState
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out.Knockouts == nil {
		out.Knockouts = make(map[Stage]KnockoutRound)
	}
	if out.Closed == nil {
		out.Closed = make(map[Stage]bool)
	}
	return &out, nil
}

// Group returns the group with the given identifier, or nil.
func (s *TournamentState) Group(id string) *Group {
	for _, g := range s.Groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// FindMatch locates a match anywhere in the state by its canonical reference.
// The owning playoff bracket is returned alongside playoff fixtures so the
// caller can progress the bracket after a result lands.
func (s *TournamentState) FindMatch(ref MatchRef) (*Match, *PlayoffBracket) {
	for _, b := range s.Playoffs {
		for _, m := range b.AllMatches() {
			if m.ID == ref {
				return m, b
			}
		}
	}
	for _, g := range s.Groups {
		for _, m := range g.Matches {
			if m.ID == ref {
				return m, nil
			}
		}
	}
	for _, round := range s.Knockouts {
		for _, m := range round {
			if m.ID == ref {
				return m, nil
			}
		}
	}
	if s.Final != nil && s.Final.ID == ref {
		return s.Final, nil
	}
	if s.ThirdPlace != nil && s.ThirdPlace.ID == ref {
		return s.ThirdPlace, nil
	}
	return nil, nil
}
