package league

import "sort"

// SquadSize is the number of players that take the field.
const SquadSize = 11

// MatchSquad is the starting eleven picked for one match, ordered by rating.
// Bands are assigned by index into that order, not by Position: a strong
// midfielder can end up in the defensive band.
type MatchSquad struct {
	Players []Player
}

// SelectSquad sorts a copy of the roster by Overall descending and keeps the
// first eleven. Players with equal Overall keep their roster order, so no scored
// attribute can move a player between bands.
func SelectSquad(team *Team) MatchSquad {
	if team == nil {
		return MatchSquad{}
	}
	return selectFrom(team.Roster)
}

func selectFrom(roster []Player) MatchSquad {
	sorted := sortedByRating(roster)
	if len(sorted) > SquadSize {
		sorted = sorted[:SquadSize]
	}
	return MatchSquad{Players: sorted}
}

func sortedByRating(roster []Player) []Player {
	sorted := make([]Player, len(roster))
	copy(sorted, roster)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Overall > sorted[j].Overall
	})
	return sorted
}

// NewMatchSquad builds a squad from an explicit set of players, re-sorting them
// the same way SelectSquad does.
func NewMatchSquad(players []Player) MatchSquad {
	return selectFrom(players)
}

// Bench returns the roster players not picked by SelectSquad, best first.
func Bench(team *Team) []Player {
	if team == nil || len(team.Roster) <= SquadSize {
		return nil
	}
	sorted := sortedByRating(team.Roster)
	return sorted[SquadSize:]
}

func (s MatchSquad) Len() int { return len(s.Players) }

func (s MatchSquad) band(from, to int) []Player {
	if from >= len(s.Players) {
		return nil
	}
	if to > len(s.Players) {
		to = len(s.Players)
	}
	return s.Players[from:to]
}

// Goalkeeper is index 0.
func (s MatchSquad) Goalkeeper() []Player { return s.band(0, 1) }

// Defenders are indices 1 to 4.
func (s MatchSquad) Defenders() []Player { return s.band(1, 5) }

// Midfielders are indices 5 to 8.
func (s MatchSquad) Midfielders() []Player { return s.band(5, 9) }

// Forwards are indices 9 and 10.
func (s MatchSquad) Forwards() []Player { return s.band(9, 11) }
