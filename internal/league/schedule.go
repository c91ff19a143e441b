package league

import (
	"errors"
	"fmt"
)

var (
	// ErrNotEnoughTeams is returned when a schedule is requested for fewer than two teams.
	ErrNotEnoughTeams = errors.New("league: at least two teams are required")
	// ErrDuplicateTeam is returned when the same team ID appears twice.
	ErrDuplicateTeam = errors.New("league: duplicate team")
)

// GenerateFixtures returns a double round-robin calendar. The first leg uses the
// circle method: the first team stays put and the rest rotate one place per
// round, with a bye added for an odd number of teams. The second leg repeats the
// first in the same order with home and away swapped. N teams always yield
// N*(N-1) fixtures, numbered from 1.
func GenerateFixtures(teams []*Team) ([]Fixture, error) {
	if len(teams) < 2 {
		return nil, ErrNotEnoughTeams
	}
	seen := make(map[int]bool, len(teams))
	for _, t := range teams {
		if t == nil {
			return nil, fmt.Errorf("league: nil team in schedule")
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("%w: id %d", ErrDuplicateTeam, t.ID)
		}
		seen[t.ID] = true
	}

	// Work on a copy; nil is the bye.
	rotation := make([]*Team, len(teams), len(teams)+1)
	copy(rotation, teams)
	if len(rotation)%2 != 0 {
		rotation = append(rotation, nil)
	}
	n := len(rotation)
	rounds := n - 1

	fixtures := make([]Fixture, 0, len(teams)*(len(teams)-1))
	for round := 0; round < rounds; round++ {
		for m := 0; m < n/2; m++ {
			home, away := rotation[m], rotation[n-1-m]
			if home != nil && away != nil {
				fixtures = append(fixtures, Fixture{Matchday: round + 1, Home: home, Away: away})
			}
		}
		last := rotation[n-1]
		copy(rotation[2:], rotation[1:n-1])
		rotation[1] = last
	}

	firstLeg := len(fixtures)
	for i := 0; i < firstLeg; i++ {
		f := fixtures[i]
		fixtures = append(fixtures, Fixture{Matchday: f.Matchday + rounds, Home: f.Away, Away: f.Home})
	}
	for i := range fixtures {
		fixtures[i].ID = i + 1
	}
	return fixtures, nil
}

// GenerateKnockout pairs teams in order (first v second, third v fourth, ...)
// for single-leg cup ties, one matchday per tie starting at startMatchday. A
// trailing odd team gets no fixture.
func GenerateKnockout(teams []*Team, startMatchday int) []Fixture {
	fixtures := make([]Fixture, 0, len(teams)/2)
	for i := 0; i+1 < len(teams); i += 2 {
		idx := i / 2
		fixtures = append(fixtures, Fixture{
			ID:       idx + 1,
			Matchday: startMatchday + idx,
			Home:     teams[i],
			Away:     teams[i+1],
		})
	}
	return fixtures
}

// Rounds groups fixtures by matchday, in matchday order.
func Rounds(fixtures []Fixture) [][]Fixture {
	var rounds [][]Fixture
	index := make(map[int]int)
	for _, f := range fixtures {
		i, ok := index[f.Matchday]
		if !ok {
			i = len(rounds)
			index[f.Matchday] = i
			rounds = append(rounds, nil)
		}
		rounds[i] = append(rounds[i], f)
	}
	return rounds
}
