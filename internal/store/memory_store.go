package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/utakatalp/league-engine/internal/league"
)

type storedFixture struct {
	fixture league.Fixture
	result  *league.MatchResult
}

// MemoryStore keeps teams, fixtures and results in memory. It is safe for
// concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	teams    map[int]*league.Team
	order    []int
	fixtures map[int]*storedFixture
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		teams:    make(map[int]*league.Team),
		fixtures: make(map[int]*storedFixture),
	}
}

// InsertTeams adds teams; IDs already present are left untouched.
func (s *MemoryStore) InsertTeams(_ context.Context, teams []*league.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range teams {
		if _, ok := s.teams[t.ID]; ok {
			continue
		}
		s.teams[t.ID] = copyTeam(t)
		s.order = append(s.order, t.ID)
	}
	return nil
}

// GetTeams returns copies of all teams ordered by ID.
func (s *MemoryStore) GetTeams(_ context.Context) ([]*league.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.sortedIDs()
	teams := make([]*league.Team, 0, len(ids))
	for _, id := range ids {
		teams = append(teams, copyTeam(s.teams[id]))
	}
	return teams, nil
}

// GetTeam returns a copy of one team.
func (s *MemoryStore) GetTeam(_ context.Context, id int) (*league.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.teams[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrTeamNotFound, id)
	}
	return copyTeam(t), nil
}

// SaveFixtures replaces the calendar and clears all results.
func (s *MemoryStore) SaveFixtures(_ context.Context, fixtures []league.Fixture) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[int]*storedFixture, len(fixtures))
	for _, f := range fixtures {
		if f.Home == nil || f.Away == nil {
			return fmt.Errorf("saving fixture %d: missing team", f.ID)
		}
		for _, id := range []int{f.Home.ID, f.Away.ID} {
			if _, ok := s.teams[id]; !ok {
				return fmt.Errorf("saving fixture %d: %w: id %d", f.ID, ErrTeamNotFound, id)
			}
		}
		next[f.ID] = &storedFixture{fixture: f}
	}
	s.fixtures = next
	return nil
}

// GetFixtures returns the calendar ordered by matchday, then fixture ID.
func (s *MemoryStore) GetFixtures(_ context.Context) ([]league.Fixture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]league.Fixture, 0, len(s.fixtures))
	for _, sf := range s.sortedFixtures() {
		f := sf.fixture
		f.Home, f.Away = copyTeam(s.teams[f.Home.ID]), copyTeam(s.teams[f.Away.ID])
		out = append(out, f)
	}
	return out, nil
}

// SaveResult records the result of a fixture exactly once.
func (s *MemoryStore) SaveResult(_ context.Context, fixtureID int, res league.MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sf, ok := s.fixtures[fixtureID]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrFixtureNotFound, fixtureID)
	}
	if sf.result != nil {
		return fmt.Errorf("%w: id %d", ErrAlreadyPlayed, fixtureID)
	}
	if res.HomeTeamID != sf.fixture.Home.ID || res.AwayTeamID != sf.fixture.Away.ID {
		return fmt.Errorf("saving result for fixture %d: teams %d-%d do not match the fixture", fixtureID, res.HomeTeamID, res.AwayTeamID)
	}
	sf.result = &res
	return nil
}

// LoadResults returns played results up to and including uptoMatchday, in
// calendar order.
func (s *MemoryStore) LoadResults(_ context.Context, uptoMatchday int) ([]league.MatchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results(uptoMatchday), nil
}

// GetTable folds every played result into a sorted table.
func (s *MemoryStore) GetTable(_ context.Context) ([]league.Standing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table := league.NewTable(s.sortedIDs()...).Fold(s.results(-1))
	return table.Sorted(), nil
}

// Reset drops everything.
func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.teams = make(map[int]*league.Team)
	s.order = nil
	s.fixtures = make(map[int]*storedFixture)
	return nil
}

// uptoMatchday < 0 means all.
func (s *MemoryStore) results(uptoMatchday int) []league.MatchResult {
	var out []league.MatchResult
	for _, sf := range s.sortedFixtures() {
		if sf.result == nil || (uptoMatchday >= 0 && sf.fixture.Matchday > uptoMatchday) {
			continue
		}
		out = append(out, *sf.result)
	}
	return out
}

func (s *MemoryStore) sortedIDs() []int {
	ids := append([]int(nil), s.order...)
	sort.Ints(ids)
	return ids
}

func (s *MemoryStore) sortedFixtures() []*storedFixture {
	out := make([]*storedFixture, 0, len(s.fixtures))
	for _, sf := range s.fixtures {
		out = append(out, sf)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].fixture, out[j].fixture
		if a.Matchday != b.Matchday {
			return a.Matchday < b.Matchday
		}
		return a.ID < b.ID
	})
	return out
}

func copyTeam(t *league.Team) *league.Team {
	c := *t
	c.Roster = append([]league.Player(nil), t.Roster...)
	return &c
}
