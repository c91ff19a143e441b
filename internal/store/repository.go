package store

import (
	"context"
	"errors"

	"github.com/utakatalp/league-engine/internal/league"
)

var (
	// ErrTeamNotFound is returned when a team ID is unknown.
	ErrTeamNotFound = errors.New("store: team not found")
	// ErrFixtureNotFound is returned when a fixture ID is unknown.
	ErrFixtureNotFound = errors.New("store: fixture not found")
	// ErrAlreadyPlayed is returned when a result is saved twice for one fixture.
	ErrAlreadyPlayed = errors.New("store: fixture already played")
)

// Repository persists teams, the fixture calendar and results. Store (Postgres)
// and MemoryStore implement it.
type Repository interface {
	InsertTeams(ctx context.Context, teams []*league.Team) error
	GetTeams(ctx context.Context) ([]*league.Team, error)
	GetTeam(ctx context.Context, id int) (*league.Team, error)
	SaveFixtures(ctx context.Context, fixtures []league.Fixture) error
	GetFixtures(ctx context.Context) ([]league.Fixture, error)
	SaveResult(ctx context.Context, fixtureID int, res league.MatchResult) error
	LoadResults(ctx context.Context, uptoMatchday int) ([]league.MatchResult, error)
	GetTable(ctx context.Context) ([]league.Standing, error)
	Reset(ctx context.Context) error
}

var (
	_ Repository = (*Store)(nil)
	_ Repository = (*MemoryStore)(nil)
)
