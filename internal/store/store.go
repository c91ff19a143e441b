package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/utakatalp/league-engine/internal/league"
)

const pingTimeout = 5 * time.Second

// Store wraps a Postgres connection and provides methods to persist and retrieve league data.
type Store struct {
	DB *sql.DB
}

// NewStore opens a Postgres connection using the given connection string.
func NewStore(ctx context.Context, connStr string) (*Store, error) {
	if connStr == "" {
		return nil, fmt.Errorf("postgres connection string is required")
	}
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// verify early
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Store{DB: db}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Migrate creates the necessary tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS teams (
			id          INT  PRIMARY KEY,
			name        TEXT NOT NULL,
			competition TEXT NOT NULL DEFAULT ''
		);`,
		// Standings are folded from matches; older schemas kept counters here.
		`ALTER TABLE teams
			DROP COLUMN IF EXISTS played,
			DROP COLUMN IF EXISTS won,
			DROP COLUMN IF EXISTS drawn,
			DROP COLUMN IF EXISTS lost,
			DROP COLUMN IF EXISTS goals_for,
			DROP COLUMN IF EXISTS goals_against,
			DROP COLUMN IF EXISTS points;`,
		`CREATE TABLE IF NOT EXISTS players (
			id           INT  PRIMARY KEY,
			team_id      INT  NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
			roster_index INT  NOT NULL,
			name         TEXT NOT NULL,
			position     TEXT NOT NULL,
			speed        INT  NOT NULL,
			stamina      INT  NOT NULL,
			aggression   INT  NOT NULL,
			quality      INT  NOT NULL,
			goalkeeping  INT  NOT NULL,
			tackling     INT  NOT NULL,
			dribbling    INT  NOT NULL,
			finishing    INT  NOT NULL,
			passing      INT  NOT NULL,
			shooting     INT  NOT NULL,
			overall      INT  NOT NULL,
			form         INT  NOT NULL DEFAULT 0,
			morale       INT  NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS matches (
			id              INT    PRIMARY KEY,
			matchday        INT    NOT NULL,
			home_team       INT    NOT NULL REFERENCES teams(id),
			away_team       INT    NOT NULL REFERENCES teams(id),
			home_goals      INT,
			away_goals      INT,
			seed            BIGINT,
			home_strength   DOUBLE PRECISION,
			away_strength   DOUBLE PRECISION,
			home_red_cards  INT,
			away_red_cards  INT,
			home_disallowed INT,
			away_disallowed INT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_matches_matchday ON matches(matchday, id);`,
	}
	for _, q := range queries {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}
	return nil
}

// InsertTeams stores teams and their rosters in one transaction. Teams that
// already exist are skipped, roster included.
func (s *Store) InsertTeams(ctx context.Context, teams []*league.Team) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin InsertTeams tx: %w", err)
	}
	defer tx.Rollback()

	const teamQ = `
    INSERT INTO teams (id, name, competition)
    VALUES ($1, $2, $3)
    ON CONFLICT (id) DO NOTHING
    `
	const playerQ = `
    INSERT INTO players (id, team_id, roster_index, name, position, speed, stamina, aggression,
        quality, goalkeeping, tackling, dribbling, finishing, passing, shooting, overall, form, morale)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
    `
	for _, t := range teams {
		res, err := tx.ExecContext(ctx, teamQ, t.ID, t.Name, t.Competition)
		if err != nil {
			return fmt.Errorf("inserting team %d (%s): %w", t.ID, t.Name, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			continue
		}
		for i, p := range t.Roster {
			if _, err := tx.ExecContext(ctx, playerQ,
				p.ID, t.ID, i, p.Name, p.Position.String(),
				p.Speed, p.Stamina, p.Aggression, p.Quality, p.Goalkeeping,
				p.Tackling, p.Dribbling, p.Finishing, p.Passing, p.Shooting, p.Overall,
				p.Form, p.Morale,
			); err != nil {
				return fmt.Errorf("inserting player %d of team %d: %w", p.ID, t.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit InsertTeams tx: %w", err)
	}
	return nil
}

// GetTeams returns every team with its roster, ordered by ID.
func (s *Store) GetTeams(ctx context.Context) ([]*league.Team, error) {
	const q = `
        SELECT id, name, competition
        FROM teams
        ORDER BY id
    `
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	var teams []*league.Team
	byID := make(map[int]*league.Team)
	for rows.Next() {
		t := &league.Team{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Competition); err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, t)
		byID[t.ID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating teams rows: %w", err)
	}

	if err := s.loadRosters(ctx, byID, `WHERE TRUE`); err != nil {
		return nil, err
	}
	return teams, nil
}

// GetTeam returns one team with its roster.
func (s *Store) GetTeam(ctx context.Context, id int) (*league.Team, error) {
	t := &league.Team{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, name, competition FROM teams WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Competition)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrTeamNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying team %d: %w", id, err)
	}
	if err := s.loadRosters(ctx, map[int]*league.Team{id: t}, `WHERE team_id = $1`, id); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) loadRosters(ctx context.Context, byID map[int]*league.Team, where string, args ...any) error {
	q := `
    SELECT team_id, id, name, position, speed, stamina, aggression, quality, goalkeeping,
        tackling, dribbling, finishing, passing, shooting, overall, form, morale
    FROM players ` + where + `
    ORDER BY team_id, roster_index
    `
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("querying players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			teamID   int
			position string
			p        league.Player
		)
		if err := rows.Scan(&teamID, &p.ID, &p.Name, &position,
			&p.Speed, &p.Stamina, &p.Aggression, &p.Quality, &p.Goalkeeping,
			&p.Tackling, &p.Dribbling, &p.Finishing, &p.Passing, &p.Shooting, &p.Overall,
			&p.Form, &p.Morale,
		); err != nil {
			return fmt.Errorf("scanning player row: %w", err)
		}
		p.Position = ClassifyPosition(position)
		if t, ok := byID[teamID]; ok {
			t.Roster = append(t.Roster, p)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating player rows: %w", err)
	}
	return nil
}

// SaveFixtures replaces the calendar, dropping every stored result.
func (s *Store) SaveFixtures(ctx context.Context, fixtures []league.Fixture) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin SaveFixtures tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM matches`); err != nil {
		return fmt.Errorf("clearing matches: %w", err)
	}

	const q = `
INSERT INTO matches (id, matchday, home_team, away_team)
VALUES ($1, $2, $3, $4)
`
	for _, f := range fixtures {
		if f.Home == nil || f.Away == nil {
			return fmt.Errorf("saving fixture %d: missing team", f.ID)
		}
		if _, err := tx.ExecContext(ctx, q, f.ID, f.Matchday, f.Home.ID, f.Away.ID); err != nil {
			return fmt.Errorf("saving fixture %d: %w", f.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit SaveFixtures tx: %w", err)
	}
	return nil
}

// GetFixtures returns the calendar ordered by matchday, then ID, with teams
// (and rosters) resolved.
func (s *Store) GetFixtures(ctx context.Context) ([]league.Fixture, error) {
	teams, err := s.GetTeams(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]*league.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}

	rows, err := s.DB.QueryContext(ctx, `
SELECT id, matchday, home_team, away_team
FROM matches
ORDER BY matchday, id
`)
	if err != nil {
		return nil, fmt.Errorf("querying fixtures: %w", err)
	}
	defer rows.Close()

	var fixtures []league.Fixture
	for rows.Next() {
		var f league.Fixture
		var homeID, awayID int
		if err := rows.Scan(&f.ID, &f.Matchday, &homeID, &awayID); err != nil {
			return nil, fmt.Errorf("scanning fixture: %w", err)
		}
		f.Home, f.Away = byID[homeID], byID[awayID]
		fixtures = append(fixtures, f)
	}
	return fixtures, rows.Err()
}

// SaveResult stores a fixture's result. A fixture is played at most once.
func (s *Store) SaveResult(ctx context.Context, fixtureID int, res league.MatchResult) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin SaveResult tx: %w", err)
	}
	defer tx.Rollback()

	var homeID, awayID int
	var played bool
	err = tx.QueryRowContext(ctx,
		`SELECT home_team, away_team, home_goals IS NOT NULL FROM matches WHERE id = $1 FOR UPDATE`,
		fixtureID,
	).Scan(&homeID, &awayID, &played)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: id %d", ErrFixtureNotFound, fixtureID)
	}
	if err != nil {
		return fmt.Errorf("loading fixture %d: %w", fixtureID, err)
	}
	if played {
		return fmt.Errorf("%w: id %d", ErrAlreadyPlayed, fixtureID)
	}
	if homeID != res.HomeTeamID || awayID != res.AwayTeamID {
		return fmt.Errorf("saving result for fixture %d: teams %d-%d do not match the fixture", fixtureID, res.HomeTeamID, res.AwayTeamID)
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE matches
SET home_goals = $1, away_goals = $2, seed = $3, home_strength = $4, away_strength = $5,
    home_red_cards = $6, away_red_cards = $7, home_disallowed = $8, away_disallowed = $9
WHERE id = $10
`,
		res.HomeGoals, res.AwayGoals, res.Seed, res.HomeStrength, res.AwayStrength,
		res.HomeRedCards, res.AwayRedCards, res.HomeDisallowed, res.AwayDisallowed,
		fixtureID,
	); err != nil {
		return fmt.Errorf("saving match: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit SaveResult tx: %w", err)
	}
	return nil
}

// LoadResults fetches all played matches up to the specified matchday. A
// negative matchday loads everything.
func (s *Store) LoadResults(ctx context.Context, uptoMatchday int) ([]league.MatchResult, error) {
	query := `
SELECT home_team, away_team, seed, home_goals, away_goals, home_strength, away_strength,
    home_red_cards, away_red_cards, home_disallowed, away_disallowed
FROM matches
WHERE home_goals IS NOT NULL AND ($1 < 0 OR matchday <= $1)
ORDER BY matchday, id;
`
	rows, err := s.DB.QueryContext(ctx, query, uptoMatchday)
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	defer rows.Close()

	var results []league.MatchResult
	for rows.Next() {
		var r league.MatchResult
		if err := rows.Scan(&r.HomeTeamID, &r.AwayTeamID, &r.Seed, &r.HomeGoals, &r.AwayGoals,
			&r.HomeStrength, &r.AwayStrength, &r.HomeRedCards, &r.AwayRedCards,
			&r.HomeDisallowed, &r.AwayDisallowed,
		); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// GetTable folds every stored result into the table. Teams enter in ID order,
// which is the tiebreak once points, goal difference and goals for are level.
func (s *Store) GetTable(ctx context.Context) ([]league.Standing, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id FROM teams ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning team id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	results, err := s.LoadResults(ctx, -1)
	if err != nil {
		return nil, err
	}
	return league.NewTable(ids...).Fold(results).Sorted(), nil
}

// Reset deletes all matches, players and teams.
func (s *Store) Reset(ctx context.Context) error {
	for _, q := range []string{`DELETE FROM matches;`, `DELETE FROM players;`, `DELETE FROM teams;`} {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("resetting store: %w", err)
		}
	}
	return nil
}
