package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/utakatalp/league-engine/internal/league"
	"github.com/utakatalp/league-engine/internal/logging"
	"github.com/utakatalp/league-engine/internal/metrics"
	"github.com/utakatalp/league-engine/internal/season"
)

type teamSummary struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Competition string  `json:"competition"`
	Players     int     `json:"players"`
	Strength    float64 `json:"strength"`
}

type standingRow struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	league.Standing
	GoalDifference int `json:"goal_difference"`
	Points         int `json:"points"`
}

type fixtureRow struct {
	ID       int                 `json:"id"`
	Matchday int                 `json:"matchday"`
	HomeID   int                 `json:"home_id"`
	Home     string              `json:"home"`
	AwayID   int                 `json:"away_id"`
	Away     string              `json:"away"`
	Result   *league.MatchResult `json:"result,omitempty"`
}

type oddsRow struct {
	TeamID      int     `json:"team_id"`
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"live_sessions": s.sessions.len(),
	}, s.loggerFor(r))
}

func (s *Server) listTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.repo.GetTeams(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]teamSummary, 0, len(teams))
	for _, t := range teams {
		out = append(out, teamSummary{
			ID:          t.ID,
			Name:        t.Name,
			Competition: t.Competition,
			Players:     len(t.Roster),
			Strength:    league.TeamStrength(t, nil, false),
		})
	}
	writeJSON(w, http.StatusOK, out, s.loggerFor(r))
}

func (s *Server) getTeam(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, badRequest("invalid team id"))
		return
	}
	team, err := s.repo.GetTeam(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, team, s.loggerFor(r))
}

func (s *Server) getTable(w http.ResponseWriter, r *http.Request) {
	table, err := s.repo.GetTable(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	names, err := s.teamNames(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, standingRows(table, names), s.loggerFor(r))
}

func standingRows(table []league.Standing, names map[int]string) []standingRow {
	rows := make([]standingRow, len(table))
	for i, st := range table {
		rows[i] = standingRow{
			Position:       i + 1,
			Name:           names[st.TeamID],
			Standing:       st,
			GoalDifference: st.GoalDifference(),
			Points:         st.Points(),
		}
	}
	return rows
}

func (s *Server) teamNames(r *http.Request) (map[int]string, error) {
	teams, err := s.repo.GetTeams(r.Context())
	if err != nil {
		return nil, err
	}
	return season.Names(teams), nil
}

func (s *Server) listFixtures(w http.ResponseWriter, r *http.Request) {
	rows, err := s.fixtureRows(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows, s.loggerFor(r))
}

func (s *Server) fixtureRows(ctx context.Context) ([]fixtureRow, error) {
	fixtures, err := s.repo.GetFixtures(ctx)
	if err != nil {
		return nil, err
	}
	played, err := s.repo.LoadResults(ctx, -1)
	if err != nil {
		return nil, err
	}
	byPair := make(map[[2]int]league.MatchResult, len(played))
	for _, res := range played {
		byPair[[2]int{res.HomeTeamID, res.AwayTeamID}] = res
	}

	out := make([]fixtureRow, 0, len(fixtures))
	for _, f := range fixtures {
		row := fixtureRow{
			ID:       f.ID,
			Matchday: f.Matchday,
			HomeID:   f.Home.ID,
			Home:     f.Home.Name,
			AwayID:   f.Away.ID,
			Away:     f.Away.Name,
		}
		if res, ok := byPair[[2]int{f.Home.ID, f.Away.ID}]; ok {
			row.Result = &res
		}
		out = append(out, row)
	}
	return out, nil
}

// createFixtures draws a fresh double round robin between every stored team.
// Any previous calendar and its results are discarded.
func (s *Server) createFixtures(w http.ResponseWriter, r *http.Request) {
	teams, err := s.repo.GetTeams(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	fixtures, err := league.GenerateFixtures(teams)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.repo.SaveFixtures(r.Context(), fixtures); err != nil {
		s.fail(w, r, err)
		return
	}
	logging.Info(s.loggerFor(r), "fixtures generated",
		logging.FieldTeams, len(teams),
		logging.FieldCount, len(fixtures),
	)
	rows, err := s.fixtureRows(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rows, s.loggerFor(r))
}

type playRequest struct {
	// Matchday plays every unplayed fixture up to and including it; zero plays
	// the rest of the season.
	Matchday int                    `json:"matchday"`
	Tactics  map[int]*league.Tactic `json:"tactics,omitempty"`
}

type playResponse struct {
	Played int           `json:"played"`
	Table  []standingRow `json:"table"`
}

// playSeason simulates the unplayed fixtures on the batch engine and stores the
// results. Each fixture uses its season seed, so replaying a reset calendar
// gives the same results.
func (s *Server) playSeason(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Matchday < 0 {
		s.fail(w, r, badRequest("matchday must not be negative"))
		return
	}

	ctx := r.Context()
	fixtures, err := s.repo.GetFixtures(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	played, err := s.repo.LoadResults(ctx, -1)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var todo []league.Fixture
	for _, f := range season.Remaining(fixtures, played) {
		if req.Matchday == 0 || f.Matchday <= req.Matchday {
			todo = append(todo, f)
		}
	}

	results, err := season.SimulateFixtures(ctx, todo, s.seasonConfig(req.Tactics))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	for i, res := range results {
		if err := s.repo.SaveResult(ctx, todo[i].ID, res); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	logging.Info(s.loggerFor(r), "season played",
		logging.FieldMatchday, req.Matchday,
		logging.FieldCount, len(results),
	)

	table, err := s.repo.GetTable(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	names, err := s.teamNames(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playResponse{Played: len(results), Table: standingRows(table, names)}, s.loggerFor(r))
}

// resetSeason clears every result and keeps the calendar.
func (s *Server) resetSeason(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fixtures, err := s.repo.GetFixtures(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.repo.SaveFixtures(ctx, fixtures); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) seasonConfig(tactics map[int]*league.Tactic) season.Config {
	return season.Config{
		Seed:      s.seed,
		Workers:   s.workers,
		Simulator: s.simulator,
		Tactics:   tactics,
		Logger:    s.logger,
		Metrics:   s.metrics,
	}
}

func (s *Server) getOdds(w http.ResponseWriter, r *http.Request) {
	runs := s.oddsRuns
	if raw := r.URL.Query().Get("runs"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxOddsRuns {
			s.fail(w, r, badRequest("runs must be between 1 and %d", maxOddsRuns))
			return
		}
		runs = n
	}

	ctx := r.Context()
	teams, err := s.repo.GetTeams(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	fixtures, err := s.repo.GetFixtures(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	played, err := s.repo.LoadResults(ctx, -1)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	preds, err := season.ChampionshipOdds(ctx, teams, fixtures, played, runs, s.seasonConfig(nil))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]oddsRow, 0, len(preds))
	for _, p := range preds {
		out = append(out, oddsRow{TeamID: p.Team.ID, Name: p.Team.Name, Probability: p.Probability})
	}
	writeJSON(w, http.StatusOK, out, s.loggerFor(r))
}

type simulateRequest struct {
	HomeID     int            `json:"home_id"`
	AwayID     int            `json:"away_id"`
	Seed       *int64         `json:"seed,omitempty"`
	HomeTactic *league.Tactic `json:"home_tactic,omitempty"`
	AwayTactic *league.Tactic `json:"away_tactic,omitempty"`
	// Knockout settles a draw with a penalty shootout.
	Knockout bool `json:"knockout,omitempty"`
}

type simulateResponse struct {
	league.MatchResult
	Shootout *league.Shootout `json:"shootout,omitempty"`
	Winner   *league.Side     `json:"winner,omitempty"`
	Injuries []league.Injury  `json:"injuries"`
}

func (s *Server) simulateMatch(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.HomeID == req.AwayID {
		s.fail(w, r, badRequest("a team cannot play itself"))
		return
	}
	home, err := s.repo.GetTeam(r.Context(), req.HomeID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	away, err := s.repo.GetTeam(r.Context(), req.AwayID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	seed := s.seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	res := s.simulator.Simulate(home, away, seed, req.HomeTactic, req.AwayTactic)
	s.metrics.RecordMatch(metrics.ModeBatch, res)

	resp := simulateResponse{MatchResult: res, Injuries: league.BatchInjuries(home, away, seed)}
	if resp.Injuries == nil {
		resp.Injuries = []league.Injury{}
	}
	if side, ok := res.Winner(); ok {
		resp.Winner = &side
	} else if req.Knockout {
		so := league.PenaltyShootout(home, away, seed)
		side := so.Winner()
		resp.Shootout, resp.Winner = &so, &side
	}
	writeJSON(w, http.StatusOK, resp, s.loggerFor(r))
}
