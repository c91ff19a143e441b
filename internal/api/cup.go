package api

import (
	"net/http"

	"github.com/utakatalp/league-engine/internal/league"
	"github.com/utakatalp/league-engine/internal/season"
)

type cupRequest struct {
	// TeamIDs is the draw order; empty means every team in the store.
	TeamIDs []int                  `json:"team_ids,omitempty"`
	Seed    *int64                 `json:"seed,omitempty"`
	Tactics map[int]*league.Tactic `json:"tactics,omitempty"`
}

type cupTieView struct {
	Round     int              `json:"round"`
	ID        int              `json:"id"`
	HomeID    int              `json:"home_id"`
	AwayID    int              `json:"away_id"`
	HomeGoals int              `json:"home_goals"`
	AwayGoals int              `json:"away_goals"`
	Shootout  *league.Shootout `json:"shootout,omitempty"`
	WinnerID  int              `json:"winner_id"`
}

type cupResponse struct {
	Ties       []cupTieView `json:"ties"`
	ChampionID int          `json:"champion_id"`
	Champion   string       `json:"champion"`
}

func (s *Server) playCup(w http.ResponseWriter, r *http.Request) {
	var req cupRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	ctx := r.Context()
	var teams []*league.Team
	if len(req.TeamIDs) == 0 {
		all, err := s.repo.GetTeams(ctx)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		teams = all
	} else {
		seen := make(map[int]bool, len(req.TeamIDs))
		for _, id := range req.TeamIDs {
			if seen[id] {
				s.fail(w, r, badRequest("team %d is drawn twice", id))
				return
			}
			seen[id] = true
			t, err := s.repo.GetTeam(ctx, id)
			if err != nil {
				s.fail(w, r, err)
				return
			}
			teams = append(teams, t)
		}
	}

	cfg := s.seasonConfig(req.Tactics)
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	}
	cup, err := season.RunCup(ctx, teams, cfg)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := cupResponse{
		Ties:       make([]cupTieView, 0, len(cup.Ties)),
		ChampionID: cup.Champion.ID,
		Champion:   cup.Champion.Name,
	}
	for _, tie := range cup.Ties {
		resp.Ties = append(resp.Ties, cupTieView{
			Round:     tie.Round,
			ID:        tie.Fixture.ID,
			HomeID:    tie.Fixture.Home.ID,
			AwayID:    tie.Fixture.Away.ID,
			HomeGoals: tie.Result.HomeGoals,
			AwayGoals: tie.Result.AwayGoals,
			Shootout:  tie.Shootout,
			WinnerID:  tie.Winner.ID,
		})
	}
	writeJSON(w, http.StatusOK, resp, s.loggerFor(r))
}
