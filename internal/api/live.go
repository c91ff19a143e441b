package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/utakatalp/league-engine/internal/league"
	"github.com/utakatalp/league-engine/internal/live"
	"github.com/utakatalp/league-engine/internal/logging"
	"github.com/utakatalp/league-engine/internal/metrics"
)

// maxAutoTicks bounds a tick request that plays on until the next decision.
const maxAutoTicks = 2000

type openLiveRequest struct {
	HomeID int            `json:"home_id"`
	AwayID int            `json:"away_id"`
	Side   league.Side    `json:"side"`
	Seed   *int64         `json:"seed,omitempty"`
	Tactic *league.Tactic `json:"tactic,omitempty"`
}

type liveView struct {
	ID      string            `json:"id"`
	HomeID  int               `json:"home_id"`
	AwayID  int               `json:"away_id"`
	Side    league.Side       `json:"side"`
	Pending *live.Request     `json:"pending,omitempty"`
	State   live.SessionState `json:"state"`
}

type eventsView struct {
	Next   int          `json:"next"`
	Events []live.Event `json:"events"`
}

func viewOf(sess *session) liveView {
	v := liveView{
		ID:     sess.id.String(),
		HomeID: sess.homeID,
		AwayID: sess.awayID,
		Side:   sess.engine.Side(),
		State:  sess.engine.State(),
	}
	if req, ok := sess.engine.Pending(); ok {
		v.Pending = &req
	}
	return v
}

func (s *Server) openLive(w http.ResponseWriter, r *http.Request) {
	var req openLiveRequest
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
	if req.Tactic != nil {
		// A bad tactic is refused up front rather than at the first decision.
		if err := live.ValidateTactic(*req.Tactic); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	seed := s.seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	e := live.New(s.live, home, away, seed, req.Side, req.Tactic)
	sess := s.sessions.open(e, home.ID, away.ID)
	logging.Info(s.loggerFor(r), "live session opened",
		logging.FieldSession, sess.id.String(),
		logging.FieldSeed, seed,
	)

	sess.mu.Lock()
	view := viewOf(sess)
	sess.mu.Unlock()
	writeJSON(w, http.StatusCreated, view, s.loggerFor(r))
}

func (s *Server) getLive(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sess.mu.Lock()
	view := viewOf(sess)
	sess.mu.Unlock()
	writeJSON(w, http.StatusOK, view, s.loggerFor(r))
}

func (s *Server) closeLive(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.close(mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// tickLive advances the match one step. With ?until=decision it keeps going
// until the engine asks for a decision or the match ends.
func (s *Server) tickLive(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	untilDecision := false
	switch r.URL.Query().Get("until") {
	case "":
	case "decision":
		untilDecision = true
	default:
		s.fail(w, r, badRequest("until must be \"decision\""))
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	var out live.Outcome
	for i := 0; i < maxAutoTicks; i++ {
		out, err = sess.engine.Tick()
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if !untilDecision || out.Kind != live.OutcomeContinue {
			break
		}
	}
	if out.Kind == live.OutcomeFinished && !sess.recorded {
		sess.recorded = true
		s.metrics.RecordMatch(metrics.ModeLive, *out.Result)
		logging.Info(s.loggerFor(r), "live match finished",
			logging.FieldSession, sess.id.String(),
			"home_goals", out.Result.HomeGoals,
			"away_goals", out.Result.AwayGoals,
		)
	}
	writeJSON(w, http.StatusOK, out, s.loggerFor(r))
}

func (s *Server) resolveLive(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var d live.Decision
	if err := decodeJSON(r, &d); err != nil {
		s.fail(w, r, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	req, pending := sess.engine.Pending()
	if err := sess.engine.Resolve(d); err != nil {
		s.fail(w, r, err)
		return
	}
	if pending {
		s.metrics.RecordDecision(req.Kind.String())
	}
	writeJSON(w, http.StatusOK, viewOf(sess), s.loggerFor(r))
}

func (s *Server) liveEvents(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	from := 0
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err = strconv.Atoi(raw)
		if err != nil || from < 0 {
			s.fail(w, r, badRequest("from must be a non-negative integer"))
			return
		}
	}

	sess.mu.Lock()
	events := sess.engine.Events(from)
	sess.mu.Unlock()

	if events == nil {
		events = []live.Event{}
	}
	writeJSON(w, http.StatusOK, eventsView{Next: from + len(events), Events: events}, s.loggerFor(r))
}
