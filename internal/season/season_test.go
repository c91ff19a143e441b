package season

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/utakatalp/league-engine/internal/league"
	"github.com/utakatalp/league-engine/internal/live"
)

func testTeams(n int) []*league.Team {
	teams := make([]*league.Team, n)
	for i := range teams {
		id := i + 1
		t := &league.Team{ID: id, Name: fmt.Sprintf("Club %d", id), Competition: "ES1"}
		for j := 0; j < 14; j++ {
			v := 50 + 8*id - j
			t.Roster = append(t.Roster, league.Player{
				ID: id*100 + j, Name: fmt.Sprintf("P%d", j),
				Speed: v, Stamina: v, Aggression: v, Quality: v, Goalkeeping: v, Tackling: v,
				Dribbling: v, Finishing: v, Passing: v, Shooting: v, Overall: v,
			})
		}
		teams[i] = t
	}
	return teams
}

func TestFixtureSeed(t *testing.T) {
	cases := []struct {
		master int64
		id     int
		want   int64
	}{
		{0, 7, 7},
		{42, 1, 43},
		{42, 42, 0},
		{-1, 1, -2},
	}
	for _, tc := range cases {
		if got := FixtureSeed(tc.master, tc.id); got != tc.want {
			t.Fatalf("FixtureSeed(%d, %d): expected %d, got %d", tc.master, tc.id, tc.want, got)
		}
	}
}

func TestRunMatchesSequentialBatchSimulation(t *testing.T) {
	teams := testTeams(6)
	s, err := Run(context.Background(), teams, Config{Seed: 99, Workers: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Fixtures) != 30 || len(s.Results) != 30 {
		t.Fatalf("expected 30 fixtures, got %d/%d", len(s.Fixtures), len(s.Results))
	}
	for i, f := range s.Fixtures {
		want := league.SimulateMatch(f.Home, f.Away, FixtureSeed(99, f.ID), nil, nil)
		if s.Results[i] != want {
			t.Fatalf("fixture %d: expected %+v, got %+v", f.ID, want, s.Results[i])
		}
	}

	played, points := 0, 0
	for _, row := range s.Table.Rows() {
		played += row.Played
		points += row.Points()
		if row.Played != 10 {
			t.Fatalf("team %d played %d matches, expected 10", row.TeamID, row.Played)
		}
	}
	if played != 60 {
		t.Fatalf("expected 60 appearances, got %d", played)
	}
	if points < 60 || points > 90 {
		t.Fatalf("points total %d outside [60, 90]", points)
	}
}

func TestRunIsIndependentOfWorkers(t *testing.T) {
	teams := testTeams(5)
	one, err := Run(context.Background(), teams, Config{Seed: 7, Workers: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	many, err := Run(context.Background(), teams, Config{Seed: 7, Workers: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(one.Results, many.Results) {
		t.Fatal("results depend on the worker count")
	}
	if !reflect.DeepEqual(one.Table.Sorted(), many.Table.Sorted()) {
		t.Fatal("table depends on the worker count")
	}
}

func TestRunErrors(t *testing.T) {
	if _, err := Run(context.Background(), testTeams(1), Config{}); !errors.Is(err, league.ErrNotEnoughTeams) {
		t.Fatalf("expected ErrNotEnoughTeams, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, testTeams(4), Config{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestControlledTeamPlaysLive(t *testing.T) {
	teams := testTeams(4)
	cfg := Config{Seed: 5, Controlled: 2, Live: live.Config{EventBoost: 1.2}, Decide: SimpleManager()}
	s, err := Run(context.Background(), teams, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, f := range s.Fixtures {
		seed := FixtureSeed(5, f.ID)
		var want league.MatchResult
		switch {
		case f.Home.ID == 2:
			want, err = PlayLive(context.Background(), cfg.Live, f, seed, league.Home, nil, cfg.Decide)
		case f.Away.ID == 2:
			want, err = PlayLive(context.Background(), cfg.Live, f, seed, league.Away, nil, cfg.Decide)
		default:
			want = league.SimulateMatch(f.Home, f.Away, seed, nil, nil)
		}
		if err != nil {
			t.Fatalf("fixture %d: %v", f.ID, err)
		}
		if s.Results[i] != want {
			t.Fatalf("fixture %d: expected %+v, got %+v", f.ID, want, s.Results[i])
		}
	}
}

func TestControlledDeciderIsNotCalledConcurrently(t *testing.T) {
	teams := testTeams(6)
	cases := []struct {
		name    string
		workers int
	}{
		{"sequential", 1},
		{"parallel", 8},
	}
	var want []league.MatchResult
	for _, tc := range cases {
		var inside, overlaps atomic.Int32
		calls := 0
		manager := SimpleManager()
		decide := func(side league.Side, req live.Request, st live.SessionState) live.Decision {
			if inside.Add(1) != 1 {
				overlaps.Add(1)
			}
			defer inside.Add(-1)
			calls++
			runtime.Gosched()
			return manager(side, req, st)
		}
		cfg := Config{Seed: 11, Workers: tc.workers, Controlled: 3, Decide: decide}
		s, err := Run(context.Background(), teams, cfg)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if n := overlaps.Load(); n != 0 {
			t.Fatalf("%s: expected no concurrent decider calls, got %d", tc.name, n)
		}
		if calls == 0 {
			t.Fatalf("%s: expected the decider to be asked, got 0 calls", tc.name)
		}
		if want == nil {
			want = s.Results
		} else if !reflect.DeepEqual(want, s.Results) {
			t.Fatalf("%s: expected results independent of workers, got %+v", tc.name, s.Results)
		}
	}
}

func TestPlayLiveSurvivesBadDecisions(t *testing.T) {
	teams := testTeams(2)
	f := league.Fixture{ID: 1, Matchday: 1, Home: teams[0], Away: teams[1]}
	bad := func(league.Side, live.Request, live.SessionState) live.Decision {
		return live.Decision{Order: live.Order(42)}
	}
	res, err := PlayLive(context.Background(), live.Config{}, f, 3, league.Away, nil, bad)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.HomeTeamID != 1 || res.AwayTeamID != 2 || res.Seed != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestSimpleManager(t *testing.T) {
	decide := SimpleManager()
	cases := []struct {
		name  string
		req   live.Request
		score [2]int
		want  live.Order
	}{
		{"level", live.Request{Minute: 70}, [2]int{1, 1}, live.OrderNone},
		{"trailing late", live.Request{Minute: 65}, [2]int{2, 1}, live.OrderAttack},
		{"trailing at the break", live.Request{Kind: live.DecisionHalftime, Minute: 45}, [2]int{1, 0}, live.OrderPress},
		{"leading late", live.Request{Minute: 80}, [2]int{0, 1}, live.OrderCalm},
		{"leading early", live.Request{Minute: 30}, [2]int{0, 1}, live.OrderNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := decide(league.Away, tc.req, live.SessionState{Score: tc.score})
			if got.Order != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got.Order)
			}
		})
	}
}

func TestChampionshipOdds(t *testing.T) {
	if testing.Short() {
		t.Skip("Monte-Carlo run")
	}
	teams := testTeams(4)
	fixtures, err := league.GenerateFixtures(teams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := Config{Seed: 11}

	preds, err := ChampionshipOdds(context.Background(), teams, fixtures, nil, 200, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(preds) != 4 {
		t.Fatalf("expected 4 predictions, got %d", len(preds))
	}
	total := 0.0
	for i, p := range preds {
		total += p.Probability
		if i > 0 && p.Probability > preds[i-1].Probability {
			t.Fatal("predictions not sorted")
		}
	}
	if math.Abs(total-100) > 0.05 {
		t.Fatalf("probabilities sum to %v", total)
	}
	if preds[0].Team.ID != 4 {
		t.Fatalf("expected the strongest club to be favourite, got %s", preds[0].Team.Name)
	}

	again, _ := ChampionshipOdds(context.Background(), teams, fixtures, nil, 200, cfg)
	if !reflect.DeepEqual(preds, again) {
		t.Fatal("odds are not reproducible")
	}
}

func TestChampionshipOddsAfterFinalMatchday(t *testing.T) {
	teams := testTeams(3)
	s, err := Run(context.Background(), teams, Config{Seed: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	preds, err := ChampionshipOdds(context.Background(), teams, s.Fixtures, s.Results, 10, Config{Seed: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	leader := s.Table.Sorted()[0].TeamID
	if preds[0].Team.ID != leader || preds[0].Probability != 100 {
		t.Fatalf("expected team %d certain, got %+v", leader, preds[0])
	}
	if none, _ := ChampionshipOdds(context.Background(), teams, s.Fixtures, s.Results, 0, Config{}); none != nil {
		t.Fatalf("expected nil for zero runs, got %v", none)
	}
}

func TestRemaining(t *testing.T) {
	teams := testTeams(3)
	fixtures, _ := league.GenerateFixtures(teams)
	played := []league.MatchResult{{HomeTeamID: fixtures[0].Home.ID, AwayTeamID: fixtures[0].Away.ID}}
	rest := Remaining(fixtures, played)
	if len(rest) != len(fixtures)-1 || rest[0].ID != fixtures[1].ID {
		t.Fatalf("expected all but the first fixture, got %d", len(rest))
	}
}

func TestPrinters(t *testing.T) {
	teams := testTeams(3)
	s, err := Run(context.Background(), teams, Config{Seed: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var buf bytes.Buffer
	PrintSchedule(&buf, "Schedule", s.Fixtures)
	PrintResults(&buf, "Results", s.Fixtures, s.Results)
	PrintTable(&buf, "Table", s.Table.Sorted(), Names(teams))
	PrintOdds(&buf, "Odds", []league.Prediction{{Team: teams[0], Probability: 12.5}})
	cup, err := RunCup(context.Background(), teams, Config{Seed: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	PrintCup(&buf, "Cup", cup)
	out := buf.String()
	for _, want := range []string{"Matchday 1:", "Club 1 vs", "Pts", "Club 3", "12.50%", "Round 2:", "Winner: " + cup.Champion.Name} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func BenchmarkRun(b *testing.B) {
	teams := testTeams(6)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Run(context.Background(), teams, Config{Seed: int64(i)}); err != nil {
			b.Fatal(err)
		}
	}
}
