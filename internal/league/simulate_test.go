package league

import "testing"

type score struct{ home, away int }

func playAll(t *testing.T, home, away *Team, seeds []int64, ht, at *Tactic, want []score) {
	t.Helper()
	for i, seed := range seeds {
		res := SimulateMatch(home, away, seed, ht, at)
		if res.HomeGoals != want[i].home || res.AwayGoals != want[i].away {
			t.Fatalf("seed %d: expected %d-%d, got %d-%d", seed, want[i].home, want[i].away, res.HomeGoals, res.AwayGoals)
		}
	}
}

func seedRange(from, to int64) []int64 {
	var seeds []int64
	for s := from; s <= to; s++ {
		seeds = append(seeds, s)
	}
	return seeds
}

func TestSimulateMatchReferenceScorelines(t *testing.T) {
	a := uniformTeam(1, "ES1", 11, 80, 0)
	b := uniformTeam(2, "ES1", 11, 70, 0)
	want := []score{{0, 2}, {0, 3}, {2, 1}, {0, 0}, {0, 0}, {1, 1}, {2, 3}, {0, 1}, {2, 1}, {3, 1}, {0, 1}, {4, 4}}
	playAll(t, a, b, seedRange(1, 12), nil, nil, want)
}

func TestSimulateMatchMixedRostersAndCompetitions(t *testing.T) {
	c := uniformTeam(3, "GB1", 16, 75, 2)
	d := uniformTeam(4, "L1", 14, 68, 1)
	want := []score{{2, 4}, {1, 2}, {1, 1}, {0, 1}, {1, 1}}
	playAll(t, c, d, []int64{7, 42, 1000, 123456789, -5}, nil, nil, want)
}

func TestSimulateMatchWithTactics(t *testing.T) {
	a := uniformTeam(1, "ES1", 11, 80, 0)
	b := uniformTeam(2, "ES1", 11, 70, 0)
	ht := &Tactic{Style: StyleAttacking, Pressing: PressingHigh, Fouls: FoulsHard, CounterAttackPct: 30, TimeWasting: true}
	at := &Tactic{Style: StyleDefensive, Marking: MarkingZone, Clearance: ClearanceControlled, CounterAttackPct: 70}

	res := SimulateMatch(a, b, 1, ht, at)
	if res.HomeStrength != 85.6 || res.AwayStrength != 69.5 {
		t.Fatalf("expected strengths 85.6/69.5, got %v/%v", res.HomeStrength, res.AwayStrength)
	}
	want := []score{{2, 0}, {2, 4}, {1, 0}, {1, 0}, {0, 3}, {1, 0}, {1, 3}, {1, 5}}
	playAll(t, a, b, seedRange(1, 8), ht, at, want)
}

func TestSimulateMatchAgainstEmptyRoster(t *testing.T) {
	a := uniformTeam(1, "ES1", 11, 80, 0)
	e := &Team{ID: 9, Name: "Empty", Competition: "XX"}
	want := []score{{1, 2}, {0, 1}, {2, 0}, {0, 0}, {0, 0}}
	playAll(t, a, e, seedRange(1, 5), nil, nil, want)

	if got := SimulateMatch(a, e, 1, nil, nil).AwayStrength; got != NeutralStrength {
		t.Fatalf("expected neutral strength for empty roster, got %v", got)
	}
}

func TestSimulateMatchIsDeterministic(t *testing.T) {
	c := uniformTeam(3, "GB1", 16, 75, 2)
	d := uniformTeam(4, "L1", 14, 68, 1)
	for seed := int64(0); seed < 200; seed++ {
		first := SimulateMatch(c, d, seed, nil, nil)
		second := SimulateMatch(c, d, seed, nil, nil)
		if first != second {
			t.Fatalf("seed %d: results differ: %+v vs %+v", seed, first, second)
		}
	}
}

func TestSimulateMatchRecordsAudit(t *testing.T) {
	a := uniformTeam(1, "ES1", 11, 80, 0)
	b := uniformTeam(2, "ES1", 11, 70, 0)
	res := SimulateMatch(a, b, 3, nil, nil)
	if res.HomeTeamID != 1 || res.AwayTeamID != 2 || res.Seed != 3 {
		t.Fatalf("unexpected audit fields: %+v", res)
	}
	if res.HomeStrength != 83.3 || res.AwayStrength != 70.3 {
		t.Fatalf("expected strengths 83.3/70.3, got %v/%v", res.HomeStrength, res.AwayStrength)
	}
}

func TestSimulateMatchCountsStayInBounds(t *testing.T) {
	strong := uniformTeam(1, "L1", 11, 99, 0)
	weak := uniformTeam(2, "ES2", 11, 1, 0)
	hard := &Tactic{Fouls: FoulsHard}
	for seed := int64(0); seed < 2000; seed++ {
		res := SimulateMatch(strong, weak, seed, hard, hard)
		for _, v := range []int{res.HomeGoals, res.AwayGoals, res.HomeDisallowed, res.AwayDisallowed} {
			if v < 0 || v > MaxGoals {
				t.Fatalf("seed %d: count %d outside [0, %d]: %+v", seed, v, MaxGoals, res)
			}
		}
		if res.HomeRedCards < 0 || res.AwayRedCards < 0 || res.HomeRedCards > SquadSize || res.AwayRedCards > SquadSize {
			t.Fatalf("seed %d: red cards out of range: %+v", seed, res)
		}
	}
}

func TestCustomGoalFactors(t *testing.T) {
	s := NewSimulator(map[string]float64{"XX": 1.5})
	if got := s.GoalFactor("XX"); got != 1.5 {
		t.Fatalf("expected 1.5, got %v", got)
	}
	if got := s.GoalFactor("ES1"); got != 1.0 {
		t.Fatalf("expected unknown code to scale by 1.0, got %v", got)
	}
	if got := NewSimulator(nil).GoalFactor("ES1"); got != 0.93 {
		t.Fatalf("expected default ES1 factor 0.93, got %v", got)
	}
}

func TestLambdaFloors(t *testing.T) {
	if got := redCardLambda(0.05, 1); got != minLambda {
		t.Fatalf("expected red card floor %v, got %v", minLambda, got)
	}
	if got := redCardLambda(1.0, 0); got != 1.0 {
		t.Fatalf("expected untouched lambda without reds, got %v", got)
	}
	if got := scaledLambda(0.11, 0.82, 0.81); got != minLambda {
		t.Fatalf("expected scaled floor %v, got %v", minLambda, got)
	}
	if got := StrengthToLambda(10, false); got != lambdaBase {
		t.Fatalf("expected %v at minimum strength, got %v", lambdaBase, got)
	}
}

func TestPaceFactors(t *testing.T) {
	waste := Tactic{TimeWasting: true}
	cases := []struct {
		home, away Tactic
		wantH      float64
		wantA      float64
	}{
		{Tactic{}, Tactic{}, 1.0, 1.0},
		{waste, waste, 0.82, 0.82},
		{waste, Tactic{}, 0.88, 0.92},
		{Tactic{}, waste, 0.92, 0.88},
	}
	for _, tc := range cases {
		h, a := paceFactors(tc.home, tc.away)
		if h != tc.wantH || a != tc.wantA {
			t.Fatalf("expected %v/%v, got %v/%v", tc.wantH, tc.wantA, h, a)
		}
	}
}

func BenchmarkSimulateMatch(b *testing.B) {
	c := uniformTeam(3, "GB1", 16, 75, 2)
	d := uniformTeam(4, "L1", 14, 68, 1)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		SimulateMatch(c, d, int64(i), nil, nil)
	}
}
