package league

import "testing"

func TestBatchInjuriesStayInBounds(t *testing.T) {
	home := uniformTeam(1, "ES1", 14, 80, 1)
	away := uniformTeam(2, "ES1", 11, 70, 0)
	homeSquad := make(map[int]bool)
	for _, p := range SelectSquad(home).Players {
		homeSquad[p.ID] = true
	}

	const runs = 4000
	counts := map[Side]int{}
	for seed := int64(0); seed < runs; seed++ {
		injuries := BatchInjuries(home, away, seed)
		if len(injuries) > 2 {
			t.Fatalf("seed %d: expected at most one injury per side, got %d", seed, len(injuries))
		}
		for i, inj := range injuries {
			counts[inj.Side]++
			if inj.Weeks < 2 || inj.Weeks > 8 {
				t.Fatalf("seed %d: expected 2..8 weeks, got %d", seed, inj.Weeks)
			}
			if inj.Minute < 1 || inj.Minute > 90 {
				t.Fatalf("seed %d: expected minute 1..90, got %d", seed, inj.Minute)
			}
			if i > 0 && inj.Minute < injuries[i-1].Minute {
				t.Fatalf("seed %d: expected injuries ordered by minute, got %+v", seed, injuries)
			}
			if inj.Side == Home && (inj.TeamID != 1 || !homeSquad[inj.PlayerID]) {
				t.Fatalf("seed %d: expected a home squad player, got %+v", seed, inj)
			}
			if inj.Side == Away && inj.TeamID != 2 {
				t.Fatalf("seed %d: expected the away team, got %+v", seed, inj)
			}
		}
	}
	for _, side := range []Side{Home, Away} {
		rate := float64(counts[side]) / runs
		if rate < 0.06 || rate > 0.10 {
			t.Fatalf("expected a %s injury rate near 8%%, got %v", side, rate)
		}
	}
}

func TestBatchInjuriesAreDeterministic(t *testing.T) {
	home := uniformTeam(1, "ES1", 11, 80, 0)
	away := uniformTeam(2, "ES1", 11, 70, 0)
	for seed := int64(0); seed < 200; seed++ {
		a, b := BatchInjuries(home, away, seed), BatchInjuries(home, away, seed)
		if len(a) != len(b) {
			t.Fatalf("seed %d: expected the same injuries, got %v and %v", seed, a, b)
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("seed %d: expected the same injuries, got %v and %v", seed, a, b)
			}
		}
	}
}

func TestBatchInjuriesSkipEmptyRosters(t *testing.T) {
	empty := &Team{ID: 9}
	for seed := int64(0); seed < 500; seed++ {
		if got := BatchInjuries(empty, empty, seed); len(got) != 0 {
			t.Fatalf("seed %d: expected no injuries for empty rosters, got %v", seed, got)
		}
	}
}
