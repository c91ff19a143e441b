package league

import (
	"errors"
	"testing"
)

func teamsWithIDs(n int) []*Team {
	teams := make([]*Team, n)
	for i := range teams {
		teams[i] = &Team{ID: i + 1}
	}
	return teams
}

func pairs(fixtures []Fixture) [][2]int {
	out := make([][2]int, len(fixtures))
	for i, f := range fixtures {
		out[i] = [2]int{f.Home.ID, f.Away.ID}
	}
	return out
}

func TestGenerateFixturesReferenceOrder(t *testing.T) {
	cases := []struct {
		n    int
		want [][2]int
	}{
		{5, [][2]int{{2, 5}, {3, 4}, {1, 5}, {2, 3}, {1, 4}, {5, 3}, {1, 3}, {4, 2}, {1, 2}, {4, 5},
			{5, 2}, {4, 3}, {5, 1}, {3, 2}, {4, 1}, {3, 5}, {3, 1}, {2, 4}, {2, 1}, {5, 4}}},
		{4, [][2]int{{1, 4}, {2, 3}, {1, 3}, {4, 2}, {1, 2}, {3, 4}, {4, 1}, {3, 2}, {3, 1}, {2, 4}, {2, 1}, {4, 3}}},
	}
	for _, tc := range cases {
		fixtures, err := GenerateFixtures(teamsWithIDs(tc.n))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := pairs(fixtures)
		if len(got) != len(tc.want) {
			t.Fatalf("n=%d: expected %d fixtures, got %d", tc.n, len(tc.want), len(got))
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("n=%d fixture %d: expected %v, got %v", tc.n, i, tc.want[i], got[i])
			}
		}
	}
}

func TestGenerateFixturesCompleteness(t *testing.T) {
	for n := 2; n <= 21; n++ {
		teams := teamsWithIDs(n)
		fixtures, err := GenerateFixtures(teams)
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if len(fixtures) != n*(n-1) {
			t.Fatalf("n=%d: expected %d fixtures, got %d", n, n*(n-1), len(fixtures))
		}
		seen := make(map[[2]int]int)
		for i, f := range fixtures {
			if f.Home.ID == f.Away.ID {
				t.Fatalf("n=%d: team %d meets itself", n, f.Home.ID)
			}
			if f.ID != i+1 {
				t.Fatalf("n=%d: expected fixture id %d, got %d", n, i+1, f.ID)
			}
			seen[[2]int{f.Home.ID, f.Away.ID}]++
		}
		for a := 1; a <= n; a++ {
			for b := 1; b <= n; b++ {
				if a == b {
					continue
				}
				if seen[[2]int{a, b}] != 1 {
					t.Fatalf("n=%d: expected %d v %d exactly once, got %d", n, a, b, seen[[2]int{a, b}])
				}
			}
		}
	}
}

func TestGenerateFixturesMatchdays(t *testing.T) {
	fixtures, err := GenerateFixtures(teamsWithIDs(6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rounds := Rounds(fixtures)
	if len(rounds) != 10 {
		t.Fatalf("expected 10 matchdays, got %d", len(rounds))
	}
	for i, round := range rounds {
		if len(round) != 3 {
			t.Fatalf("matchday %d: expected 3 fixtures, got %d", i+1, len(round))
		}
		playing := make(map[int]bool)
		for _, f := range round {
			if f.Matchday != i+1 {
				t.Fatalf("expected matchday %d, got %d", i+1, f.Matchday)
			}
			if playing[f.Home.ID] || playing[f.Away.ID] {
				t.Fatalf("matchday %d: a team plays twice", i+1)
			}
			playing[f.Home.ID], playing[f.Away.ID] = true, true
		}
	}
}

func TestGenerateFixturesDoesNotMutateInput(t *testing.T) {
	teams := teamsWithIDs(5)
	if _, err := GenerateFixtures(teams); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, team := range teams {
		if team.ID != i+1 {
			t.Fatalf("input reordered: position %d holds team %d", i, team.ID)
		}
	}
}

func TestGenerateFixturesErrors(t *testing.T) {
	if _, err := GenerateFixtures(teamsWithIDs(1)); !errors.Is(err, ErrNotEnoughTeams) {
		t.Fatalf("expected ErrNotEnoughTeams, got %v", err)
	}
	dup := []*Team{{ID: 1}, {ID: 2}, {ID: 1}}
	if _, err := GenerateFixtures(dup); !errors.Is(err, ErrDuplicateTeam) {
		t.Fatalf("expected ErrDuplicateTeam, got %v", err)
	}
}

func TestGenerateKnockout(t *testing.T) {
	fixtures := GenerateKnockout(teamsWithIDs(5), 3)
	got := pairs(fixtures)
	want := [][2]int{{1, 2}, {3, 4}}
	if len(got) != len(want) {
		t.Fatalf("expected %d ties, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tie %d: expected %v, got %v", i, want[i], got[i])
		}
		if fixtures[i].Matchday != 3+i {
			t.Fatalf("tie %d: expected matchday %d, got %d", i, 3+i, fixtures[i].Matchday)
		}
	}
}
