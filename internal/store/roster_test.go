package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/utakatalp/league-engine/internal/league"
)

const sampleRoster = `
teams:
  - id: 1
    name: Atletico Norte
    competition: ES1
    players:
      - {id: 10, name: Ramos, position: Goalkeeper, goalkeeping: 80, overall: 78, quality: 75}
      - {id: 11, name: Vidal, position: Centre-Back, tackling: 77, overall: 76, form: 60}
      - {id: 12, name: Soto, position: Left Winger, finishing: 81, overall: 79, morale: 70}
  - id: 2
    name: Union Sur
    competition: GB1
    players:
      - {id: 20, name: Black, position: Defensive Midfield, passing: 70, overall: 71}
`

func TestParseRoster(t *testing.T) {
	teams, err := ParseRoster(strings.NewReader(sampleRoster))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(teams) != 2 || teams[0].Name != "Atletico Norte" || teams[1].Competition != "GB1" {
		t.Fatalf("unexpected teams: %+v", teams)
	}
	roster := teams[0].Roster
	if len(roster) != 3 {
		t.Fatalf("expected 3 players, got %d", len(roster))
	}
	want := []league.Position{league.Goalkeeper, league.Defender, league.Forward}
	for i, p := range roster {
		if p.Position != want[i] {
			t.Fatalf("player %d: expected %v, got %v", p.ID, want[i], p.Position)
		}
	}
	if roster[1].Form != 60 || roster[2].Morale != 70 || roster[0].Goalkeeping != 80 {
		t.Fatalf("attributes not decoded: %+v", roster)
	}
	if teams[1].Roster[0].Position != league.Midfielder {
		t.Fatalf("expected defensive midfield to be a midfielder, got %v", teams[1].Roster[0].Position)
	}
}

func TestParseRosterRejectsInvalidInput(t *testing.T) {
	cases := map[string]string{
		"no teams":         "teams: []\n",
		"duplicate team":   "teams:\n  - {id: 1, name: A}\n  - {id: 1, name: B}\n",
		"missing name":     "teams:\n  - {id: 1}\n",
		"duplicate player": "teams:\n  - {id: 1, name: A, players: [{id: 5}, {id: 5}]}\n",
		"attribute range":  "teams:\n  - {id: 1, name: A, players: [{id: 5, speed: 120}]}\n",
		"player id":        "teams:\n  - {id: 1, name: A, players: [{id: 0}]}\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseRoster(strings.NewReader(body)); !errors.Is(err, ErrInvalidRoster) {
				t.Fatalf("expected ErrInvalidRoster, got %v", err)
			}
		})
	}
}

func TestParseRosterRejectsUnknownFields(t *testing.T) {
	if _, err := ParseRoster(strings.NewReader("teams:\n  - {id: 1, name: A, budget: 3}\n")); err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}

func TestLoadRoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	if err := os.WriteFile(path, []byte(sampleRoster), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	teams, err := LoadRoster(path)
	if err != nil || len(teams) != 2 {
		t.Fatalf("expected 2 teams, got %d (%v)", len(teams), err)
	}
	if _, err := LoadRoster(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadSampleRoster(t *testing.T) {
	teams, err := LoadRoster(filepath.Join("..", "..", "testdata", "roster.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(teams) < 4 {
		t.Fatalf("expected at least 4 teams, got %d", len(teams))
	}
	for _, team := range teams {
		if len(team.Roster) < league.SquadSize {
			t.Fatalf("team %s has only %d players", team.Name, len(team.Roster))
		}
	}
}

func TestClassifyPosition(t *testing.T) {
	cases := map[string]league.Position{
		"Goalkeeper":         league.Goalkeeper,
		"GK":                 league.Goalkeeper,
		"portero":            league.Goalkeeper,
		"Centre-Back":        league.Defender,
		"Right-Back":         league.Defender,
		"defender":           league.Defender,
		"Defensive Midfield": league.Midfielder,
		"Attacking Midfield": league.Midfielder,
		"cm":                 league.Midfielder,
		"Left Winger":        league.Forward,
		"Centre-Forward":     league.Forward,
		"ST":                 league.Forward,
		"delantero":          league.Forward,
		"":                   league.PositionUnknown,
		"coach":              league.PositionUnknown,
		"stopper":            league.PositionUnknown,
	}
	for raw, want := range cases {
		if got := ClassifyPosition(raw); got != want {
			t.Fatalf("%q: expected %v, got %v", raw, want, got)
		}
	}
}

func TestClassifyPositionRoundTripsCanonicalNames(t *testing.T) {
	for _, p := range []league.Position{league.Goalkeeper, league.Defender, league.Midfielder, league.Forward, league.PositionUnknown} {
		if got := ClassifyPosition(p.String()); got != p {
			t.Fatalf("%v: got %v", p, got)
		}
	}
}
