package store

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/utakatalp/league-engine/internal/league"
)

// ErrInvalidRoster wraps every roster validation failure.
var ErrInvalidRoster = errors.New("store: invalid roster")

type rosterFile struct {
	Teams []rosterTeam `yaml:"teams"`
}

type rosterTeam struct {
	ID          int            `yaml:"id"`
	Name        string         `yaml:"name"`
	Competition string         `yaml:"competition"`
	Players     []rosterPlayer `yaml:"players"`
}

type rosterPlayer struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Position    string `yaml:"position"`
	Speed       int    `yaml:"speed"`
	Stamina     int    `yaml:"stamina"`
	Aggression  int    `yaml:"aggression"`
	Quality     int    `yaml:"quality"`
	Goalkeeping int    `yaml:"goalkeeping"`
	Tackling    int    `yaml:"tackling"`
	Dribbling   int    `yaml:"dribbling"`
	Finishing   int    `yaml:"finishing"`
	Passing     int    `yaml:"passing"`
	Shooting    int    `yaml:"shooting"`
	Overall     int    `yaml:"overall"`
	Form        int    `yaml:"form"`
	Morale      int    `yaml:"morale"`
}

// LoadRoster reads teams from a YAML roster file.
func LoadRoster(path string) ([]*league.Team, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster file: %w", err)
	}
	defer f.Close()

	teams, err := ParseRoster(f)
	if err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}
	return teams, nil
}

// ParseRoster decodes and validates a YAML roster. Team and player IDs must be
// unique and positive, and attributes must lie in 0..99.
func ParseRoster(r io.Reader) ([]*league.Team, error) {
	var file rosterFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding roster: %w", err)
	}
	if len(file.Teams) == 0 {
		return nil, fmt.Errorf("%w: no teams", ErrInvalidRoster)
	}

	teamIDs := make(map[int]bool, len(file.Teams))
	playerIDs := make(map[int]bool)
	teams := make([]*league.Team, 0, len(file.Teams))
	for _, rt := range file.Teams {
		if rt.ID <= 0 || rt.Name == "" {
			return nil, fmt.Errorf("%w: team %q needs a positive id and a name", ErrInvalidRoster, rt.Name)
		}
		if teamIDs[rt.ID] {
			return nil, fmt.Errorf("%w: duplicate team id %d", ErrInvalidRoster, rt.ID)
		}
		teamIDs[rt.ID] = true

		t := &league.Team{ID: rt.ID, Name: rt.Name, Competition: rt.Competition}
		for _, rp := range rt.Players {
			if rp.ID <= 0 {
				return nil, fmt.Errorf("%w: player %q of team %d needs a positive id", ErrInvalidRoster, rp.Name, rt.ID)
			}
			if playerIDs[rp.ID] {
				return nil, fmt.Errorf("%w: duplicate player id %d", ErrInvalidRoster, rp.ID)
			}
			playerIDs[rp.ID] = true
			p := rp.player()
			if err := checkAttributes(p); err != nil {
				return nil, fmt.Errorf("%w: player %d: %v", ErrInvalidRoster, rp.ID, err)
			}
			t.Roster = append(t.Roster, p)
		}
		teams = append(teams, t)
	}
	return teams, nil
}

func (rp rosterPlayer) player() league.Player {
	return league.Player{
		ID:          rp.ID,
		Name:        rp.Name,
		Position:    ClassifyPosition(rp.Position),
		Speed:       rp.Speed,
		Stamina:     rp.Stamina,
		Aggression:  rp.Aggression,
		Quality:     rp.Quality,
		Goalkeeping: rp.Goalkeeping,
		Tackling:    rp.Tackling,
		Dribbling:   rp.Dribbling,
		Finishing:   rp.Finishing,
		Passing:     rp.Passing,
		Shooting:    rp.Shooting,
		Overall:     rp.Overall,
		Form:        rp.Form,
		Morale:      rp.Morale,
	}
}

func checkAttributes(p league.Player) error {
	attrs := []struct {
		name string
		v    int
	}{
		{"speed", p.Speed}, {"stamina", p.Stamina}, {"aggression", p.Aggression},
		{"quality", p.Quality}, {"goalkeeping", p.Goalkeeping}, {"tackling", p.Tackling},
		{"dribbling", p.Dribbling}, {"finishing", p.Finishing}, {"passing", p.Passing},
		{"shooting", p.Shooting}, {"overall", p.Overall}, {"form", p.Form}, {"morale", p.Morale},
	}
	for _, a := range attrs {
		if a.v < 0 || a.v > 99 {
			return fmt.Errorf("%s %d outside 0..99", a.name, a.v)
		}
	}
	return nil
}
