package main

import (
	"context"
	"io"
	"testing"

	"github.com/utakatalp/league-engine/internal/config"
	"github.com/utakatalp/league-engine/internal/logging"
)

func TestOpenRepositoryFromRoster(t *testing.T) {
	logger := logging.NewLogger(logging.Config{Output: io.Discard})
	cfg := config.Config{RosterFile: "../../testdata/roster.yaml"}

	repo, closeRepo, err := openRepository(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closeRepo()

	teams, err := repo.GetTeams(context.Background())
	if err != nil {
		t.Fatalf("get teams: %v", err)
	}
	if len(teams) != 6 {
		t.Fatalf("expected 6 teams, got %d", len(teams))
	}
}

func TestOpenRepositoryErrors(t *testing.T) {
	logger := logging.NewLogger(logging.Config{Output: io.Discard})
	if _, _, err := openRepository(context.Background(), config.Config{RosterFile: "missing.yaml"}, logger); err == nil {
		t.Fatalf("expected an error for a missing roster")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	logger := logging.NewLogger(logging.Config{Output: io.Discard})
	cfg := config.Config{Port: "0", RosterFile: "../../testdata/roster.yaml"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := run(ctx, cfg, logger); err != nil {
		t.Fatalf("expected a clean shutdown, got %v", err)
	}
}
