package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleRoster = "../../testdata/roster.yaml"

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ROSTER_FILE", "")
	t.Setenv("SIM_SEED", "")
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestRunPrintsSeason(t *testing.T) {
	out, err := runCLI(t, "-roster", sampleRoster, "-seed", "7", "-schedule", "-odds", "20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Schedule", "Matchday 10:", "Results", "Final table", "Title odds after matchday 5", "Real Costa", "Sporting Puerto"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRunPlaysCup(t *testing.T) {
	out, err := runCLI(t, "-roster", sampleRoster, "-seed", "3", "-results=false", "-cup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Cup", "Round 1:", "Winner: "} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	first, err := runCLI(t, "-roster", sampleRoster, "-seed", "11", "-workers", "3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := runCLI(t, "-roster", sampleRoster, "-seed", "11", "-workers", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical output for the same seed")
	}
}

func TestRunManagedTeam(t *testing.T) {
	out, err := runCLI(t, "-roster", sampleRoster, "-team", "3", "-results=false")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "Results") || !strings.Contains(out, "Deportivo Sierra") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	if _, err := runCLI(t, "-roster", sampleRoster, "-team", "99"); err == nil || !strings.Contains(err.Error(), "team 99") {
		t.Fatalf("expected an unknown team error, got %v", err)
	}
}

func TestRunUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "league.yaml")
	cfg := "roster_file: " + sampleRoster + "\nsimulation:\n  seed: 3\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	fromFile, err := runCLI(t, "-config", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fromFlag, err := runCLI(t, "-roster", sampleRoster, "-seed", "3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fromFile != fromFlag {
		t.Fatalf("expected the config seed to match the flag seed")
	}
}

func TestRunErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"no roster", nil},
		{"missing roster", []string{"-roster", "does-not-exist.yaml"}},
		{"unknown flag", []string{"-roster", sampleRoster, "-league", "x"}},
		{"negative odds", []string{"-roster", sampleRoster, "-odds", "-1"}},
		{"missing config", []string{"-config", "does-not-exist.yaml"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := runCLI(t, tc.args...); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}
