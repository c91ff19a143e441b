package season

import (
	"fmt"
	"io"

	"github.com/utakatalp/league-engine/internal/league"
)

// PrintSchedule writes the calendar grouped by matchday.
func PrintSchedule(w io.Writer, label string, fixtures []league.Fixture) {
	fmt.Fprintln(w, label)
	for _, round := range league.Rounds(fixtures) {
		fmt.Fprintf(w, "Matchday %d:\n", round[0].Matchday)
		for _, f := range round {
			fmt.Fprintf(w, "  %s vs %s\n", f.Home.Name, f.Away.Name)
		}
	}
}

// PrintResults writes the calendar with scores. results[i] belongs to
// fixtures[i].
func PrintResults(w io.Writer, label string, fixtures []league.Fixture, results []league.MatchResult) {
	fmt.Fprintln(w, label)
	matchday := 0
	for i, f := range fixtures {
		if f.Matchday != matchday {
			matchday = f.Matchday
			fmt.Fprintf(w, "Matchday %d:\n", matchday)
		}
		r := results[i]
		fmt.Fprintf(w, "  %-20s %d-%d  %s\n", f.Home.Name, r.HomeGoals, r.AwayGoals, f.Away.Name)
	}
}

// PrintTable writes standings; names maps team IDs to display names.
func PrintTable(w io.Writer, label string, table []league.Standing, names map[int]string) {
	fmt.Fprintln(w, label)
	fmt.Fprintf(w, "%-20s %2s %2s %2s %2s %3s %3s %3s %3s\n",
		"Team", "P", "W", "D", "L", "GF", "GA", "GD", "Pts")
	for _, s := range table {
		name, ok := names[s.TeamID]
		if !ok {
			name = fmt.Sprintf("#%d", s.TeamID)
		}
		fmt.Fprintf(w, "%-20s %2d %2d %2d %2d %3d %3d %3d %3d\n",
			name,
			s.Played,
			s.Won,
			s.Drawn,
			s.Lost,
			s.GoalsFor,
			s.GoalsAgainst,
			s.GoalDifference(),
			s.Points(),
		)
	}
}

// PrintOdds writes championship predictions.
func PrintOdds(w io.Writer, label string, preds []league.Prediction) {
	fmt.Fprintln(w, label)
	for _, p := range preds {
		fmt.Fprintf(w, "  %-20s %6.2f%%\n", p.Team.Name, p.Probability)
	}
}

// PrintCup writes every knockout tie by round and the winner.
func PrintCup(w io.Writer, label string, cup *Cup) {
	fmt.Fprintln(w, label)
	round := 0
	for _, tie := range cup.Ties {
		if tie.Round != round {
			round = tie.Round
			fmt.Fprintf(w, "Round %d:\n", round)
		}
		r := tie.Result
		line := fmt.Sprintf("  %-20s %d-%d  %s", tie.Fixture.Home.Name, r.HomeGoals, r.AwayGoals, tie.Fixture.Away.Name)
		if tie.Shootout != nil {
			line += fmt.Sprintf(" (%d-%d pens)", tie.Shootout.HomePenalties, tie.Shootout.AwayPenalties)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "Winner: %s\n", cup.Champion.Name)
}

// Names indexes team names by ID.
func Names(teams []*league.Team) map[int]string {
	names := make(map[int]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	return names
}
