package league

import "sort"

// Standing accumulates one team's league record. Points and goal difference are
// derived on demand.
type Standing struct {
	TeamID       int `json:"team_id"`
	Played       int `json:"played"`
	Won          int `json:"won"`
	Drawn        int `json:"drawn"`
	Lost         int `json:"lost"`
	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`
}

// Points awards three for a win and one for a draw.
func (s Standing) Points() int { return 3*s.Won + s.Drawn }

// GoalDifference is goals for minus goals against.
func (s Standing) GoalDifference() int { return s.GoalsFor - s.GoalsAgainst }

// record adds one match from the team's point of view.
func (s Standing) record(scored, conceded int) Standing {
	s.Played++
	s.GoalsFor += scored
	s.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		s.Won++
	case scored < conceded:
		s.Lost++
	default:
		s.Drawn++
	}
	return s
}

// Table is an immutable league table. Apply returns an updated copy, so a Table
// can be shared freely between readers.
type Table struct {
	order []int
	rows  map[int]Standing
}

// NewTable seeds a table with zeroed rows in the given order.
func NewTable(teamIDs ...int) Table {
	t := Table{rows: make(map[int]Standing, len(teamIDs))}
	for _, id := range teamIDs {
		if _, ok := t.rows[id]; ok {
			continue
		}
		t.order = append(t.order, id)
		t.rows[id] = Standing{TeamID: id}
	}
	return t
}

// Apply folds one result into the table. Teams not yet in the table are added
// at the end.
func (t Table) Apply(r MatchResult) Table {
	next := Table{
		order: make([]int, len(t.order), len(t.order)+2),
		rows:  make(map[int]Standing, len(t.rows)+2),
	}
	copy(next.order, t.order)
	for id, s := range t.rows {
		next.rows[id] = s
	}
	next.rows[r.HomeTeamID] = next.row(r.HomeTeamID).record(r.HomeGoals, r.AwayGoals)
	next.rows[r.AwayTeamID] = next.row(r.AwayTeamID).record(r.AwayGoals, r.HomeGoals)
	return next
}

func (t *Table) row(id int) Standing {
	if s, ok := t.rows[id]; ok {
		return s
	}
	t.order = append(t.order, id)
	return Standing{TeamID: id}
}

// Fold applies results in order.
func (t Table) Fold(results []MatchResult) Table {
	for _, r := range results {
		t = t.Apply(r)
	}
	return t
}

// Standing returns the row of one team.
func (t Table) Standing(teamID int) (Standing, bool) {
	s, ok := t.rows[teamID]
	return s, ok
}

// Rows returns the rows in insertion order.
func (t Table) Rows() []Standing {
	rows := make([]Standing, 0, len(t.order))
	for _, id := range t.order {
		rows = append(rows, t.rows[id])
	}
	return rows
}

// Sorted orders rows by points, then goal difference, then goals scored. Ties
// beyond that keep insertion order; there is no random tiebreak.
func (t Table) Sorted() []Standing {
	rows := t.Rows()
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points() != b.Points() {
			return a.Points() > b.Points()
		}
		if a.GoalDifference() != b.GoalDifference() {
			return a.GoalDifference() > b.GoalDifference()
		}
		return a.GoalsFor > b.GoalsFor
	})
	return rows
}

// CalculateTable folds results into a fresh table and returns it sorted.
func CalculateTable(results []MatchResult) []Standing {
	return NewTable().Fold(results).Sorted()
}
