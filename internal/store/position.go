package store

import (
	"strings"

	"github.com/utakatalp/league-engine/internal/league"
)

// positionKeywords are matched against the lower-cased position text, in
// order. Midfield is checked before defence and attack so that "Defensive
// Midfield" and "Attacking Midfield" stay midfielders.
var positionKeywords = []struct {
	position league.Position
	words    []string
}{
	{league.Goalkeeper, []string{"goal", "keeper", "portero", "gk", "por"}},
	{league.Midfielder, []string{"midfield", "medio", "mid", "cm", "dm", "am"}},
	{league.Defender, []string{"back", "defen", "sweeper", "def", "cb", "lb", "rb"}},
	{league.Forward, []string{"forward", "striker", "winger", "attack", "delantero", "fwd", "st", "lw", "rw", "cf"}},
}

// ClassifyPosition maps free-text roster positions ("Centre-Back", "Left
// Winger", "GK", "delantero") onto the closed Position set. Short codes must
// match the whole string; longer words may appear anywhere.
func ClassifyPosition(raw string) league.Position {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return league.PositionUnknown
	}
	for _, pk := range positionKeywords {
		for _, w := range pk.words {
			if len(w) <= 3 {
				if s == w {
					return pk.position
				}
				continue
			}
			if strings.Contains(s, w) {
				return pk.position
			}
		}
	}
	return league.PositionUnknown
}
