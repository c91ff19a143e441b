package league

// MoraleDeltas returns the post-match morale change for home and away: nothing
// for a draw, +3/-2 for a win and +5/-5 for a win by three or more.
func MoraleDeltas(homeGoals, awayGoals int) (home, away int) {
	diff := homeGoals - awayGoals
	switch {
	case diff == 0:
		return 0, 0
	case diff >= 3:
		return 5, -5
	case diff <= -3:
		return -5, 5
	case diff > 0:
		return 3, -2
	default:
		return -2, 3
	}
}

// ApplyMorale shifts every player's morale by delta, keeping it within 1..99.
// Zero morale counts as neutral, so it is resolved before the shift.
func ApplyMorale(team *Team, delta int) {
	for i := range team.Roster {
		p := &team.Roster[i]
		p.Morale = clampCount(p.morale()+delta, 1, 99)
	}
}
