package league

import "fmt"

// uniformTeam builds a roster of n players whose every attribute equals
// base - i*step for player i.
func uniformTeam(id int, comp string, n, base, step int) *Team {
	t := &Team{ID: id, Name: fmt.Sprintf("T%d", id), Competition: comp}
	for i := 0; i < n; i++ {
		v := base - i*step
		t.Roster = append(t.Roster, Player{
			ID:          id*100 + i,
			Name:        fmt.Sprintf("P%d", i),
			Speed:       v,
			Stamina:     v,
			Aggression:  v,
			Quality:     v,
			Goalkeeping: v,
			Tackling:    v,
			Dribbling:   v,
			Finishing:   v,
			Passing:     v,
			Shooting:    v,
			Overall:     v,
		})
	}
	return t
}
