package live

// Stoppage bounds per half.
const (
	FirstHalfMinStoppage  = 1
	FirstHalfMaxStoppage  = 6
	SecondHalfMinStoppage = 2
	SecondHalfMaxStoppage = 10
)

// MaxJitter is the largest random addition to a half's stoppage time.
func MaxJitter(second bool) int {
	if second {
		return 2
	}
	return 1
}

// StoppageMinutes computes a half's added time from its events. VAR reviews
// weigh double and every two substitutions add a minute; in the second half a
// time-wasting tactic adds two more. jitter only counts when something happened,
// so a quiet half gets exactly the minimum.
func StoppageMinutes(second bool, h HalfStats, timeWasting bool, jitter int) int {
	base, lo, hi := FirstHalfMinStoppage, FirstHalfMinStoppage, FirstHalfMaxStoppage
	if second {
		base, lo, hi = SecondHalfMinStoppage, SecondHalfMinStoppage, SecondHalfMaxStoppage
	}
	total := base + h.Yellows + 2*h.VARReviews + h.Goals + h.Reds + h.Substitutions/2
	if second && timeWasting {
		total += 2
	}
	if h.eventful() {
		total += jitter
	}
	if total < lo {
		return lo
	}
	if total > hi {
		return hi
	}
	return total
}
