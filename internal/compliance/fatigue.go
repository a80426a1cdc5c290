package compliance

import (
	"ftl_checker/internal/duty"
	"ftl_checker/internal/timeutil"
)

// fatigueScore combines workload and circadian factors into a 0-5 score.
// A duty starting between 05:00 and 05:59 collects both the night-window
// point and the early-start point; the overlap is intentional pending a
// review of the scoring bands against the operator's FRM.
func fatigueScore(p duty.Period, sectors int, limits Limits) int {
	if p.Type == duty.DayOff {
		return 0
	}
	score := 0
	if sectors >= limits.HighSectorCount {
		score += 2
	}
	start, err := timeutil.ParseClock(p.StartTime())
	if err == nil {
		hour := start / 60
		if hour >= 22 || hour <= 6 {
			score++
		}
		if hour < 6 {
			score++
		}
	}
	if p.OffDutyTime != "" {
		end, err := timeutil.ParseClock(p.OffDutyTime)
		if err == nil {
			hour := end / 60
			if hour >= 0 && hour <= 2 {
				score++
			}
		}
	}
	return score
}

// consecutiveDuties counts the unbroken run of non-rest days containing
// index i. Days must be exactly adjacent on the calendar; any gap or
// day off breaks the chain.
func consecutiveDuties(days []duty.Period, i int) int {
	if days[i].Type == duty.DayOff {
		return 0
	}
	count := 1
	for j := i - 1; j >= 0; j-- {
		if days[j].Type == duty.DayOff || !adjacentDays(&days[j], &days[j+1]) {
			break
		}
		count++
	}
	for j := i + 1; j < len(days); j++ {
		if days[j].Type == duty.DayOff || !adjacentDays(&days[j-1], &days[j]) {
			break
		}
		count++
	}
	return count
}

func adjacentDays(earlier, later *duty.Period) bool {
	a, b := earlier.Day(), later.Day()
	if a.IsZero() || b.IsZero() {
		return false
	}
	return b.Sub(a).Hours() == 24
}
