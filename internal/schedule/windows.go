// Package schedule computes indicative vaccination awareness windows
// from a child's date of birth. The windows follow a minimal UIP-like
// subset and are presented as awareness-only intervals, never as a
// clinical schedule.
package schedule

import (
	"time"

	"github.com/swasthyasaathi/bot/internal/models"
)

type offsetEntry struct {
	vaccine   string
	startDays int
	endDays   int
	note      string
}

// yearDays converts whole years to days on a 365.25-day year,
// truncated. Truncation (not rounding) is load-bearing: tests pin the
// exact dates it produces.
func yearDays(years int) int {
	return int(365.25 * float64(years))
}

var offsets = []offsetEntry{
	{"Birth doses: BCG / HepB / OPV-0", 0, 14, "Birth dose window. Awareness only; verify at PHC."},
	{"6 weeks: Penta-1 / OPV-1 / Rota-1", 6 * 7, 8 * 7, "First 6-week visit."},
	{"10 weeks: Penta-2 / OPV-2 / Rota-2", 10 * 7, 12 * 7, "Second visit."},
	{"14 weeks: Penta-3 / OPV-3 / Rota-3", 14 * 7, 16 * 7, "Third visit."},
	{"9–12 months: MR-1", 39 * 7, 52 * 7, "Measles-Rubella first dose."},
	{"16–24 months: MR-2 / DPT booster", 69 * 7, 104 * 7, "Toddler boosters."},
	{"5 years: DPT booster", yearDays(5), yearDays(5) + 90, "Pre-school booster."},
	{"10 years: Td booster", yearDays(10), yearDays(10) + 180, "Adolescent booster."},
	{"16 years: Td booster", yearDays(16), yearDays(16) + 180, "Adolescent booster."},
}

// Windows returns the nine awareness windows for the given date of
// birth, in chronological order of window start. Pure and total: any
// valid date yields the full sequence.
func Windows(dob time.Time) []models.AwarenessWindow {
	out := make([]models.AwarenessWindow, 0, len(offsets))
	for _, e := range offsets {
		out = append(out, models.AwarenessWindow{
			Vaccine: e.vaccine,
			Start:   dob.AddDate(0, 0, e.startDays),
			End:     dob.AddDate(0, 0, e.endDays),
			Note:    e.note,
		})
	}
	return out
}
