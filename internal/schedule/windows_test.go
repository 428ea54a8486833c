package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWindows_CountAndOrdering(t *testing.T) {
	for _, dob := range []time.Time{
		date(2024, 1, 1),
		date(2023, 12, 31),
		date(2020, 2, 29),
		date(1999, 7, 15),
	} {
		windows := Windows(dob)
		require.Len(t, windows, 9, "dob %s", dob)

		for i, w := range windows {
			assert.False(t, w.End.Before(w.Start), "entry %d start after end", i)
			if i > 0 {
				assert.False(t, w.Start.Before(windows[i-1].Start),
					"entry %d out of chronological order", i)
			}
		}
	}
}

func TestWindows_FirstTwoEntries(t *testing.T) {
	windows := Windows(date(2024, 1, 1))

	assert.Equal(t, "Birth doses: BCG / HepB / OPV-0", windows[0].Vaccine)
	assert.Equal(t, date(2024, 1, 1), windows[0].Start)
	assert.Equal(t, date(2024, 1, 15), windows[0].End)

	assert.Equal(t, "6 weeks: Penta-1 / OPV-1 / Rota-1", windows[1].Vaccine)
	assert.Equal(t, date(2024, 2, 12), windows[1].Start)
	assert.Equal(t, date(2024, 2, 26), windows[1].End)
}

func TestWindows_YearBoostersTruncate(t *testing.T) {
	dob := date(2024, 1, 1)
	windows := Windows(dob)

	// int(365.25*5) = 1826, not 1827.
	assert.Equal(t, dob.AddDate(0, 0, 1826), windows[6].Start)
	assert.Equal(t, dob.AddDate(0, 0, 1826+90), windows[6].End)
	// int(365.25*10) = 3652, the .5 is dropped.
	assert.Equal(t, dob.AddDate(0, 0, 3652), windows[7].Start)
	assert.Equal(t, dob.AddDate(0, 0, 3652+180), windows[7].End)
	// int(365.25*16) = 5844.
	assert.Equal(t, dob.AddDate(0, 0, 5844), windows[8].Start)
	assert.Equal(t, dob.AddDate(0, 0, 5844+180), windows[8].End)
}

func TestWindows_Deterministic(t *testing.T) {
	dob := date(2024, 6, 15)
	assert.Equal(t, Windows(dob), Windows(dob))
}
