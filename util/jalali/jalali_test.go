package jalali

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromGregorian(t *testing.T) {
	cases := []struct {
		gy, gm, gd int
		jy, jm, jd int
	}{
		{2024, 3, 20, 1403, 1, 1},  // Nowruz
		{2024, 3, 19, 1402, 12, 29},
		{2025, 3, 21, 1404, 1, 1},
		{2026, 8, 30, 1405, 6, 8},
		{2023, 9, 23, 1402, 7, 1},  // first day of the 30-day half
		{2021, 2, 14, 1399, 11, 26},
	}
	for _, tc := range cases {
		jy, jm, jd := FromGregorian(tc.gy, tc.gm, tc.gd)
		assert.Equal(t, [3]int{tc.jy, tc.jm, tc.jd}, [3]int{jy, jm, jd},
			"gregorian %04d-%02d-%02d", tc.gy, tc.gm, tc.gd)
	}
}

func TestFromTime(t *testing.T) {
	jy, jm, jd := FromTime(time.Date(2024, 3, 20, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, [3]int{1403, 1, 1}, [3]int{jy, jm, jd})
}

func TestToPersianDigits(t *testing.T) {
	assert.Equal(t, "۱۴۰۳/۰۱/۰۱", ToPersianDigits("1403/01/01"))
	assert.Equal(t, "ساعت ۱۲:۳۰", ToPersianDigits("ساعت 12:30"))
	assert.Equal(t, "abc", ToPersianDigits("abc"))
}
