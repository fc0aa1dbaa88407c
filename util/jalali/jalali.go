// Package jalali converts Gregorian dates to the Jalali (Shamsi)
// calendar and renders Persian digits, for operator-facing captions.
package jalali

import (
	"strings"
	"time"
)

var gDaysBeforeMonth = [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// FromGregorian converts a Gregorian date to Jalali year, month, day.
func FromGregorian(gy, gm, gd int) (int, int, int) {
	var jy int
	if gy > 1600 {
		jy = 979
		gy -= 1600
	} else {
		jy = 0
		gy -= 621
	}
	gy2 := gy
	if gm > 2 {
		gy2 = gy + 1
	}
	days := 365*gy + (gy2+3)/4 - (gy2+99)/100 + (gy2+399)/400 - 80 + gd + gDaysBeforeMonth[gm-1]
	jy += 33 * (days / 12053)
	days %= 12053
	jy += 4 * (days / 1461)
	days %= 1461
	if days > 365 {
		jy += (days - 1) / 365
		days = (days - 1) % 365
	}
	var jm, jd int
	if days < 186 {
		jm = 1 + days/31
		jd = 1 + days%31
	} else {
		jm = 7 + (days-186)/30
		jd = 1 + (days-186)%30
	}
	return jy, jm, jd
}

// FromTime converts a time.Time (its wall-clock date) to Jalali.
func FromTime(t time.Time) (int, int, int) {
	return FromGregorian(t.Year(), int(t.Month()), t.Day())
}

var digitReplacer = strings.NewReplacer(
	"0", "۰", "1", "۱", "2", "۲", "3", "۳", "4", "۴",
	"5", "۵", "6", "۶", "7", "۷", "8", "۸", "9", "۹",
)

// ToPersianDigits replaces ASCII digits with their Persian forms.
func ToPersianDigits(s string) string {
	return digitReplacer.Replace(s)
}
