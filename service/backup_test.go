package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCaption(t *testing.T) {
	// 20:45 UTC is already the next day in Tehran (UTC+3:30)
	now := time.Date(2024, 3, 19, 20, 45, 0, 0, time.UTC)
	caption := Caption("panel.example.com", now)

	assert.Contains(t, caption, "panel.example.com")
	assert.Contains(t, caption, "2024-03-19")
	assert.Contains(t, caption, "20:45 UTC")
	// Tehran wall clock is 2024-03-20 00:15, Jalali new year's day
	assert.Contains(t, caption, "۱۴۰۳/۰۱/۰۱")
	assert.Contains(t, caption, "۰۰:۱۵")
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "xui_backup_1.2.3.4_20240101_1200.db",
		sanitizeFilename("xui_backup_1.2.3.4_20240101_1200.db"))
	assert.Equal(t, "a_b_c_d", sanitizeFilename(`a/b:c\d`))
}

func TestMergeSummaryListsAllPorts(t *testing.T) {
	tg := &Tgbot{}
	summary := tg.mergeSummary(&MergeForm{Ports: []int{443, 8443}, TargetPort: 2053})
	assert.Contains(t, summary, "443, 8443")
	assert.Contains(t, summary, "2053")
	assert.Contains(t, summary, "OK")
}
