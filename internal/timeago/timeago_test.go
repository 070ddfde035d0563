package timeago

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func formatterAt(locale Locale) *Formatter {
	return New(locale, WithClock(func() time.Time { return fixedNow }), WithLocation(time.UTC))
}

func ago(d time.Duration) *time.Time {
	t := fixedNow.Add(-d)
	return &t
}

func TestClassifyThresholds(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    Bucket
	}{
		{"zero", 0, Bucket{Unit: UnitJustNow}},
		{"59s", 59 * time.Second, Bucket{Unit: UnitJustNow}},
		{"future", -5 * time.Minute, Bucket{Unit: UnitJustNow}},
		{"1m", time.Minute, Bucket{UnitMinute, 1, FormOne}},
		{"90s", 90 * time.Second, Bucket{UnitMinute, 1, FormOne}},
		{"2m", 2 * time.Minute, Bucket{UnitMinute, 2, FormFew}},
		{"4m59s", 4*time.Minute + 59*time.Second, Bucket{UnitMinute, 4, FormFew}},
		{"5m", 5 * time.Minute, Bucket{UnitMinute, 5, FormMany}},
		{"59m", 59 * time.Minute, Bucket{UnitMinute, 59, FormMany}},
		{"1h", time.Hour, Bucket{UnitHour, 1, FormOne}},
		{"4h", 4 * time.Hour, Bucket{UnitHour, 4, FormFew}},
		{"5h", 5 * time.Hour, Bucket{UnitHour, 5, FormMany}},
		{"23h59m", 23*time.Hour + 59*time.Minute, Bucket{UnitHour, 23, FormMany}},
		{"1d", 24 * time.Hour, Bucket{UnitDay, 1, FormOne}},
		{"1d23h", 47 * time.Hour, Bucket{UnitDay, 1, FormOne}},
		{"2d", 48 * time.Hour, Bucket{UnitDay, 2, FormFew}},
		{"4d", 4 * 24 * time.Hour, Bucket{UnitDay, 4, FormFew}},
		{"5d", 5 * 24 * time.Hour, Bucket{UnitDay, 5, FormMany}},
		{"6d23h", 6*24*time.Hour + 23*time.Hour, Bucket{UnitDay, 6, FormMany}},
		{"7d", 7 * 24 * time.Hour, Bucket{Unit: UnitDate, Count: 7}},
		{"30d", 30 * 24 * time.Hour, Bucket{Unit: UnitDate, Count: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.elapsed))
		})
	}
}

func TestFormatRussian(t *testing.T) {
	f := formatterAt(Russian)

	assert.Equal(t, "", f.Format(nil))
	assert.Equal(t, "только что", f.Format(ago(30*time.Second)))
	assert.Equal(t, "1 минуту назад", f.Format(ago(90*time.Second)))
	assert.Equal(t, "3 минуты назад", f.Format(ago(3*time.Minute)))
	assert.Equal(t, "12 минут назад", f.Format(ago(12*time.Minute)))
	assert.Equal(t, "1 час назад", f.Format(ago(time.Hour)))
	assert.Equal(t, "2 часа назад", f.Format(ago(2*time.Hour)))
	assert.Equal(t, "6 часов назад", f.Format(ago(6*time.Hour)))
	assert.Equal(t, "1 день назад", f.Format(ago(24*time.Hour)))
	assert.Equal(t, "3 дня назад", f.Format(ago(3*24*time.Hour)))
	assert.Equal(t, "5 дней назад", f.Format(ago(5*24*time.Hour)))
	assert.Equal(t, "05.03.2024", f.Format(ago(10*24*time.Hour)))
}

func TestFormatEnglish(t *testing.T) {
	f := formatterAt(English)

	assert.Equal(t, "just now", f.Format(ago(30*time.Second)))
	assert.Equal(t, "1 minute ago", f.Format(ago(90*time.Second)))
	assert.Equal(t, "3 minutes ago", f.Format(ago(3*time.Minute)))
	assert.Equal(t, "2 hours ago", f.Format(ago(2*time.Hour)))
	assert.Equal(t, "1 day ago", f.Format(ago(24*time.Hour)))
	assert.Equal(t, "6 days ago", f.Format(ago(6*24*time.Hour)))
	assert.Equal(t, "05.03.2024", f.Format(ago(10*24*time.Hour)))
}

func TestFormatDateUsesLocation(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	f := New(Russian, WithClock(func() time.Time { return fixedNow }), WithLocation(msk))

	ts := time.Date(2024, time.March, 1, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, "02.03.2024", f.Format(&ts))
}

func TestFormatZeroTime(t *testing.T) {
	var zero time.Time
	assert.Equal(t, "", formatterAt(Russian).Format(&zero))
}

func TestLocaleFor(t *testing.T) {
	l, ok := LocaleFor("ru")
	assert.True(t, ok)
	assert.Equal(t, Russian.JustNow, l.JustNow)

	_, ok = LocaleFor("de")
	assert.False(t, ok)
}
