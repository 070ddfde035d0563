// Package timeago renders "N minutes ago" style labels for feed timestamps.
//
// Choosing the bucket (Classify) and rendering it (Locale) are separate so the
// thresholds can be tested without caring about display text. The thresholds
// follow Slavic plural morphology: one / two-to-four / five-and-up, and a
// timestamp a week or older is shown as a calendar date.
package timeago

import (
	"fmt"
	"time"
)

// Unit is the coarsest unit an elapsed duration is reported in
type Unit int

const (
	UnitJustNow Unit = iota
	UnitMinute
	UnitHour
	UnitDay
	UnitDate
)

// Form selects the plural form used with a count
type Form int

const (
	FormOne  Form = iota // 1
	FormFew              // 2–4
	FormMany             // 5+
)

const dateCutoverDays = 7

// Bucket is the outcome of classifying an elapsed duration
type Bucket struct {
	Unit  Unit
	Count int
	Form  Form
}

// Classify picks the bucket for an elapsed duration. Negative durations
// (timestamps in the future) are treated as just now.
func Classify(elapsed time.Duration) Bucket {
	if elapsed < 0 {
		return Bucket{Unit: UnitJustNow}
	}

	if days := int(elapsed / (24 * time.Hour)); days >= 1 {
		if days >= dateCutoverDays {
			return Bucket{Unit: UnitDate, Count: days}
		}
		return Bucket{Unit: UnitDay, Count: days, Form: formFor(days)}
	}
	if hours := int(elapsed / time.Hour); hours >= 1 {
		return Bucket{Unit: UnitHour, Count: hours, Form: formFor(hours)}
	}
	if minutes := int(elapsed / time.Minute); minutes >= 1 {
		return Bucket{Unit: UnitMinute, Count: minutes, Form: formFor(minutes)}
	}
	return Bucket{Unit: UnitJustNow}
}

func formFor(n int) Form {
	switch {
	case n == 1:
		return FormOne
	case n < 5:
		return FormFew
	default:
		return FormMany
	}
}

// Formatter renders timestamps relative to its clock
type Formatter struct {
	locale Locale
	now    func() time.Time
	loc    *time.Location
}

// Option configures a Formatter
type Option func(*Formatter)

// WithClock overrides the wall clock, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(f *Formatter) { f.now = now }
}

// WithLocation sets the zone absolute dates are rendered in (default time.Local)
func WithLocation(loc *time.Location) Option {
	return func(f *Formatter) { f.loc = loc }
}

// New creates a Formatter for the given locale
func New(locale Locale, opts ...Option) *Formatter {
	f := &Formatter{
		locale: locale,
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format renders t relative to the formatter's clock. A nil t renders as "".
func (f *Formatter) Format(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return f.render(*t, Classify(f.now().Sub(*t)))
}

func (f *Formatter) render(t time.Time, b Bucket) string {
	switch b.Unit {
	case UnitDate:
		return t.In(f.loc).Format(f.locale.DateLayout)
	case UnitDay:
		return fmt.Sprintf(f.locale.Day[b.Form], b.Count)
	case UnitHour:
		return fmt.Sprintf(f.locale.Hour[b.Form], b.Count)
	case UnitMinute:
		return fmt.Sprintf(f.locale.Minute[b.Form], b.Count)
	default:
		return f.locale.JustNow
	}
}
