package timeago

// Locale holds the display text for each bucket. Minute, Hour and Day are
// indexed by Form and take the count as their only verb.
type Locale struct {
	Code       string
	JustNow    string
	Minute     [3]string
	Hour       [3]string
	Day        [3]string
	DateLayout string
}

var Russian = Locale{
	Code:       "ru",
	JustNow:    "только что",
	Minute:     [3]string{"%d минуту назад", "%d минуты назад", "%d минут назад"},
	Hour:       [3]string{"%d час назад", "%d часа назад", "%d часов назад"},
	Day:        [3]string{"%d день назад", "%d дня назад", "%d дней назад"},
	DateLayout: "02.01.2006",
}

var English = Locale{
	Code:       "en",
	JustNow:    "just now",
	Minute:     [3]string{"%d minute ago", "%d minutes ago", "%d minutes ago"},
	Hour:       [3]string{"%d hour ago", "%d hours ago", "%d hours ago"},
	Day:        [3]string{"%d day ago", "%d days ago", "%d days ago"},
	DateLayout: "02.01.2006",
}

// LocaleFor looks up a locale by code
func LocaleFor(code string) (Locale, bool) {
	switch code {
	case Russian.Code:
		return Russian, true
	case English.Code:
		return English, true
	default:
		return Locale{}, false
	}
}
