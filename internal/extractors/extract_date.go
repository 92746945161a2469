package extractors

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mrjoshuak/eventfmt/internal/patterns"
)

// DateKind tells a calendar date from a clock time.
type DateKind string

const (
	KindDate DateKind = "date"
	KindTime DateKind = "time"
	// KindMachine marks a value read from markup attributes such as
	// <time datetime> rather than from visible text.
	KindMachine DateKind = "machine"
)

// ExtractedDate is a date or time reference with its parsed value, when the
// text could be parsed.
type ExtractedDate struct {
	Text   string    `json:"text"`
	Kind   DateKind  `json:"kind"`
	Time   time.Time `json:"time,omitempty"`
	Parsed bool      `json:"parsed"`
}

// machineDateSelectors find dates published for machines in event markup.
var machineDateSelectors = []SelectorScore{
	{Selector: "[itemprop='startDate']", Attr: "content", Score: 10},
	{Selector: "[itemprop='startDate']", Attr: "datetime", Score: 10},
	{Selector: "[itemprop='endDate']", Attr: "content", Score: 5},
	{Selector: "[itemprop='endDate']", Attr: "datetime", Score: 5},
	{Selector: "time[datetime]", Attr: "datetime", Score: 3},
	{Selector: "meta[property='event:start_time']", Attr: "content", Score: 3},
}

// ExtractDates returns the machine-readable dates of the raw markup first,
// then the visible dates and times found in the cleaned text. Visible dates
// are read day first, as written in French and most European listings.
func ExtractDates(raw, cleaned string, lib patterns.Library) []ExtractedDate {
	if lib == nil {
		lib = patterns.Default()
	}
	dates := []ExtractedDate{}
	seen := make(map[string]bool)

	for _, el := range ExtractElement(raw, machineDateSelectors) {
		if seen[el.Value] {
			continue
		}
		seen[el.Value] = true
		t, ok := ParseDate(el.Value)
		dates = append(dates, ExtractedDate{Text: el.Value, Kind: KindMachine, Time: t, Parsed: ok})
	}

	special := ExtractSpecialContent(cleaned, lib)
	for _, d := range special.Dates {
		if seen[d] {
			continue
		}
		seen[d] = true
		t, ok := ParseDate(d)
		dates = append(dates, ExtractedDate{Text: d, Kind: KindDate, Time: t, Parsed: ok})
	}
	for _, s := range special.Times {
		if seen[s] {
			continue
		}
		seen[s] = true
		t, ok := ParseClock(s)
		dates = append(dates, ExtractedDate{Text: s, Kind: KindTime, Time: t, Parsed: ok})
	}
	return dates
}

// ParseDate parses a date string in any common layout, preferring
// day-before-month for ambiguous numeric dates.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseAny(s, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseClock parses "19h30" or "19:30" into a time on the zero date.
func ParseClock(s string) (time.Time, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "h", ":")
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
