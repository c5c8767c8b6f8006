package domain

import "time"

// AnalyticsScope is the reporting window used by admin analytics
type AnalyticsScope string

const (
	Scope7Days   AnalyticsScope = "7"
	Scope30Days  AnalyticsScope = "30"
	Scope90Days  AnalyticsScope = "90"
	Scope365Days AnalyticsScope = "365"
	ScopeAll     AnalyticsScope = "all"

	DefaultScope = Scope30Days
)

var scopeDays = map[AnalyticsScope]int{
	Scope7Days:   7,
	Scope30Days:  30,
	Scope90Days:  90,
	Scope365Days: 365,
	ScopeAll:     0,
}

// ParseScope accepts only the closed set of scope values.
func ParseScope(s string) (AnalyticsScope, bool) {
	scope := AnalyticsScope(s)
	_, ok := scopeDays[scope]
	return scope, ok
}

// ResolveScope picks the URL parameter over the persisted cookie value and
// falls back to DefaultScope when neither is valid.
func ResolveScope(param, cookie string) AnalyticsScope {
	if scope, ok := ParseScope(param); ok {
		return scope
	}
	if scope, ok := ParseScope(cookie); ok {
		return scope
	}
	return DefaultScope
}

// Days is 0 for ScopeAll
func (s AnalyticsScope) Days() int {
	return scopeDays[s]
}

// Since returns the lower bound of the window. bounded is false for ScopeAll.
func (s AnalyticsScope) Since(now time.Time) (since time.Time, bounded bool) {
	days := s.Days()
	if days == 0 {
		return time.Time{}, false
	}
	return now.UTC().AddDate(0, 0, -days), true
}
