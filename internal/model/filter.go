package model

// Paging defaults and bounds for event queries.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100

	// RecentLimit bounds the "recent" slice in EventStats.
	RecentLimit = 10
)

// EventFilter selects and pages events. Empty string selectors match all.
type EventFilter struct {
	Type   string
	Source string
	Page   int
	Limit  int
}

// Normalize clamps paging values into their valid ranges.
func (f EventFilter) Normalize() EventFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}

// Matches reports whether the event passes the filter's type/source selectors.
func (f EventFilter) Matches(e *Event) bool {
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.Source != "" && e.Source != f.Source {
		return false
	}
	return true
}

// Pagination describes the window covered by one listing response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// EventPage is one window of a filtered event listing, newest first.
type EventPage struct {
	Events     []*Event   `json:"events"`
	Pagination Pagination `json:"pagination"`
}
