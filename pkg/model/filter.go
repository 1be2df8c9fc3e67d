// pkg/model/filter.go
package model

import (
	"errors"
	"time"
)

// Filter restricts the pipeline to a purchase-date interval or to a set of
// customer states. A filter carries at most one of the two; the zero value
// means no restriction.
type Filter struct {
	Start  *time.Time `json:"start,omitempty"`
	End    *time.Time `json:"end,omitempty"`
	States []string   `json:"states,omitempty"`
}

// NoFilter returns the unrestricted filter.
func NoFilter() Filter {
	return Filter{}
}

// DateRange returns a filter keeping orders purchased between start and
// end, inclusive on both ends at day granularity.
func DateRange(start, end time.Time) Filter {
	return Filter{Start: &start, End: &end}
}

// StateSet returns a filter keeping orders from customers in the given
// states. An empty set means no restriction.
func StateSet(states ...string) Filter {
	return Filter{States: states}
}

// HasDateRange reports whether both date bounds are present. A filter with
// only one bound passes orders through unfiltered.
func (f Filter) HasDateRange() bool {
	return f.Start != nil && f.End != nil
}

// HasStates reports whether a state restriction is active.
func (f Filter) HasStates() bool {
	return len(f.States) > 0
}

// StateMembers returns the state restriction as a set.
func (f Filter) StateMembers() map[string]struct{} {
	set := make(map[string]struct{}, len(f.States))
	for _, s := range f.States {
		set[s] = struct{}{}
	}
	return set
}

// Validate ensures the filter carries at most one restriction kind and
// that an active date range is ordered.
func (f Filter) Validate() error {
	if f.HasDateRange() && f.HasStates() {
		return errors.New("filter cannot combine a date range with a state set")
	}
	if f.HasDateRange() && f.End.Before(*f.Start) {
		return errors.New("filter end date precedes start date")
	}
	return nil
}

// InDateRange reports whether t falls inside the filter's date range,
// compared at day granularity. Always true when no range is active.
func (f Filter) InDateRange(t time.Time) bool {
	if !f.HasDateRange() {
		return true
	}
	d := dateOf(t)
	return !d.Before(dateOf(*f.Start)) && !d.After(dateOf(*f.End))
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
