package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year, month, dayOfMonth int) time.Time {
	return time.Date(year, time.Month(month), dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func TestFilterValidate(t *testing.T) {
	assert.NoError(t, NoFilter().Validate())
	assert.NoError(t, DateRange(day(2018, 1, 1), day(2018, 1, 31)).Validate())
	assert.NoError(t, StateSet("SP", "RJ").Validate())

	start := day(2018, 1, 1)
	end := day(2018, 1, 31)
	both := Filter{Start: &start, End: &end, States: []string{"SP"}}
	require.Error(t, both.Validate())

	reversed := DateRange(end, start)
	require.Error(t, reversed.Validate())
}

func TestFilterInDateRangeInclusive(t *testing.T) {
	f := DateRange(day(2018, 1, 10), day(2018, 1, 20))

	assert.True(t, f.InDateRange(day(2018, 1, 10)))
	assert.True(t, f.InDateRange(day(2018, 1, 20)))
	assert.True(t, f.InDateRange(time.Date(2018, 1, 20, 23, 59, 59, 0, time.UTC)),
		"comparison is at day granularity")
	assert.False(t, f.InDateRange(day(2018, 1, 9)))
	assert.False(t, f.InDateRange(day(2018, 1, 21)))
}

func TestFilterSingleBoundPassesThrough(t *testing.T) {
	start := day(2018, 1, 10)
	f := Filter{Start: &start}

	assert.False(t, f.HasDateRange())
	assert.True(t, f.InDateRange(day(2017, 6, 1)))
}

func TestFilterStateMembers(t *testing.T) {
	f := StateSet("SP", "RJ", "SP")
	set := f.StateMembers()
	assert.Len(t, set, 2)
	_, ok := set["SP"]
	assert.True(t, ok)
	_, ok = set["MG"]
	assert.False(t, ok)

	assert.False(t, StateSet().HasStates())
}
