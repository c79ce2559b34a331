package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupDiscount(t *testing.T) {
	cases := []struct {
		from, to int
		want     float64
	}{
		{0, 2, 0},
		{3, 5, 0.10},
		{6, 10, 0.20},
		{11, 40, 0.30},
	}
	for _, tc := range cases {
		for size := tc.from; size <= tc.to; size++ {
			assert.Equal(t, tc.want, GroupDiscount(size), "party size %d", size)
		}
	}
}

func TestFrequencyDiscount(t *testing.T) {
	cases := []struct {
		from, to int
		want     float64
	}{
		{0, 1, 0},
		{2, 4, 0.10},
		{5, 6, 0.20},
		{7, 50, 0.30},
	}
	for _, tc := range cases {
		for visits := tc.from; visits <= tc.to; visits++ {
			assert.Equal(t, tc.want, FrequencyDiscount(visits), "visits %d", visits)
		}
	}
}

func TestBirthdayDiscountFor(t *testing.T) {
	dob := time.Date(1990, time.April, 28, 0, 0, 0, 0, time.UTC)
	birthday := time.Date(2025, time.April, 28, 0, 0, 0, 0, time.UTC)
	otherDay := time.Date(2025, time.April, 29, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		day       time.Time
		dob       time.Time
		partySize int
		want      float64
	}{
		{"birthday with group", birthday, dob, 3, 0.50},
		{"birthday large group", birthday, dob, 12, 0.50},
		{"birthday too few people", birthday, dob, 2, 0},
		{"not birthday", otherDay, dob, 5, 0},
		{"unknown date of birth", birthday, time.Time{}, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BirthdayDiscountFor(tt.day, tt.dob, tt.partySize))
		})
	}
}

func TestIsBirthday_LeapDay(t *testing.T) {
	dob := time.Date(2000, time.February, 29, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsBirthday(time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), dob))
	assert.False(t, IsBirthday(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), dob))
	assert.True(t, IsBirthday(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), dob))
	assert.False(t, IsBirthday(time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC), dob))
}

func TestIsBirthday_IgnoresYear(t *testing.T) {
	dob := time.Date(1990, time.April, 28, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsBirthday(time.Date(2025, time.April, 28, 15, 0, 0, 0, time.UTC), dob))
	assert.True(t, IsBirthday(dob, dob))
	assert.False(t, IsBirthday(time.Date(1990, time.April, 29, 0, 0, 0, 0, time.UTC), dob))
}

func TestSpecialDayDiscountFor(t *testing.T) {
	assert.Equal(t, 0.05, SpecialDayDiscountFor(true))
	assert.Equal(t, 0.0, SpecialDayDiscountFor(false))
}

func TestEvaluateDiscount_HighestWins(t *testing.T) {
	e := DefaultEngine()
	start := time.Date(2025, time.April, 28, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		partySize int
		visits    int
		dob       time.Time
		special   bool
		want      DiscountBreakdown
	}{
		{
			name:      "nothing applies",
			partySize: 2,
			want:      DiscountBreakdown{},
		},
		{
			name:      "special day only",
			partySize: 1,
			special:   true,
			want:      DiscountBreakdown{SpecialDay: 0.05, Resolved: 0.05},
		},
		{
			name:      "group and frequency tie",
			partySize: 12,
			visits:    8,
			special:   true,
			want:      DiscountBreakdown{Group: 0.30, Frequency: 0.30, SpecialDay: 0.05, Resolved: 0.30},
		},
		{
			name:      "birthday dominates group",
			partySize: 3,
			dob:       time.Date(1995, time.April, 28, 0, 0, 0, 0, time.UTC),
			want:      DiscountBreakdown{Group: 0.10, Birthday: 0.50, Resolved: 0.50},
		},
		{
			name:      "frequency beats group",
			partySize: 4,
			visits:    5,
			want:      DiscountBreakdown{Group: 0.10, Frequency: 0.20, Resolved: 0.20},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := BookingInput{StartTime: start, PartySize: tt.partySize, IsSpecialDay: tt.special}
			client := ClientInput{VisitFrequency: tt.visits, DateOfBirth: tt.dob}

			got, err := e.EvaluateDiscount(booking, client)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.Resolved, 0.0)
			assert.LessOrEqual(t, got.Resolved, 0.5)
		})
	}
}
