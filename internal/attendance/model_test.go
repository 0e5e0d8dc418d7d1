package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	got := Summarize([]Record{
		{Status: StatusPresent},
		{Status: StatusAbsent},
		{Status: StatusAbsent},
		{Status: StatusLate},
	})
	assert.Equal(t, Summary{Registered: 4, Present: 1, Absent: 2, Late: 1}, got)
}

func TestSummarize_CountsUnsetRowsAsRegistered(t *testing.T) {
	got := Summarize([]Record{{Status: StatusUnset}, {Status: StatusPresent}})
	assert.Equal(t, Summary{Registered: 2, Present: 1}, got)
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"":         StatusUnset,
		"present":  StatusPresent,
		" Absent ": StatusAbsent,
		"LATE":     StatusLate,
	}
	for in, want := range cases {
		got, ok := ParseStatus(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"presente", "excused", "unset"} {
		_, ok := ParseStatus(in)
		assert.False(t, ok, in)
	}
}

func TestNormalize(t *testing.T) {
	for _, st := range []Status{StatusUnset, StatusPresent, StatusLate} {
		r := Record{Status: st, Reason: "flu", Justified: true}.Normalize()
		assert.Empty(t, r.Reason)
		assert.False(t, r.Justified)
	}

	r := Record{Status: StatusAbsent, Reason: "flu", Justified: true}.Normalize()
	assert.Equal(t, "flu", r.Reason)
	assert.True(t, r.Justified)
}
