package models

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_RoundTrip(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 1, 3, 10, 15, 30, 500, time.UTC))

	out, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-03T10:15:30.0000005Z"`, string(out))

	var back Timestamp
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, ts.Equal(back.Time))
}

func TestTimestamp_Null(t *testing.T) {
	out, err := json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	back := NewTimestamp(time.Now())
	require.NoError(t, json.Unmarshal([]byte("null"), &back))
	assert.True(t, back.IsZero())
}

func TestTimestamp_NaiveLayouts(t *testing.T) {
	for _, raw := range []string{`"2023-11-05T08:15:30.123456"`, `"2023-11-05 08:15:30"`, `"2023-11-05T08:15:30"`} {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(raw), &ts), raw)
		assert.Equal(t, time.Local, ts.Location())
		assert.Equal(t, 8, ts.Hour())
		assert.Equal(t, "2023-11-05", DateOf(ts.Time).String())
	}
}

func TestTimestamp_Invalid(t *testing.T) {
	var ts Timestamp
	assert.ErrorIs(t, json.Unmarshal([]byte(`"yesterday"`), &ts), ErrInvalidInput)
}
