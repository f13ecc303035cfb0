package controller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCutoffDate(t *testing.T) {
	assert.Equal(t, "2016-08-23", CutoffDate.Format(time.DateOnly))
	assert.Equal(t, "2017-08-23", ReferenceDate.Format(time.DateOnly))
}

func TestParseTempRange_Valid(t *testing.T) {
	start, end, hasEnd, err := parseTempRange("01012017", "01072017")
	require.NoError(t, err)
	assert.True(t, hasEnd)
	assert.Equal(t, "2017-01-01", start.Format(time.DateOnly))
	assert.Equal(t, "2017-01-07", end.Format(time.DateOnly))
}

func TestParseTempRange_StartOnly(t *testing.T) {
	start, end, hasEnd, err := parseTempRange(" 08232016 ", "")
	require.NoError(t, err)
	assert.False(t, hasEnd)
	assert.True(t, end.IsZero())
	assert.Equal(t, "2016-08-23", start.Format(time.DateOnly))
}

func TestParseTempRange_SameDay(t *testing.T) {
	start, end, _, err := parseTempRange("01012017", "01012017")
	require.NoError(t, err)
	assert.Equal(t, start, end)
}

func TestParseTempRange_StartAfterEnd(t *testing.T) {
	start, end, hasEnd, err := parseTempRange("01072017", "01012017")
	require.NoError(t, err)
	assert.True(t, hasEnd)
	assert.Equal(t, "2017-01-07", start.Format(time.DateOnly))
	assert.Equal(t, "2017-01-01", end.Format(time.DateOnly))
}

func TestParseTempRange_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr error
		wantMsg string
	}{
		{name: "word", start: "notadate", wantErr: ErrInvalidDate, wantMsg: "start"},
		{name: "iso format", start: "2017-01-01", wantErr: ErrInvalidDate, wantMsg: "start"},
		{name: "too short", start: "1012017", wantErr: ErrInvalidDate, wantMsg: "start"},
		{name: "month 13", start: "13012017", wantErr: ErrInvalidDate, wantMsg: "start"},
		{name: "february 30", start: "02302017", wantErr: ErrInvalidDate, wantMsg: "start"},
		{name: "empty start", start: "", wantErr: ErrInvalidDate, wantMsg: "start"},
		{name: "bad end", start: "01012017", end: "tomorrow", wantErr: ErrInvalidDate, wantMsg: "end"},
		{name: "end day 32", start: "01012017", end: "01322017", wantErr: ErrInvalidDate, wantMsg: "end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := parseTempRange(tt.start, tt.end)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
