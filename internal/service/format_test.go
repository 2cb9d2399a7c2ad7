package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/margoul1Malin/HakBoard/internal/leakcheck"
	"github.com/margoul1Malin/HakBoard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPublic_Sources(t *testing.T) {
	raw := &leakcheck.PublicResult{
		Success: true,
		Found:   2,
		Sources: []leakcheck.PublicSource{{Name: "SiteA", Date: "2021-07"}, {Name: "SiteB"}},
		Fields:  []string{"password"},
	}

	res := FormatPublic(raw, time.Local)
	require.False(t, res.IsError())
	require.Len(t, res.Records, 2)

	first := res.Records[0]
	assert.Equal(t, "SiteA", first["sources"])
	assert.Equal(t, time.Date(2021, time.July, 1, 0, 0, 0, 0, time.Local).Unix(), first["last_breach"])
	assert.Equal(t, PublicFieldPlaceholder, first["password"])
	assert.Nil(t, first["line"])
	assert.Equal(t, true, first["is_public_api"])

	second := res.Records[1]
	assert.Equal(t, "SiteB", second["sources"])
	assert.Nil(t, second["last_breach"])
	assert.Contains(t, second, "last_breach")
	assert.Equal(t, PublicFieldPlaceholder, second["password"])
}

func TestFormatPublic_UsesLocation(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	raw := &leakcheck.PublicResult{
		Success: true,
		Found:   1,
		Sources: []leakcheck.PublicSource{{Name: "SiteA", Date: "2021-07"}},
	}

	res := FormatPublic(raw, paris)
	require.Len(t, res.Records, 1)
	// 2021-07-01T00:00:00+02:00
	assert.Equal(t, int64(1625090400), res.Records[0]["last_breach"])
}

func TestFormatPublic_NoBreach(t *testing.T) {
	res := FormatPublic(&leakcheck.PublicResult{Success: true, Found: 0}, time.UTC)
	require.False(t, res.IsError())
	assert.Empty(t, res.Records)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))
}

func TestFormatPublic_Unsuccessful(t *testing.T) {
	for _, raw := range []*leakcheck.PublicResult{nil, {Success: false, Found: 3}} {
		res := FormatPublic(raw, time.UTC)
		require.True(t, res.IsError())
		assert.Equal(t, publicSearchError, res.Err.Error)
		assert.False(t, res.Err.TryPublic)
	}
}

func TestFormatPublic_DefaultSourceName(t *testing.T) {
	raw := &leakcheck.PublicResult{Success: true, Found: 1, Sources: []leakcheck.PublicSource{{}}}
	res := FormatPublic(raw, time.UTC)
	require.Len(t, res.Records, 1)
	assert.Equal(t, unknownSource, res.Records[0]["sources"])
}

func TestBreachTimestamp(t *testing.T) {
	tests := []struct {
		date   string
		want   int64
		wantOK bool
	}{
		{date: "2021-07", want: 1625097600, wantOK: true},
		{date: "1999-1", want: 915148800, wantOK: true},
		{date: "", wantOK: false},
		{date: "2021", wantOK: false},
		{date: "2021-07-15", wantOK: false},
		{date: "2021-13", wantOK: false},
		{date: "2021-00", wantOK: false},
		{date: "July-2021", wantOK: false},
		{date: "0000-01", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got, ok := breachTimestamp(tt.date, time.UTC)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFormatPublic_MalformedDate(t *testing.T) {
	raw := &leakcheck.PublicResult{
		Success: true,
		Found:   1,
		Sources: []leakcheck.PublicSource{{Name: "SiteC", Date: "garbage-date"}},
	}

	var res models.Result
	assert.NotPanics(t, func() { res = FormatPublic(raw, time.UTC) })
	require.Len(t, res.Records, 1)
	assert.Nil(t, res.Records[0]["last_breach"])
}
