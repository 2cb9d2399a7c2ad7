package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/margoul1Malin/HakBoard/internal/leakcheck"
	"github.com/margoul1Malin/HakBoard/internal/models"
)

const (
	// PublicFieldPlaceholder stands in for field values the public API hides.
	PublicFieldPlaceholder = "present in the breach (details not available with the public API)"

	unknownSource     = "unknown source"
	publicSearchError = "search with the public API failed"
)

// FormatPublic reshapes a public API answer into the record layout of the
// private API. Breach months are resolved to midnight on the 1st in loc.
func FormatPublic(raw *leakcheck.PublicResult, loc *time.Location) models.Result {
	if raw == nil || !raw.Success {
		return models.Failure(publicSearchError)
	}
	if raw.Found == 0 {
		return models.Success(nil)
	}

	records := make([]models.Record, 0, len(raw.Sources))
	for _, src := range raw.Sources {
		name := src.Name
		if name == "" {
			name = unknownSource
		}
		rec := models.Record{
			"sources":       name,
			"last_breach":   nil,
			"line":          nil,
			"password":      nil,
			"is_public_api": true,
		}
		if ts, ok := breachTimestamp(src.Date, loc); ok {
			rec["last_breach"] = ts
		}
		for _, field := range raw.Fields {
			rec[field] = PublicFieldPlaceholder
		}
		records = append(records, rec)
	}
	return models.Success(records)
}

// breachTimestamp parses "YYYY-MM" into epoch seconds.
func breachTimestamp(date string, loc *time.Location) (int64, bool) {
	parts := strings.Split(date, "-")
	if len(parts) != 2 {
		return 0, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || year < 1 || year > 9999 {
		return 0, false
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || month < 1 || month > 12 {
		return 0, false
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc).Unix(), true
}
