package api

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	vmerrors "vmctl/pkg/errors"
)

// Accepted layouts for time_delta parameters, tried in order. Layouts without
// a zone are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Unix timestamps beyond this magnitude are read as milliseconds.
const unixMillisThreshold = 2e10

// TimeDeltaResponse represents a time_delta response.
type TimeDeltaResponse struct {
	// Delta is end minus start in seconds. It is negative when end precedes start.
	Delta float64 `json:"delta"`
}

// ParseTimestamp parses an ISO 8601 timestamp in one of the accepted layouts,
// or a unix timestamp in seconds or milliseconds.
func ParseTimestamp(value string) (time.Time, error) {
	if t, ok := parseUnix(value); ok {
		return t, nil
	}

	candidates := []string{value}
	// An unescaped "+" in a query string arrives as a space.
	if strings.Contains(value, " ") {
		candidates = append(candidates, strings.ReplaceAll(value, " ", "+"))
	}

	for _, candidate := range candidates {
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, candidate); err == nil {
				return t, nil
			}
		}
	}

	return time.Time{}, fmt.Errorf("invalid datetime %q", value)
}

func parseUnix(value string) (time.Time, bool) {
	if value == "" || strings.ContainsAny(value, "xXpPnNiI_") {
		return time.Time{}, false
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return time.Time{}, false
	}

	if math.Abs(f) > unixMillisThreshold {
		f /= 1000
	}

	sec, frac := math.Modf(f)

	return time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC(), true
}

// Delta returns end - start in seconds.
func Delta(start, end time.Time) float64 {
	return end.Sub(start).Seconds()
}

// TimeDelta handles time_delta requests
func TimeDelta(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var (
		errs       vmerrors.ValidationErrors
		start, end time.Time
	)

	for _, param := range []struct {
		name string
		dst  *time.Time
	}{
		{name: "start", dst: &start},
		{name: "end", dst: &end},
	} {
		if !query.Has(param.name) {
			errs = append(errs, missingField(param.name))
			continue
		}

		raw := query.Get(param.name)

		t, err := ParseTimestamp(raw)
		if err != nil {
			errs = append(errs, vmerrors.ValidationError{
				Field:      param.name,
				Kind:       vmerrors.KindDatetimeParsing,
				Constraint: "must be a valid datetime",
				Value:      raw,
			})

			continue
		}

		*param.dst = t
	}

	if len(errs) > 0 {
		writeDetail(w, http.StatusUnprocessableEntity, validationDetails("query", errs))
		return
	}

	writeJSON(w, http.StatusOK, TimeDeltaResponse{Delta: Delta(start, end)})
}
