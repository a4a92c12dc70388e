package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/dasha/internal/period"
)

// childRecord is the stored wire form of one child period. Instants are
// RFC 3339 UTC strings and durations exact "p/q" strings, matching the
// canonical JSON convention used everywhere else.
type childRecord struct {
	Body  string `json:"body"`
	Start string `json:"start"`
	End   string `json:"end"`
	Years string `json:"years"`
}

// encodeChildren serializes a computed child list to canonical JSON.
// Only single-level lists are memoized; children of children are
// separate cache entries under their own keys.
func encodeChildren(children []period.Period) (string, error) {
	list := make([]any, len(children))
	for i, c := range children {
		list[i] = map[string]any{
			"body":  string(c.Body),
			"start": period.CanonicalInstant(c.Start),
			"end":   period.CanonicalInstant(c.End),
			"years": c.YearsString(),
		}
	}
	payload, err := period.MarshalCanonical(list)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// decodeChildren parses a stored child list back into Period values.
func decodeChildren(payload string) ([]period.Period, error) {
	var records []childRecord
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, fmt.Errorf("decoding cached children: %w", err)
	}

	children := make([]period.Period, len(records))
	for i, r := range records {
		start, err := time.Parse(time.RFC3339Nano, r.Start)
		if err != nil {
			return nil, fmt.Errorf("cached child %d: invalid start: %w", i, err)
		}
		end, err := time.Parse(time.RFC3339Nano, r.End)
		if err != nil {
			return nil, fmt.Errorf("cached child %d: invalid end: %w", i, err)
		}
		years, err := period.ParseYears(r.Years)
		if err != nil {
			return nil, fmt.Errorf("cached child %d: %w", i, err)
		}
		children[i] = period.Period{
			Body:     period.Body(r.Body),
			Start:    start.UTC(),
			End:      end.UTC(),
			Years:    years,
			Children: period.NoChildren{},
		}
	}
	return children, nil
}
