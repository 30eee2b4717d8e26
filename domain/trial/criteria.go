package trial

import "strings"

const (
	// DefaultLimit bounds match results when the caller does not ask for a
	// specific page size.
	DefaultLimit = 20
	// MaxLimit caps the result set regardless of what the caller asks for.
	MaxLimit = 100
)

// Criteria are the search inputs for a match query. At least one of
// Conditions, Location or Status must be present; age, gender and distance
// are deliberately absent (accepted at the HTTP edge, never acted on).
type Criteria struct {
	Conditions []string
	Location   string
	Status     string
	Limit      int
}

// Normalize trims the inputs and clamps Limit into [1, MaxLimit].
func (c Criteria) Normalize() Criteria {
	out := Criteria{
		Location: strings.TrimSpace(c.Location),
		Status:   strings.TrimSpace(c.Status),
		Limit:    c.Limit,
	}
	for _, cond := range c.Conditions {
		if cond = strings.TrimSpace(cond); cond != "" {
			out.Conditions = append(out.Conditions, cond)
		}
	}
	if out.Limit <= 0 {
		out.Limit = DefaultLimit
	}
	if out.Limit > MaxLimit {
		out.Limit = MaxLimit
	}
	return out
}

// Empty reports whether no usable criterion was supplied.
func (c Criteria) Empty() bool {
	return len(c.Conditions) == 0 && c.Location == "" && c.Status == ""
}

// Scored reports whether the result set must be filtered to score > 0.
// Status alone filters rows directly and does not contribute to the score.
func (c Criteria) Scored() bool {
	return len(c.Conditions) > 0 || c.Location != ""
}
