package deck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type ExperienceKind int

const (
	ExperienceNone ExperienceKind = iota
	ExperienceYears
	ExperienceHistory
)

// ExperienceEntry is a single position of a work history.
type ExperienceEntry struct {
	Role    string `json:"role"`
	Company string `json:"company"`
	Years   int    `json:"years"`
}

// Experience is either a plain year count or a work history. Stored
// records carry one of the two wire shapes (or none at all); consumers
// switch on Kind instead of inspecting the raw value.
type Experience struct {
	kind    ExperienceKind
	years   int
	history []ExperienceEntry
}

func YearsExperience(years int) Experience {
	return Experience{kind: ExperienceYears, years: years}
}

func HistoryExperience(entries ...ExperienceEntry) Experience {
	return Experience{kind: ExperienceHistory, history: entries}
}

func (e Experience) Kind() ExperienceKind { return e.kind }

// Years is meaningful only for ExperienceYears.
func (e Experience) Years() int { return e.years }

// History is meaningful only for ExperienceHistory.
func (e Experience) History() []ExperienceEntry { return e.history }

func (e Experience) MarshalJSON() ([]byte, error) {
	switch e.kind {
	case ExperienceYears:
		return json.Marshal(e.years)
	case ExperienceHistory:
		return json.Marshal(e.history)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts every shape found in stored collections: a
// number, a numeric string written by old form versions, or a history
// array. Unusable legacy strings degrade to no experience.
func (e *Experience) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*e = Experience{}
		return nil
	}
	switch trimmed[0] {
	case '[':
		var history []ExperienceEntry
		if err := json.Unmarshal(trimmed, &history); err != nil {
			return fmt.Errorf("experience history: %w", err)
		}
		*e = HistoryExperience(history...)
	case '"':
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return fmt.Errorf("experience string: %w", err)
		}
		years, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			*e = Experience{}
			return nil
		}
		*e = YearsExperience(int(years))
	default:
		var years float64
		if err := json.Unmarshal(trimmed, &years); err != nil {
			return fmt.Errorf("experience years: %w", err)
		}
		*e = YearsExperience(int(years))
	}
	return nil
}
