package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Field is a raw scalar from a form or JSON body. JSON numbers and strings
// are both accepted so that lenient parsing happens in one place. Any other
// JSON value is kept as its raw text and later parses as unset.
type Field string

func (f *Field) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = Field(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = Field(n.String())
		return nil
	}
	*f = Field(b)
	return nil
}

func (f Field) String() string {
	return strings.TrimSpace(string(f))
}

// Parsed is the result of lenient numeric parsing. Set is false for empty
// input and for input that could not be parsed; Err explains the latter.
type Parsed struct {
	Value int
	Set   bool
	Err   error
}

// Ptr returns the value as a pointer, nil when unset.
func (p Parsed) Ptr() *int {
	if !p.Set {
		return nil
	}
	v := p.Value
	return &v
}

// ParseOptionalInt accepts a non-negative decimal integer. Anything else is unset.
func ParseOptionalInt(raw string) Parsed {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Parsed{}
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return Parsed{Err: fmt.Errorf("%q is not a non-negative integer", raw)}
	}
	return Parsed{Value: n, Set: true}
}

// ParseOptionalID parses a positive row id; zero and garbage are unset.
func ParseOptionalID(raw string) *uint {
	p := ParseOptionalInt(raw)
	if !p.Set || p.Value == 0 {
		return nil
	}
	id := uint(p.Value)
	return &id
}

// yearStart turns a publication year into January 1st of that year.
func yearStart(p Parsed) (*time.Time, error) {
	if !p.Set {
		return nil, p.Err
	}
	if p.Value < 1 || p.Value > 9999 {
		return nil, fmt.Errorf("year %d out of range", p.Value)
	}
	t := time.Date(p.Value, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &t, nil
}

// ParseDate reads YYYY-MM-DD. Empty input is unset; malformed input is an error.
func ParseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("%q is not a YYYY-MM-DD date", raw)
	}
	return &t, nil
}
