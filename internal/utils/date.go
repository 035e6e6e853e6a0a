package util

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// LocalDate is a calendar date with no time component, serialized as
// YYYY-MM-DD everywhere: JSON payloads, URL params and the date columns
// that key the day ledger.
type LocalDate struct {
	time.Time
}

const dateLayout = "2006-01-02"

func ParseLocalDate(s string) (LocalDate, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return LocalDate{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return LocalDate{Time: t}, nil
}

func DateOf(t time.Time) LocalDate {
	y, m, d := t.Date()
	return LocalDate{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d LocalDate) String() string {
	return d.Format(dateLayout)
}

func (d LocalDate) Next() LocalDate {
	return LocalDate{Time: d.AddDate(0, 0, 1)}
}

func (d LocalDate) Prev() LocalDate {
	return LocalDate{Time: d.AddDate(0, 0, -1)}
}

func (d LocalDate) Equal(other LocalDate) bool {
	return d.String() == other.String()
}

func (d LocalDate) Before(other LocalDate) bool {
	return d.String() < other.String()
}

func (d *LocalDate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	parsed, err := ParseLocalDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d LocalDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d LocalDate) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

func (d *LocalDate) Scan(value interface{}) error {
	if value == nil {
		d.Time = time.Time{}
		return nil
	}

	switch v := value.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case []byte:
		parsed, err := ParseLocalDate(strings.TrimSpace(string(v)))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseLocalDate(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan type %T into LocalDate", value)
	}
}
