// Package models defines the Schedule entity shared by the local cache, the
// remote store and the recurrence scheduler.
package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/schedkeeper/internal/common"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var validate = validator.New()

// TimeOfDay is a host-local wall-clock time with minute precision.
// It is serialized as "HH:MM".
type TimeOfDay struct {
	Hour   int `validate:"min=0,max=23"`
	Minute int `validate:"min=0,max=59"`
}

// Before reports whether t is earlier in the day than o.
func (t TimeOfDay) Before(o TimeOfDay) bool {
	if t.Hour != o.Hour {
		return t.Hour < o.Hour
	}
	return t.Minute < o.Minute
}

// Compare returns -1, 0 or +1 ordering t against o by hour, then minute.
func (t TimeOfDay) Compare(o TimeOfDay) int {
	switch {
	case t.Before(o):
		return -1
	case o.Before(t):
		return 1
	default:
		return 0
	}
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimeOfDay parses "HH:MM". Range checks are left to Validate.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return TimeOfDay{}, fmt.Errorf("time of day %q: expected HH:MM", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("time of day %q: %w", s, err)
	}
	minute, err := strconv.Atoi(m)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Schedule is a user-defined weekly recurring reminder.
type Schedule struct {
	// ID is empty before creation; assigned by the local cache or the remote store.
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	// URL is what a fired trigger opens; it is also half of the trigger key.
	URL  string    `json:"url" validate:"required"`
	Time TimeOfDay `json:"time"`
	// Days holds one flag per weekday, index 0 = Sunday.
	Days    []int  `json:"days" validate:"len=7,dive,oneof=0 1"`
	OwnerID string `json:"ownerId" validate:"required"`
	Enabled bool   `json:"enabled"`
}

// Validate reports ErrTypeMismatch if s is not a well-formed schedule.
func (s *Schedule) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil schedule", common.ErrTypeMismatch)
	}
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", common.ErrTypeMismatch, err)
	}
	return nil
}

// ActiveOn reports whether day i is flagged in the pattern.
func (s *Schedule) ActiveOn(i int) bool {
	return i >= 0 && i < len(s.Days) && s.Days[i] == 1
}

// ActiveDays returns the flagged weekday indices in ascending order.
func (s *Schedule) ActiveDays() []int {
	var out []int
	for i := range s.Days {
		if s.Days[i] == 1 {
			out = append(out, i)
		}
	}
	return out
}

// Clone returns a deep copy of s.
func (s *Schedule) Clone() *Schedule {
	c := *s
	c.Days = append([]int(nil), s.Days...)
	return &c
}

// Encode serializes s as a flat JSON object.
func Encode(s *Schedule) ([]byte, error) {
	return json.Marshal(s)
}

// Decode parses and validates a JSON schedule. Any failure is reported as
// ErrTypeMismatch.
func Decode(b []byte) (*Schedule, error) {
	var s Schedule
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTypeMismatch, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// EncodeBody serializes s without its ID, for stores that address documents
// separately from their content.
func EncodeBody(s *Schedule) ([]byte, error) {
	c := s.Clone()
	c.ID = ""
	return json.Marshal(c)
}
