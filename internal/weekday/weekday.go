// Package weekday converts between English weekday names and Sunday-based
// indices (Sunday=0 … Saturday=6) and computes cyclic neighbours.
//
// All functions are pure except Current/CurrentIndex, which read the host's
// local clock through the supplied clock function.
package weekday

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/schedkeeper/internal/common"
)

// DaysInWeek is the length of a schedule's day pattern.
const DaysInWeek = 7

var names = [DaysInWeek]string{
	"Sunday",
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
}

// Names returns the seven weekday names in index order.
func Names() []string {
	out := make([]string, DaysInWeek)
	copy(out, names[:])
	return out
}

// NameToIndex returns the Sunday-based index of name.
func NameToIndex(name string) (int, error) {
	for i, n := range names {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", common.ErrInvalidWeekDay, name)
}

// IndexToName returns the weekday name for i.
func IndexToName(i int) (string, error) {
	if i < 0 || i >= DaysInWeek {
		return "", fmt.Errorf("%w: index %d", common.ErrInvalidWeekDay, i)
	}
	return names[i], nil
}

// Next returns the day following name, wrapping Saturday to Sunday.
func Next(name string) (string, error) {
	i, err := NameToIndex(name)
	if err != nil {
		return "", err
	}
	return names[(i+1)%DaysInWeek], nil
}

// Previous returns the day preceding name, wrapping Sunday to Saturday.
func Previous(name string) (string, error) {
	i, err := NameToIndex(name)
	if err != nil {
		return "", err
	}
	return names[(i+DaysInWeek-1)%DaysInWeek], nil
}

// CurrentIndex returns today's index according to now (time.Now when nil).
func CurrentIndex(now func() time.Time) int {
	if now == nil {
		now = time.Now
	}
	return int(now().Local().Weekday())
}

// Current returns today's weekday name according to now (time.Now when nil).
func Current(now func() time.Time) string {
	return names[CurrentIndex(now)]
}
