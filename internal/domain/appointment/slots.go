package appointment

import (
	"time"

	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var ErrSlotTaken = httperr.ErrBusiness("slot_taken")

// BusinessSlots are the bookable start times, morning then afternoon.
var BusinessSlots = []string{
	"08:00", "09:00", "10:00", "11:00",
	"13:00", "14:00", "15:00", "16:00", "17:00",
}

func IsBusinessSlot(t string) bool {
	for _, s := range BusinessSlots {
		if s == t {
			return true
		}
	}
	return false
}

// ParseDate reads a calendar date as a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

func ValidTime(s string) bool {
	_, err := time.Parse(TimeLayout, s)
	return err == nil && len(s) == len(TimeLayout)
}

// IsBusinessDay reports Monday through Saturday. The weekday of the
// calendar date is taken in UTC so it never shifts with the server zone.
func IsBusinessDay(d time.Time) bool {
	return d.UTC().Weekday() != time.Sunday
}

func SlotKey(date, t string) string {
	return date + "T" + t
}
