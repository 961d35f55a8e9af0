package lifecycle

import (
	"fmt"
	"strings"
	"time"
)

const (
	// GracePeriod: курс считается идущим ещё час после начала.
	GracePeriod = time.Hour
	// CancellationWindow: отмена записи закрывается за сутки до начала.
	CancellationWindow = 24 * time.Hour

	DateLayout = "2006-01-02"
)

var timeLayouts = []string{"15:04:05", "15:04"}

// TemporalState: Upcoming или Past относительно «сейчас».
type TemporalState string

const (
	Upcoming TemporalState = "upcoming"
	Past     TemporalState = "past"
)

// CombineDateTime собирает момент начала курса из даты ("2006-01-02") и времени ("15:04[:05]")
// в поясе loc. Это единственное место, где дата и время курса склеиваются.
func CombineDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("course date %q: %w", date, err)
	}
	c, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	y, m, day := d.Date()
	return time.Date(y, m, day, c.Hour(), c.Minute(), c.Second(), 0, loc), nil
}

// ParseClock разбирает время суток; дата в результате не имеет смысла.
func ParseClock(clock string) (time.Time, error) {
	clock = strings.TrimSpace(clock)
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, clock); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("course time %q: expected HH:MM or HH:MM:SS", clock)
}

// Classify: Upcoming строго до start+GracePeriod, на границе и после уже Past.
func Classify(start, now time.Time) TemporalState {
	if now.Before(start.Add(GracePeriod)) {
		return Upcoming
	}
	return Past
}

// CancellationDeadline: последний момент, когда ещё можно отменить запись.
func CancellationDeadline(start time.Time) time.Time {
	return start.Add(-CancellationWindow)
}

// CanCancel: now <= start-24h, граница включительно.
func CanCancel(start, now time.Time) bool {
	return !now.After(CancellationDeadline(start))
}

// CivilDate: календарная дата момента t в поясе loc.
func CivilDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}
