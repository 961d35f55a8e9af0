package models

import (
	"time"

	"github.com/Spok95/course-registration/internal/lifecycle"
)

type Mode string

const (
	ModeOnline  Mode = "Online"
	ModeOffline Mode = "Offline"
)

type Course struct {
	ID           string    `db:"course_id"`
	Name         string    `db:"course_name"`
	Description  string    `db:"description"`
	Date         string    `db:"course_date"` // 2006-01-02
	Time         string    `db:"course_time"` // 15:04:05
	Mode         Mode      `db:"mode"`
	Poster       string    `db:"poster"`
	Coordinator1 string    `db:"coordinator1"`
	Coordinator2 string    `db:"coordinator2"`
	IsDeleted    bool      `db:"is_deleted"`
	CreatedAt    time.Time `db:"created_at"`
}

// Start: момент начала курса в поясе loc.
func (c Course) Start(loc *time.Location) (time.Time, error) {
	return lifecycle.CombineDateTime(c.Date, c.Time, loc)
}

func (c Course) State() lifecycle.State {
	return lifecycle.StateOf(c.IsDeleted)
}
