package courses

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Spok95/course-registration/internal/apperr"
	"github.com/Spok95/course-registration/internal/ctxutil"
	"github.com/Spok95/course-registration/internal/db"
	"github.com/Spok95/course-registration/internal/lifecycle"
	"github.com/Spok95/course-registration/internal/models"
	"github.com/Spok95/course-registration/internal/validate"
	"go.uber.org/zap"
)

// CourseUpdate: редактируемые поля курса. Пустой Poster оставляет прежний.
type CourseUpdate struct {
	Name         string      `field:"course_name" validate:"notblank"`
	Description  string      `field:"description"`
	Date         string      `field:"course_date" validate:"civil_date"`
	Time         string      `field:"course_time" validate:"clock"`
	Mode         models.Mode `field:"mode" validate:"oneof=Online Offline"`
	Poster       string      `field:"poster"`
	Coordinator1 string      `field:"coordinator1"`
	Coordinator2 string      `field:"coordinator2"`
}

type NewCourse struct {
	ID string `field:"course_id" validate:"notblank,max=64"`
	CourseUpdate
}

func (u CourseUpdate) trimmed() CourseUpdate {
	u.Name = strings.TrimSpace(u.Name)
	u.Description = strings.TrimSpace(u.Description)
	u.Date = strings.TrimSpace(u.Date)
	u.Time = strings.TrimSpace(u.Time)
	u.Poster = strings.TrimSpace(u.Poster)
	u.Coordinator1 = strings.TrimSpace(u.Coordinator1)
	u.Coordinator2 = strings.TrimSpace(u.Coordinator2)
	return u
}

func (u CourseUpdate) course(id string) models.Course {
	return models.Course{
		ID:           id,
		Name:         u.Name,
		Description:  u.Description,
		Date:         u.Date,
		Time:         u.Time,
		Mode:         u.Mode,
		Poster:       u.Poster,
		Coordinator1: u.Coordinator1,
		Coordinator2: u.Coordinator2,
	}
}

func (s *Service) AddCourse(ctx context.Context, nc NewCourse) (*models.Course, error) {
	const op = "courses.AddCourse"
	nc.ID = strings.TrimSpace(nc.ID)
	nc.CourseUpdate = nc.CourseUpdate.trimmed()
	ctx = scope(ctx, op, "", nc.ID)
	if err := validate.Struct(op, nc); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	dbctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	err := db.InsertCourse(dbctx, s.db, nc.course(nc.ID))
	if db.IsUniqueViolation(err) {
		return nil, s.fail(ctx, op, apperr.Conflict(op, fmt.Errorf("%w: %s", apperr.ErrDuplicateCourse, nc.ID)))
	}
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	c, err := s.course(dbctx, s.db, op, nc.ID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	s.info(ctx, "course added", zap.String("date", c.Date), zap.String("time", c.Time))
	return c, nil
}

func (s *Service) EditCourse(ctx context.Context, courseID string, u CourseUpdate) (*models.Course, error) {
	const op = "courses.EditCourse"
	courseID = strings.TrimSpace(courseID)
	u = u.trimmed()
	ctx = scope(ctx, op, "", courseID)
	if err := required(op, "course_id", courseID); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if err := validate.Struct(op, u); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	dbctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	cur, err := s.course(dbctx, s.db, op, courseID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if u.Poster == "" {
		u.Poster = cur.Poster
	}
	ok, err := db.UpdateCourse(dbctx, s.db, u.course(courseID))
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if !ok {
		return nil, s.fail(ctx, op, apperr.NotFound(op, fmt.Errorf("%w: %s", apperr.ErrCourseNotFound, courseID)))
	}
	c, err := s.course(dbctx, s.db, op, courseID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	s.info(ctx, "course updated")
	return c, nil
}

func (s *Service) GetCourse(ctx context.Context, courseID string) (*models.Course, error) {
	const op = "courses.GetCourse"
	ctx = scope(ctx, op, "", courseID)
	if err := required(op, "course_id", courseID); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	dbctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	c, err := s.course(dbctx, s.db, op, courseID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return c, nil
}

// Category: вкладка списка курсов.
type Category string

const (
	CategoryUpcoming  Category = "upcoming"
	CategoryCompleted Category = "completed"
	CategoryArchived  Category = "archived"
)

func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryUpcoming, CategoryCompleted, CategoryArchived:
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q (upcoming|completed|archived)", s)
}

// CourseView: курс с вычисленным состоянием. Outcome заполнен только
// для прошедших курсов в списках конкретного студента.
type CourseView struct {
	Course  models.Course
	Start   time.Time
	State   lifecycle.TemporalState
	Outcome lifecycle.Outcome
}

// Split: курсы студента, разложенные на предстоящие и прошедшие.
type Split struct {
	Upcoming []CourseView
	Past     []CourseView
}

func (s *Service) views(op string, list []models.Course) ([]CourseView, error) {
	now := s.now()
	out := make([]CourseView, 0, len(list))
	for i := range list {
		start, err := s.start(op, &list[i])
		if err != nil {
			return nil, err
		}
		out = append(out, CourseView{
			Course: list[i],
			Start:  start,
			State:  lifecycle.Classify(start, now),
		})
	}
	return out, nil
}

// ListCourses отдаёт курсы вкладки. upcoming/completed берутся среди активных по единому
// классификатору, archived возвращает все архивные. search ищет подстроку в id или названии.
func (s *Service) ListCourses(ctx context.Context, category Category, search string) ([]CourseView, error) {
	const op = "courses.ListCourses"
	ctx = scope(ctx, op, "", "")
	if _, err := ParseCategory(string(category)); err != nil {
		return nil, s.fail(ctx, op, apperr.Validation(op, err, apperr.FieldError{Field: "category", Error: err.Error()}))
	}
	dbctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	list, err := db.ListCourses(dbctx, s.db, db.CourseFilter{
		Archived: category == CategoryArchived,
		Search:   strings.TrimSpace(search),
	})
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	all, err := s.views(op, list)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if category == CategoryArchived {
		return all, nil
	}
	want := lifecycle.Upcoming
	if category == CategoryCompleted {
		want = lifecycle.Past
	}
	out := all[:0]
	for _, v := range all {
		if v.State == want {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *Service) studentSplit(ctx context.Context, op, admissionNo string, registered bool) (Split, error) {
	ctx = scope(ctx, op, admissionNo, "")
	if err := required(op, "admission_no", admissionNo); err != nil {
		return Split{}, s.fail(ctx, op, err)
	}
	dbctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	if err := s.requireStudent(dbctx, op, admissionNo); err != nil {
		return Split{}, s.fail(ctx, op, err)
	}
	list, err := db.ListStudentCourses(dbctx, s.db, admissionNo, registered)
	if err != nil {
		return Split{}, s.fail(ctx, op, err)
	}
	all, err := s.views(op, list)
	if err != nil {
		return Split{}, s.fail(ctx, op, err)
	}
	var out Split
	for _, v := range all {
		if v.State == lifecycle.Upcoming {
			out.Upcoming = append(out.Upcoming, v)
			continue
		}
		v.Outcome, err = s.outcome(dbctx, admissionNo, v.Course.ID)
		if err != nil {
			return Split{}, s.fail(ctx, op, err)
		}
		out.Past = append(out.Past, v)
	}
	return out, nil
}

// AvailableCourses: неархивные курсы без активной записи студента.
// Для прошедших указан исход (обычно EXPIRED или ABSENT после отмены).
func (s *Service) AvailableCourses(ctx context.Context, admissionNo string) (Split, error) {
	return s.studentSplit(ctx, "courses.AvailableCourses", admissionNo, false)
}

// MyCourses: неархивные курсы с активной записью студента.
func (s *Service) MyCourses(ctx context.Context, admissionNo string) (Split, error) {
	return s.studentSplit(ctx, "courses.MyCourses", admissionNo, true)
}

// Roster: активный состав курса по ФИО.
func (s *Service) Roster(ctx context.Context, courseID string) ([]models.RosterEntry, error) {
	const op = "courses.Roster"
	ctx = scope(ctx, op, "", courseID)
	if err := required(op, "course_id", courseID); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	dbctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	if _, err := s.course(dbctx, s.db, op, courseID); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	out, err := db.Roster(dbctx, s.db, courseID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return out, nil
}

// Stats: число курсов по состояниям и активных записей.
type Stats struct {
	Active, Archived    int
	ActiveRegistrations int
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	const op = "courses.Stats"
	ctx = scope(ctx, op, "", "")
	dbctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var st Stats
	var err error
	st.Active, st.Archived, err = db.CourseStateCounts(dbctx, s.db)
	if err == nil {
		st.ActiveRegistrations, err = db.CountActiveRegistrations(dbctx, s.db)
	}
	if err != nil {
		return Stats{}, s.fail(ctx, op, err)
	}
	return st, nil
}
