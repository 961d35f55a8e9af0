package courses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Spok95/course-registration/internal/apperr"
	"github.com/Spok95/course-registration/internal/ctxutil"
	"github.com/Spok95/course-registration/internal/db"
	"github.com/Spok95/course-registration/internal/lifecycle"
	"github.com/Spok95/course-registration/internal/metrics"
	"github.com/Spok95/course-registration/internal/models"
	"go.uber.org/zap"
)

// RecordAttendance пишет отметки за дату одной транзакцией: либо все, либо ни одной.
// Повторная отметка за тот же день перезаписывает статус; при повторе студента
// в одной пачке побеждает последняя строка. Возвращает число записанных строк.
func (s *Service) RecordAttendance(ctx context.Context, courseID, date string, rows []models.AttendanceMark) (int, error) {
	const op = "courses.RecordAttendance"
	ctx = scope(ctx, op, "", courseID)
	if err := required(op, "course_id", courseID, "date", date); err != nil {
		return 0, s.fail(ctx, op, err)
	}
	if _, err := time.Parse(lifecycle.DateLayout, date); err != nil {
		return 0, s.fail(ctx, op, apperr.Validation(op, err,
			apperr.FieldError{Field: "date", Error: "date must be in YYYY-MM-DD format"}))
	}
	marks, err := normalizeMarks(op, rows)
	if err != nil {
		return 0, s.fail(ctx, op, err)
	}

	dbctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var written int
	err = db.WithTx(dbctx, s.db, func(tx *sql.Tx) error {
		if _, err := s.activeCourse(dbctx, tx, op, courseID); err != nil {
			return err
		}
		ids := make([]string, 0, len(marks))
		for _, m := range marks {
			ids = append(ids, m.AdmissionNo)
		}
		registered, err := db.ActivelyRegistered(dbctx, tx, courseID, ids)
		if err != nil {
			return err
		}
		var offenders []apperr.FieldError
		for _, id := range ids {
			if !registered[id] {
				offenders = append(offenders, apperr.FieldError{Field: id, Error: "not registered for this course"})
			}
		}
		if len(offenders) > 0 {
			return apperr.Validation(op, apperr.ErrNotRegistered, offenders...)
		}
		written, err = db.UpsertAttendance(dbctx, tx, courseID, date, marks)
		return err
	})
	if err != nil {
		return 0, s.fail(ctx, op, err)
	}

	metrics.AttendanceRows.Add(float64(written))
	s.info(ctx, "attendance recorded", zap.String("date", date), zap.Int("rows", written))
	return written, nil
}

// normalizeMarks проверяет строки и схлопывает повторы. Порядок задаёт первое
// появление студента, статус берётся из последней строки.
func normalizeMarks(op string, rows []models.AttendanceMark) ([]models.AttendanceMark, error) {
	if len(rows) == 0 {
		return nil, apperr.Validation(op, errors.New("no attendance rows"),
			apperr.FieldError{Field: "rows", Error: "at least one row is required"})
	}
	var fields []apperr.FieldError
	index := make(map[string]int, len(rows))
	out := make([]models.AttendanceMark, 0, len(rows))
	for i, r := range rows {
		id := strings.TrimSpace(r.AdmissionNo)
		if id == "" {
			fields = append(fields, apperr.FieldError{Field: fmt.Sprintf("rows[%d].admission_no", i), Error: "this field is required"})
			continue
		}
		if !r.Status.Valid() {
			fields = append(fields, apperr.FieldError{Field: fmt.Sprintf("rows[%d].status", i), Error: "status must be Present or Absent"})
			continue
		}
		if j, ok := index[id]; ok {
			out[j].Status = r.Status
			continue
		}
		index[id] = len(out)
		out = append(out, models.AttendanceMark{AdmissionNo: id, Status: r.Status})
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(op, errors.New("invalid attendance rows"), fields...)
	}
	return out, nil
}

// AttendanceSheet строит ведомость за дату (пустая дата означает сегодня) из активного состава курса
// и сохранённые отметки. Без отметки предлагается Present.
func (s *Service) AttendanceSheet(ctx context.Context, courseID, date string) ([]models.SheetRow, error) {
	const op = "courses.AttendanceSheet"
	ctx = scope(ctx, op, "", courseID)
	if err := required(op, "course_id", courseID); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if date == "" {
		date = lifecycle.CivilDate(s.now(), s.loc)
	}
	if _, err := time.Parse(lifecycle.DateLayout, date); err != nil {
		return nil, s.fail(ctx, op, apperr.Validation(op, err,
			apperr.FieldError{Field: "date", Error: "date must be in YYYY-MM-DD format"}))
	}
	dbctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	if _, err := s.course(dbctx, s.db, op, courseID); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	rows, err := db.AttendanceSheet(dbctx, s.db, courseID, date)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	for i := range rows {
		if !rows[i].Recorded {
			rows[i].Status = models.Present
		}
	}
	return rows, nil
}
