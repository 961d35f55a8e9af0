package certificate

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Spok95/course-registration/internal/apperr"
	"github.com/Spok95/course-registration/internal/ctxutil"
	"github.com/Spok95/course-registration/internal/db"
	"github.com/Spok95/course-registration/internal/export"
	"github.com/Spok95/course-registration/internal/models"
	"github.com/Spok95/course-registration/internal/observability"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Certificate: выданный документ.
type Certificate struct {
	Number   string
	Record   models.CertificateRecord
	IssuedAt time.Time
	Path     string
}

// Renderer пишет документ сертификата в path.
type Renderer interface {
	Render(c Certificate, path string) error
}

type RendererFunc func(c Certificate, path string) error

func (f RendererFunc) Render(c Certificate, path string) error { return f(c, path) }

// WorkbookRenderer: сертификат как xlsx-книга.
var WorkbookRenderer = RendererFunc(func(c Certificate, path string) error {
	wb, err := export.CertificateWorkbook(export.CertificateData{
		Number:         c.Number,
		StudentName:    c.Record.StudentName,
		AdmissionNo:    c.Record.AdmissionNo,
		CourseID:       c.Record.CourseID,
		CourseName:     c.Record.CourseName,
		Status:         string(c.Record.Status),
		CompletionDate: c.Record.CompletionDate,
		IssuedAt:       c.IssuedAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()
	return wb.SaveAs(path)
})

type Service struct {
	db     *sql.DB
	root   string
	render Renderer
	log    *zap.Logger
	now    func() time.Time
}

type Option func(*Service)

func WithRenderer(r Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.render = r
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New: сервис сертификатов; документы складываются под root.
func New(database *sql.DB, root string, opts ...Option) *Service {
	s := &Service{db: database, root: root, render: WorkbookRenderer, log: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) fail(op string, err error) error {
	err = apperr.Persistence(op, err)
	if apperr.KindOf(err) == apperr.KindPersistence {
		s.log.Error("operation failed", zap.String("op", op), zap.Error(err))
		observability.CaptureErr(err)
	} else {
		s.log.Warn("operation rejected", zap.String("op", op), zap.Error(err))
	}
	return err
}

// List: сертификаты студента (итог Passed/Completed, курс не в архиве), новые сверху.
func (s *Service) List(ctx context.Context, admissionNo string) ([]models.CertificateRecord, error) {
	const op = "certificate.List"
	admissionNo = strings.TrimSpace(admissionNo)
	if admissionNo == "" {
		return nil, s.fail(op, apperr.Missing(op, "admission_no"))
	}
	dbctx, cancel := ctxutil.WithDBTimeout(ctxutil.WithStudent(ctx, admissionNo))
	defer cancel()

	out, err := db.ListCertifiable(dbctx, s.db, admissionNo)
	if err != nil {
		return nil, s.fail(op, err)
	}
	return out, nil
}

// Issue формирует документ сертификата. Без подходящего итога возвращает NotFoundError(ErrNoResult).
func (s *Service) Issue(ctx context.Context, admissionNo, courseID string) (*Certificate, error) {
	const op = "certificate.Issue"
	admissionNo, courseID = strings.TrimSpace(admissionNo), strings.TrimSpace(courseID)
	var missing []string
	if admissionNo == "" {
		missing = append(missing, "admission_no")
	}
	if courseID == "" {
		missing = append(missing, "course_id")
	}
	if len(missing) > 0 {
		return nil, s.fail(op, apperr.Missing(op, missing...))
	}
	dbctx, cancel := ctxutil.WithDBTimeout(ctxutil.WithCourse(ctxutil.WithStudent(ctx, admissionNo), courseID))
	defer cancel()

	rec, err := db.GetCertifiable(dbctx, s.db, admissionNo, courseID)
	if err != nil {
		return nil, s.fail(op, err)
	}
	if rec == nil {
		return nil, s.fail(op, apperr.NotFound(op, fmt.Errorf("%w: %s/%s", apperr.ErrNoResult, admissionNo, courseID)))
	}

	c := &Certificate{
		Number:   uuid.NewString(),
		Record:   *rec,
		IssuedAt: s.now(),
		Path:     Path(s.root, rec.CourseID, rec.AdmissionNo, rec.CourseName, rec.StudentName),
	}
	if err := s.render.Render(*c, c.Path); err != nil {
		return nil, s.fail(op, err)
	}
	s.log.Info("certificate issued",
		zap.String("op", op),
		zap.String("student", admissionNo),
		zap.String("course", courseID),
		zap.String("number", c.Number),
		zap.String("path", c.Path))
	return c, nil
}
