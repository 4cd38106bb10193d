// Package exports renders commerce and appointment lists as CSV downloads
// and archives a copy in object storage when one is configured.
package exports

import (
	"bytes"
	"context"
	"io"
	"path"
	"sync"
	"time"

	apptdomain "prospectmap_backend/internal/appointments/domain"
	"prospectmap_backend/internal/commerces/domain"
	"prospectmap_backend/internal/events"
	"prospectmap_backend/platform/apperr"
	"prospectmap_backend/platform/httpkit"
	"prospectmap_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	contentTypeCSV = "text/csv; charset=utf-8"

	KindCommerces    = "commerces"
	KindAppointments = "appointments"
)

type CommerceSource interface {
	List(ctx context.Context, actor httpkit.Identity, f domain.Filter, page, pageSize int) (domain.ListResult, error)
}

type AppointmentSource interface {
	List(ctx context.Context, actor httpkit.Identity, f apptdomain.Filter) ([]apptdomain.Appointment, error)
}

// Archiver stores a copy of each generated file.
type Archiver interface {
	PutObject(ctx context.Context, bucket, key, contentType string, reader io.Reader, size int64) (string, error)
}

// File is a generated export.
type File struct {
	Name        string
	ContentType string
	Body        []byte
	Rows        int
}

type Service struct {
	commerces    CommerceSource
	appointments AppointmentSource
	bus          events.Bus
	loc          *time.Location
	log          *logger.Logger
	archive      Archiver
	bucket       string
	wg           sync.WaitGroup
	now          func() time.Time
}

func NewService(commerces CommerceSource, appointments AppointmentSource, bus events.Bus, loc *time.Location, log *logger.Logger) *Service {
	return &Service{
		commerces:    commerces,
		appointments: appointments,
		bus:          bus,
		loc:          loc,
		log:          log,
		now:          time.Now,
	}
}

// SetArchiver enables archiving into bucket.
func (s *Service) SetArchiver(archive Archiver, bucket string) {
	s.archive = archive
	s.bucket = bucket
}

// Commerces exports every commerce matching f, newest first.
func (s *Service) Commerces(ctx context.Context, actor httpkit.Identity, f domain.Filter) (File, error) {
	result, err := s.commerces.List(ctx, actor, f, 1, 0)
	if err != nil {
		return File{}, err
	}
	rows := make([][]string, 0, len(result.Items))
	for _, c := range result.Items {
		rows = append(rows, commerceRow(c))
	}
	return s.render(ctx, actor, KindCommerces, "commerces", commerceHeader, rows)
}

// Appointments exports appointments matching f, ordered by date then time.
func (s *Service) Appointments(ctx context.Context, actor httpkit.Identity, f apptdomain.Filter) (File, error) {
	items, err := s.appointments.List(ctx, actor, f)
	if err != nil {
		return File{}, err
	}
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		rows = append(rows, appointmentRow(a))
	}
	return s.render(ctx, actor, KindAppointments, "rdv", appointmentHeader, rows)
}

func (s *Service) render(ctx context.Context, actor httpkit.Identity, kind, prefix string, header []string, rows [][]string) (File, error) {
	var buf bytes.Buffer
	if err := encodeCSV(&buf, header, rows); err != nil {
		return File{}, apperr.Internal("export impossible")
	}

	now := s.now().In(s.loc)
	date := now.Format(apptdomain.DateLayout)
	file := File{
		Name:        prefix + "-" + date + ".csv",
		ContentType: contentTypeCSV,
		Body:        buf.Bytes(),
		Rows:        len(rows),
	}

	s.bus.Publish(ctx, events.ExportGenerated{
		BaseEvent: events.NewBaseEvent(),
		ActorID:   actor.UserID(),
		Kind:      kind,
		Filename:  file.Name,
		Rows:      file.Rows,
	})
	s.archiveAsync(ctx, archiveKey(now, file.Name), file)
	return file, nil
}

// archiveKey is unique per export so same-day exports never overwrite each other.
func archiveKey(at time.Time, filename string) string {
	return path.Join("exports", at.Format(apptdomain.DateLayout), at.Format("150405")+"-"+uuid.NewString()+"-"+filename)
}

// archiveAsync uploads in the background; the download never waits for it.
func (s *Service) archiveAsync(ctx context.Context, key string, file File) {
	if s.archive == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		uploadCtx, cancel := context.WithTimeout(detached, 30*time.Second)
		defer cancel()
		if _, err := s.archive.PutObject(uploadCtx, s.bucket, key, file.ContentType, bytes.NewReader(file.Body), int64(len(file.Body))); err != nil {
			s.log.Warn("export archive failed", "key", key, "error", err)
		}
	}()
}

// Wait blocks until background archive uploads have completed.
func (s *Service) Wait() {
	s.wg.Wait()
}
