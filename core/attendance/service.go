package attendance

import (
	"context"

	"github.com/pkg/errors"

	"github.com/chamadaweb/chamada/core"
)

// HistoryLimit caps the number of Sessions returned by History.
const HistoryLimit = 50

var (
	// errors
	ErrNotFound = errors.New("Chamada não encontrada")

	// validation messages
	msgSubmissionIncomplete = "Dados da chamada incompletos"
)

type Repository interface {
	CreateSession(ctx context.Context, session Session) error
	// GetSession returns ErrNotFound when id matches no Session.
	GetSession(ctx context.Context, id string) (Session, error)
	QuerySessions(ctx context.Context, filter SessionFilter) ([]Session, error)
	CountSessions(ctx context.Context, filter SessionFilter) (int64, error)
	DeleteSession(ctx context.Context, id string) error

	CreatePresence(ctx context.Context, records []Presence) error
	DeletePresence(ctx context.Context, attendanceID string) error
	// QueryPresence returns the Presence records of a Session, or every record when attendanceID is "".
	QueryPresence(ctx context.Context, attendanceID string) ([]Presence, error)
}

type Service struct {
	repo   Repository
	logger core.Logger
}

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Submit stores a closed Session and one Presence record per submitted mark.
// When the Presence records cannot be stored the Session is deleted again, so a failed
// Submit leaves no Session behind unless that deletion fails too.
func (svc *Service) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	now := core.Now()
	session := Session{
		ID:                core.NewID(),
		ClassID:           sub.ClassID,
		Date:              sub.Date,
		StartTime:         sub.StartTime,
		EndTime:           sub.EndTime,
		Instructor:        sub.Instructor,
		ClassObservations: sub.ClassObservations,
		Status:            StatusClosed,
		CreatedAt:         now,
	}
	if err := svc.repo.CreateSession(ctx, session); err != nil {
		return Receipt{}, errors.Wrap(err, "creating attendance session")
	}

	records := make([]Presence, 0, len(sub.AttendanceData))
	for _, sm := range sub.AttendanceData {
		p := Presence{
			ID:           core.NewID(),
			AttendanceID: session.ID,
			StudentID:    sm.StudentID,
			Present:      sm.Present,
			Justified:    sm.Justified,
			Observation:  sm.Observation,
			CreatedAt:    now,
		}
		if cert := sm.Certificate; cert != nil {
			p.CertificateURL = core.StringPtr(cert.URL)
			p.CertificateName = core.StringPtr(cert.Name)
		}
		records = append(records, p)
	}

	if len(records) > 0 {
		if err := svc.repo.CreatePresence(ctx, records); err != nil {
			svc.discard(ctx, session)
			return Receipt{}, errors.Wrap(err, "creating presence records")
		}
	}

	return Receipt{AttendanceID: session.ID, RecordsCount: len(records)}, nil
}

// discard deletes a Session whose Presence records could not all be stored,
// with the records that were stored.
func (svc *Service) discard(ctx context.Context, session Session) {
	err := svc.repo.DeletePresence(ctx, session.ID)
	if err == nil {
		err = svc.repo.DeleteSession(ctx, session.ID)
	}
	if err != nil && svc.logger != nil {
		svc.logger.Error("discarding attendance session", err, session)
	}
}

// History returns the most recently created Sessions, newest first.
func (svc *Service) History(ctx context.Context) ([]Session, error) {
	sessions, err := svc.repo.QuerySessions(ctx, SessionFilter{Latest: HistoryLimit})
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance sessions")
	}
	return sessions, nil
}

// Get returns a Session with its Presence records.
func (svc *Service) Get(ctx context.Context, id string) (Detail, error) {
	session, err := svc.repo.GetSession(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Detail{}, core.NewNotFoundError(ErrNotFound)
		}
		return Detail{}, errors.Wrap(err, "getting attendance session")
	}
	records, err := svc.repo.QueryPresence(ctx, id)
	if err != nil {
		return Detail{}, errors.Wrap(err, "querying presence records")
	}
	return Detail{Attendance: session, Presence: records}, nil
}

// CountOn counts the Sessions held on date (YYYY-MM-DD).
func (svc *Service) CountOn(ctx context.Context, date string) (int64, error) {
	n, err := svc.repo.CountSessions(ctx, SessionFilter{Date: date})
	return n, errors.Wrap(err, "counting attendance sessions")
}

// All returns every Session and every Presence record, in storage order.
func (svc *Service) All(ctx context.Context) ([]Session, []Presence, error) {
	sessions, err := svc.repo.QuerySessions(ctx, SessionFilter{})
	if err != nil {
		return nil, nil, errors.Wrap(err, "querying attendance sessions")
	}
	records, err := svc.repo.QueryPresence(ctx, "")
	if err != nil {
		return nil, nil, errors.Wrap(err, "querying presence records")
	}
	return sessions, records, nil
}
