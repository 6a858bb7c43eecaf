package docrepos

import (
	"context"

	"github.com/chamadaweb/chamada/core"
	"github.com/chamadaweb/chamada/core/attendance"
)

type attendanceRepository struct {
	store core.Store
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(store core.Store) *attendanceRepository {
	return &attendanceRepository{store: store}
}

func sessionFilter(filter attendance.SessionFilter) core.Filter {
	f := core.Filter{}
	if filter.Date != "" {
		f["date"] = filter.Date
	}
	return f
}

func (repo attendanceRepository) CreateSession(ctx context.Context, session attendance.Session) error {
	return repo.store.InsertOne(ctx, core.CollAttendance, session)
}

func (repo attendanceRepository) GetSession(ctx context.Context, id string) (attendance.Session, error) {
	var session attendance.Session
	err := getOne(ctx, repo.store, core.CollAttendance, byID(id), &session, attendance.ErrNotFound)
	return session, err
}

func (repo attendanceRepository) QuerySessions(ctx context.Context, filter attendance.SessionFilter) ([]attendance.Session, error) {
	var opts *core.FindOptions
	if filter.Latest > 0 {
		opts = &core.FindOptions{
			Sort:  []core.Ordering{{Field: "created_at"}},
			Limit: filter.Latest,
		}
	}
	var sessions []attendance.Session
	err := repo.store.Find(ctx, core.CollAttendance, sessionFilter(filter), opts, &sessions)
	return sessions, err
}

func (repo attendanceRepository) CountSessions(ctx context.Context, filter attendance.SessionFilter) (int64, error) {
	return repo.store.CountDocuments(ctx, core.CollAttendance, sessionFilter(filter))
}

func (repo attendanceRepository) DeleteSession(ctx context.Context, id string) error {
	return deleteByID(ctx, repo.store, core.CollAttendance, id, attendance.ErrNotFound)
}

func (repo attendanceRepository) CreatePresence(ctx context.Context, records []attendance.Presence) error {
	docs := make([]interface{}, len(records))
	for i, p := range records {
		docs[i] = p
	}
	return repo.store.InsertMany(ctx, core.CollPresence, docs)
}

func (repo attendanceRepository) QueryPresence(ctx context.Context, attendanceID string) ([]attendance.Presence, error) {
	f := core.Filter{}
	if attendanceID != "" {
		f["attendance_id"] = attendanceID
	}
	var records []attendance.Presence
	err := repo.store.Find(ctx, core.CollPresence, f, nil, &records)
	return records, err
}

func (repo attendanceRepository) DeletePresence(ctx context.Context, attendanceID string) error {
	_, err := repo.store.DeleteMany(ctx, core.CollPresence, core.Filter{"attendance_id": attendanceID})
	return err
}
