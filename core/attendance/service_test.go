package attendance_test

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chamadaweb/chamada/core"
	"github.com/chamadaweb/chamada/core/attendance"
	logsvc "github.com/chamadaweb/chamada/services/logger"
	"github.com/chamadaweb/chamada/storage/database/docrepos"
	dummydb "github.com/chamadaweb/chamada/storage/database/dummy"
	testutil "github.com/chamadaweb/chamada/tests"
)

var errBoom = errors.New("boom")

func setup(t *testing.T) (*attendance.Service, attendance.Repository, *dummydb.DB) {
	t.Helper()
	conf := core.NewTestConfig()
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	db := dummydb.Open(testutil.OpenDB())
	repo := docrepos.NewAttendanceRepository(db)
	return attendance.NewService(repo, logger), repo, db
}

func submission() attendance.Submission {
	return attendance.Submission{
		ClassID: "class1",
		Date:    "2025-03-10",
		AttendanceData: attendance.Marks{
			{StudentID: "s1", Mark: attendance.Mark{Present: true}},
			{StudentID: "s2"},
		},
	}
}

func TestService_Submit(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	receipt, err := svc.Submit(ctx, submission())
	require.NoError(t, err)
	assert.Equal(t, 2, receipt.RecordsCount)

	detail, err := svc.Get(ctx, receipt.AttendanceID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusClosed, detail.Attendance.Status)
	require.Len(t, detail.Presence, 2)
	assert.Equal(t, "s1", detail.Presence[0].StudentID)
	assert.Equal(t, detail.Attendance.CreatedAt, detail.Presence[0].CreatedAt)

	n, err := repo.CountSessions(ctx, attendance.SessionFilter{Date: "2025-03-10"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestService_Submit_noMarks(t *testing.T) {
	svc, _, db := setup(t)
	ctx := context.Background()

	sub := submission()
	sub.AttendanceData = attendance.Marks{}
	receipt, err := svc.Submit(ctx, sub)
	require.NoError(t, err)
	assert.Zero(t, receipt.RecordsCount)
	assert.Zero(t, db.Calls(dummydb.OpInsertMany, core.CollPresence))
}

func TestService_Submit_sessionFails(t *testing.T) {
	svc, repo, db := setup(t)
	ctx := context.Background()
	db.FailOn(dummydb.OpInsertOne, core.CollAttendance, errBoom)

	_, err := svc.Submit(ctx, submission())
	assert.Equal(t, errBoom, errors.Cause(err))
	assert.Zero(t, db.Calls(dummydb.OpInsertMany, core.CollPresence))

	n, err := repo.CountSessions(ctx, attendance.SessionFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestService_Submit_presenceFails(t *testing.T) {
	svc, repo, db := setup(t)
	ctx := context.Background()
	db.FailOn(dummydb.OpInsertMany, core.CollPresence, errBoom)

	_, err := svc.Submit(ctx, submission())
	assert.Equal(t, errBoom, errors.Cause(err))

	// the session is discarded
	n, err := repo.CountSessions(ctx, attendance.SessionFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, db.Calls(dummydb.OpDeleteOne, core.CollAttendance))
}

func TestService_Submit_discardFails(t *testing.T) {
	svc, repo, db := setup(t)
	ctx := context.Background()
	db.FailOn(dummydb.OpInsertMany, core.CollPresence, errBoom)
	db.FailOn(dummydb.OpDeleteOne, core.CollAttendance, errBoom)

	_, err := svc.Submit(ctx, submission())
	assert.Equal(t, errBoom, errors.Cause(err))

	// the orphan session stays behind without records
	db.Heal()
	sessions, err := repo.QuerySessions(ctx, attendance.SessionFilter{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	records, err := repo.QueryPresence(ctx, sessions[0].ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestService_History(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	sessions, err := svc.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	start := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < attendance.HistoryLimit+3; i++ {
		s := testutil.CreateSession(t, repo, "class1", "2025-03-01", start.Add(time.Duration(i)*time.Minute))
		ids = append(ids, s.ID)
	}

	sessions, err = svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, attendance.HistoryLimit)
	assert.Equal(t, ids[len(ids)-1], sessions[0].ID)
	assert.Equal(t, ids[3], sessions[len(sessions)-1].ID)
}

func TestService_Get(t *testing.T) {
	svc, _, db := setup(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "nope")
	assert.True(t, core.IsNotFound(err))
	assert.EqualError(t, err, "Chamada não encontrada")

	db.FailOn(dummydb.OpFindOne, core.CollAttendance, errBoom)
	_, err = svc.Get(ctx, "nope")
	assert.False(t, core.IsNotFound(err))
	assert.Equal(t, errBoom, errors.Cause(err))
}

func TestService_All(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	sessions, records, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
	assert.Empty(t, records)

	for i := 0; i < 2; i++ {
		_, err := svc.Submit(ctx, submission())
		require.NoError(t, err)
	}
	sessions, records, err = svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
	assert.Len(t, records, 4)
	assert.Equal(t, sessions[0].ID, records[0].AttendanceID)
	assert.Equal(t, sessions[1].ID, records[3].AttendanceID)
}
