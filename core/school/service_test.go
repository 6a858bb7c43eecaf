package school_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chamadaweb/chamada/core"
	"github.com/chamadaweb/chamada/core/school"
	"github.com/chamadaweb/chamada/storage/database/docrepos"
	dummydb "github.com/chamadaweb/chamada/storage/database/dummy"
	testutil "github.com/chamadaweb/chamada/tests"
)

func setup(t *testing.T) (*school.Service, school.Repository, *dummydb.DB) {
	t.Helper()
	db := dummydb.Open(testutil.OpenDB())
	repo := docrepos.NewSchoolRepository(db)
	return school.NewService(repo), repo, db
}

func TestService_CreateCourse(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		body     string
		duration string
	}{
		{name: "number", body: `{"name": "Solda", "duration": 120, "unit_id": "u1"}`, duration: "120"},
		{name: "string", body: `{"name": "Solda", "duration": "60h", "unit_id": "u1"}`, duration: "60h"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var nc school.NewCourse
			require.NoError(t, json.Unmarshal([]byte(tt.body), &nc))
			course, err := svc.CreateCourse(ctx, nc)
			require.NoError(t, err)
			assert.Equal(t, tt.duration, course.Duration)

			// the unit is not checked
			stored, err := repo.GetCourse(ctx, course.ID)
			require.NoError(t, err)
			assert.Equal(t, "u1", stored.UnitID)
		})
	}
}

func TestService_CreateClass(t *testing.T) {
	svc, repo, db := setup(t)
	ctx := context.Background()
	unit := testutil.CreateUnit(t, repo, "Unidade Sul")
	course := testutil.CreateCourse(t, repo, "Solda", unit)

	tests := []struct {
		name     string
		unitID   string
		courseID string
		wantErr  error
	}{
		{name: "unknown unit", unitID: "nope", courseID: course.ID, wantErr: school.ErrUnitOrCourseNotFound},
		{name: "unknown course", unitID: unit.ID, courseID: "nope", wantErr: school.ErrUnitOrCourseNotFound},
		{name: "ok", unitID: unit.ID, courseID: course.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, err := svc.CreateClass(ctx, school.NewClass{
				Name: "Turma A", UnitID: tt.unitID, CourseID: tt.courseID, InstructorID: "ana@x.com", Cycle: "1º/2025",
			})
			if tt.wantErr != nil {
				require.True(t, core.IsNotFound(err))
				assert.EqualError(t, err, tt.wantErr.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Unidade Sul", class.Unit)
			assert.Equal(t, "Solda", class.Course)
			assert.Equal(t, school.DefaultPeriod, class.Period)
		})
	}

	// a storage failure is not reported as not found
	db.FailOn(dummydb.OpFindOne, core.CollUnits, errors.New("boom"))
	_, err := svc.CreateClass(ctx, school.NewClass{Name: "Turma B", UnitID: unit.ID, CourseID: course.ID, InstructorID: "x", Cycle: "c"})
	require.Error(t, err)
	assert.False(t, core.IsNotFound(err))
}

func TestService_UpdateClass(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()
	unit := testutil.CreateUnit(t, repo, "Unidade Sul")
	class := testutil.CreateClass(t, repo, "Turma A", unit, testutil.CreateCourse(t, repo, "Solda", unit), "ana@x.com")

	// empty period keeps the current one
	require.NoError(t, svc.UpdateClass(ctx, class.ID, school.UpdateClass{Name: "Turma A2", InstructorID: "bia@x.com", Cycle: "2º/2025"}))
	got, err := svc.GetClass(ctx, class.ID)
	require.NoError(t, err)
	assert.Equal(t, "Turma A2", got.Name)
	assert.Equal(t, "bia@x.com", got.InstructorID)
	assert.Equal(t, school.DefaultPeriod, got.Period)

	err = svc.UpdateClass(ctx, "nope", school.UpdateClass{Name: "x", InstructorID: "x", Cycle: "x"})
	assert.True(t, core.IsNotFound(err))
	assert.EqualError(t, err, school.ErrClassNotFound.Error())
}

func TestService_students(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	maria, err := svc.CreateStudent(ctx, school.NewStudent{Name: "Maria", CPF: "111", ClassID: "class1"})
	require.NoError(t, err)
	assert.Equal(t, school.StudentActive, maria.Status)

	_, err = svc.CreateStudent(ctx, school.NewStudent{Name: "Outra Maria", CPF: "111", ClassID: "class2"})
	var conflict *core.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, school.ErrStudentExists, conflict.Err)

	lucas := testutil.CreateStudent(t, repo, "Lucas", "222", "class1", school.StudentActive)
	julia := testutil.CreateStudent(t, repo, "Julia", "333", "class1", school.StudentActive)
	testutil.CreateStudent(t, repo, "Pedro", "444", "class2", school.StudentActive)

	require.NoError(t, svc.UpdateStudent(ctx, julia.ID, school.UpdateStudent{Name: "Julia", Status: school.StudentDropout}))

	roster, err := svc.ClassRoster(ctx, "class1")
	require.NoError(t, err)
	var ids []string
	for _, s := range roster {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{maria.ID, lucas.ID}, ids)

	n, err := svc.CountActiveStudents(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	err = svc.DeleteStudent(ctx, "nope")
	assert.True(t, core.IsNotFound(err))
	assert.EqualError(t, err, school.ErrStudentNotFound.Error())
}

func TestService_UnitName(t *testing.T) {
	svc, repo, db := setup(t)
	ctx := context.Background()
	unit := testutil.CreateUnit(t, repo, "Unidade Sul")

	name, err := svc.UnitName(ctx, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, "Unidade Sul", name)

	name, err = svc.UnitName(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, name)

	db.FailOn(dummydb.OpFindOne, "", errors.New("boom"))
	_, err = svc.UnitName(ctx, unit.ID)
	assert.Error(t, err)
}
