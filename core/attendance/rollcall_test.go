package attendance

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chamadaweb/chamada/core/school"
)

func newTestRollCall() *RollCall {
	class := school.Class{ID: "class1", Name: "Turma A"}
	roster := []school.Student{
		{ID: "s1", Name: "Maria", Status: school.StudentActive},
		{ID: "s2", Name: "Lucas", Status: school.StudentActive},
		{ID: "s3", Name: "Julia", Status: school.StudentDropout},
	}
	return NewRollCall(class, roster, "Professor João Silva", "2025-03-10")
}

func TestRollCall_defaults(t *testing.T) {
	rc := newTestRollCall()

	m, ok := rc.Mark("s1")
	require.True(t, ok)
	assert.Equal(t, Mark{Present: true}, m)

	m, ok = rc.Mark("s3")
	require.True(t, ok)
	assert.False(t, m.Present)

	_, ok = rc.Mark("nope")
	assert.False(t, ok)

	present, justified, absent := rc.Tally()
	assert.Equal(t, [3]int{2, 0, 1}, [3]int{present, justified, absent})
}

func TestRollCall_edits(t *testing.T) {
	rc := newTestRollCall()

	tests := []struct {
		name    string
		edit    func() error
		wantErr error
	}{
		{name: "unknown student", edit: func() error { return rc.SetPresent("nope", false) }, wantErr: ErrUnknownStudent},
		{name: "dropout", edit: func() error { return rc.SetPresent("s3", true) }, wantErr: ErrDropout},
		{name: "dropout observation", edit: func() error { return rc.Observe("s3", "x") }, wantErr: ErrDropout},
		{name: "justify present", edit: func() error { return rc.Justify("s1", true) }, wantErr: ErrMarkedPresent},
		{
			name:    "certificate on present",
			edit:    func() error { return rc.AttachCertificate("s1", Certificate{URL: "u", Name: "n"}) },
			wantErr: ErrMarkedPresent,
		},
		{name: "absent", edit: func() error { return rc.SetPresent("s2", false) }},
		{name: "justify absent", edit: func() error { return rc.Justify("s2", true) }},
		{name: "observe", edit: func() error { return rc.Observe("s2", "consulta") }},
		{name: "certificate", edit: func() error { return rc.AttachCertificate("s2", Certificate{URL: "blob:1", Name: "at.pdf"}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.edit()
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
				return
			}
			assert.NoError(t, err)
		})
	}

	m, _ := rc.Mark("s2")
	assert.Equal(t, Mark{Justified: true, Observation: "consulta", Certificate: &Certificate{URL: "blob:1", Name: "at.pdf"}}, m)

	present, justified, absent := rc.Tally()
	assert.Equal(t, [3]int{1, 1, 1}, [3]int{present, justified, absent})

	// marking present again clears the justification
	require.NoError(t, rc.SetPresent("s2", true))
	m, _ = rc.Mark("s2")
	assert.True(t, m.Present)
	assert.False(t, m.Justified)
}

func TestRollCall_Submission(t *testing.T) {
	rc := newTestRollCall()
	require.NoError(t, rc.SetPresent("s1", false))
	require.NoError(t, rc.Observe("s1", "atrasou"))
	rc.SetTimes("08:00", "12:00")
	rc.SetClassObservations("Aula prática")

	sub := rc.Submission()
	assert.Equal(t, Submission{
		ClassID:   "class1",
		Date:      "2025-03-10",
		StartTime: "08:00",
		EndTime:   "12:00",
		AttendanceData: Marks{
			{StudentID: "s1", Mark: Mark{Observation: "atrasou"}},
			{StudentID: "s2", Mark: Mark{Present: true}},
			{StudentID: "s3"},
		},
		ClassObservations: "Aula prática",
		Instructor:        "Professor João Silva",
	}, sub)

	// the submission is a copy
	require.NoError(t, rc.SetPresent("s2", false))
	assert.True(t, sub.AttendanceData[1].Present)
}
