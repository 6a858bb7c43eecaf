package attendance

import (
	"github.com/pkg/errors"

	"github.com/chamadaweb/chamada/core/school"
)

var (
	ErrUnknownStudent = errors.New("aluno não pertence à turma")
	ErrDropout        = errors.New("aluno desistente não pode ser marcado")
	ErrMarkedPresent  = errors.New("aluno marcado como presente")
)

// RollCall holds the state of one roll call being taken for a Class, until it is submitted.
// Every student starts present, except dropouts who start absent and cannot be changed.
// A RollCall is not safe for concurrent use.
type RollCall struct {
	class             school.Class
	date              string
	startTime         string
	endTime           string
	instructor        string
	classObservations string

	roster []school.Student
	marks  map[string]*Mark
}

func NewRollCall(class school.Class, roster []school.Student, instructor, date string) *RollCall {
	rc := &RollCall{
		class:      class,
		date:       date,
		instructor: instructor,
		roster:     roster,
		marks:      make(map[string]*Mark, len(roster)),
	}
	for _, st := range roster {
		rc.marks[st.ID] = &Mark{Present: st.Status != school.StudentDropout}
	}
	return rc
}

func (rc *RollCall) Class() school.Class { return rc.class }

func (rc *RollCall) Roster() []school.Student { return rc.roster }

// Mark returns a copy of the current mark of the student.
func (rc *RollCall) Mark(studentID string) (Mark, bool) {
	m, ok := rc.marks[studentID]
	if !ok {
		return Mark{}, false
	}
	return *m, true
}

func (rc *RollCall) editable(studentID string) (*Mark, error) {
	m, ok := rc.marks[studentID]
	if !ok {
		return nil, errors.Wrap(ErrUnknownStudent, studentID)
	}
	for _, st := range rc.roster {
		if st.ID == studentID && st.Status == school.StudentDropout {
			return nil, errors.Wrap(ErrDropout, studentID)
		}
	}
	return m, nil
}

// SetPresent marks the student present or absent. Marking present clears the justification.
func (rc *RollCall) SetPresent(studentID string, present bool) error {
	m, err := rc.editable(studentID)
	if err != nil {
		return err
	}
	m.Present = present
	if present {
		m.Justified = false
	}
	return nil
}

// Justify flags the absence of the student as justified.
func (rc *RollCall) Justify(studentID string, justified bool) error {
	m, err := rc.editable(studentID)
	if err != nil {
		return err
	}
	if m.Present {
		return errors.Wrap(ErrMarkedPresent, studentID)
	}
	m.Justified = justified
	return nil
}

func (rc *RollCall) Observe(studentID, observation string) error {
	m, err := rc.editable(studentID)
	if err != nil {
		return err
	}
	m.Observation = observation
	return nil
}

// AttachCertificate attaches a certificate reference to the absence of the student.
func (rc *RollCall) AttachCertificate(studentID string, cert Certificate) error {
	m, err := rc.editable(studentID)
	if err != nil {
		return err
	}
	if m.Present {
		return errors.Wrap(ErrMarkedPresent, studentID)
	}
	m.Certificate = &cert
	return nil
}

func (rc *RollCall) SetTimes(start, end string) {
	rc.startTime = start
	rc.endTime = end
}

func (rc *RollCall) SetClassObservations(obs string) {
	rc.classObservations = obs
}

// Tally counts the students currently marked present, absent with justification and absent.
func (rc *RollCall) Tally() (present, justified, absent int) {
	for _, m := range rc.marks {
		switch {
		case m.Present:
			present++
		case m.Justified:
			justified++
		default:
			absent++
		}
	}
	return present, justified, absent
}

// Submission returns the roll call as a Submission, marks in roster order.
func (rc *RollCall) Submission() Submission {
	marks := make(Marks, 0, len(rc.roster))
	for _, st := range rc.roster {
		marks = append(marks, StudentMark{StudentID: st.ID, Mark: *rc.marks[st.ID]})
	}
	return Submission{
		ClassID:           rc.class.ID,
		Date:              rc.date,
		StartTime:         rc.startTime,
		EndTime:           rc.endTime,
		AttendanceData:    marks,
		ClassObservations: rc.classObservations,
		Instructor:        rc.instructor,
	}
}
