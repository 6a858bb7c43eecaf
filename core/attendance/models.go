package attendance

import (
	"bytes"
	"encoding/json"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/chamadaweb/chamada/core"
)

// StatusClosed is the status of every submitted Session.
const StatusClosed = "closed"

// Session is one roll call of a Class on a date. Sessions are never updated.
type Session struct {
	ID                string    `json:"id" bson:"id"`
	ClassID           string    `json:"class_id" bson:"class_id"`
	Date              string    `json:"date" bson:"date"` // YYYY-MM-DD
	StartTime         string    `json:"start_time" bson:"start_time"`
	EndTime           string    `json:"end_time" bson:"end_time"`
	Instructor        string    `json:"instructor" bson:"instructor"` // name snapshot
	ClassObservations string    `json:"class_observations" bson:"class_observations"`
	Status            string    `json:"status" bson:"status"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at"`
}

// Presence is the mark of one Student within a Session.
type Presence struct {
	ID              string    `json:"id" bson:"id"`
	AttendanceID    string    `json:"attendance_id" bson:"attendance_id"`
	StudentID       string    `json:"student_id" bson:"student_id"`
	Present         bool      `json:"present" bson:"present"`
	Justified       bool      `json:"justified" bson:"justified"`
	Observation     string    `json:"observation" bson:"observation"`
	CertificateURL  *string   `json:"certificate_url" bson:"certificate_url"`
	CertificateName *string   `json:"certificate_name" bson:"certificate_name"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
}

// StatusLabel is the report label of the mark.
func (p Presence) StatusLabel() string {
	switch {
	case p.Present:
		return "Presente"
	case p.Justified:
		return "Falta Justificada"
	default:
		return "Falta"
	}
}

// Certificate is an opaque reference to a medical certificate justifying an absence.
type Certificate struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Mark is the submitted mark of one student. Absent fields default to false, "" and nil.
type Mark struct {
	Present     bool         `json:"present"`
	Justified   bool         `json:"justified"`
	Observation string       `json:"observation"`
	Certificate *Certificate `json:"certificate"`
}

type StudentMark struct {
	StudentID string
	Mark
}

// Marks keeps the submitted marks in the order of the JSON object's keys.
type Marks []StudentMark

func (ms *Marks) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil // null
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("attendanceData must be an object")
	}

	marks := Marks{}
	seen := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		var mark Mark
		if err := dec.Decode(&mark); err != nil {
			return err
		}
		id := tok.(string)
		// a repeated key keeps its first position and its last value
		if i, ok := seen[id]; ok {
			marks[i].Mark = mark
			continue
		}
		seen[id] = len(marks)
		marks = append(marks, StudentMark{StudentID: id, Mark: mark})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*ms = marks
	return nil
}

func (ms Marks) MarshalJSON() ([]byte, error) {
	if ms == nil {
		return []byte("null"), nil
	}
	var buff bytes.Buffer
	buff.WriteByte('{')
	for i, sm := range ms {
		if i > 0 {
			buff.WriteByte(',')
		}
		key, err := json.Marshal(sm.StudentID)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(sm.Mark)
		if err != nil {
			return nil, err
		}
		buff.Write(key)
		buff.WriteByte(':')
		buff.Write(val)
	}
	buff.WriteByte('}')
	return buff.Bytes(), nil
}

// Submission is the body of a roll call submission.
type Submission struct {
	ClassID           string `json:"classId" validate:"required"`
	Date              string `json:"date" validate:"required"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	AttendanceData    Marks  `json:"attendanceData" validate:"required"`
	ClassObservations string `json:"classObservations"`
	Instructor        string `json:"instructor"`
}

func (s *Submission) Validate(validate *validator.Validate, translator ut.Translator) error {
	s.ClassID = core.CleanString(s.ClassID)
	s.Date = core.CleanString(s.Date)
	return core.ValidateStruct(validate, translator, s, msgSubmissionIncomplete)
}

// Receipt acknowledges a stored Submission.
type Receipt struct {
	AttendanceID string `json:"attendanceId"`
	RecordsCount int    `json:"recordsCount"`
}

// Detail is a Session with its Presence records.
type Detail struct {
	Attendance Session    `json:"attendance"`
	Presence   []Presence `json:"presence"`
}

// SessionFilter narrows Session queries; zero values match everything.
type SessionFilter struct {
	Date string
	// Latest > 0 returns at most Latest Sessions, most recent first.
	Latest int64
}
