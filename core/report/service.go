package report

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/chamadaweb/chamada/core"
	"github.com/chamadaweb/chamada/core/attendance"
	"github.com/chamadaweb/chamada/core/school"
	"github.com/chamadaweb/chamada/core/user"
)

// BackupVersion tags the format of a Backup.
const BackupVersion = "1.0"

// Header is the first row of the attendance report.
var Header = []string{"Data", "Turma", "Curso", "Unidade", "Aluno", "CPF", "Status", "Observacao", "Instrutor"}

type (
	// SheetWriter writes tabular data to a named sheet of a spreadsheet.
	SheetWriter interface {
		EnsureSheetExists(ctx context.Context, sheetName string) error
		Clear(ctx context.Context, sheetName string) error
		SetHeaders(ctx context.Context, sheetName string, headers []string) error
		AppendRows(ctx context.Context, sheetName string, rows [][]interface{}) error
	}

	Stats struct {
		UnitsCount      int64 `json:"unitsCount"`
		ClassesCount    int64 `json:"classesCount"`
		StudentsCount   int64 `json:"studentsCount"`
		TodayAttendance int64 `json:"todayAttendance"`
	}

	Backup struct {
		Timestamp time.Time  `json:"timestamp"`
		Version   string     `json:"version"`
		Data      BackupData `json:"data"`
	}

	// BackupData holds every stored record. Users carry no password.
	BackupData struct {
		Users      []user.User           `json:"users"`
		Units      []school.Unit         `json:"units"`
		Courses    []school.Course       `json:"courses"`
		Classes    []school.Class        `json:"classes"`
		Students   []school.Student      `json:"students"`
		Attendance []attendance.Session  `json:"attendance"`
		Presence   []attendance.Presence `json:"presence"`
	}

	Service struct {
		users      *user.Service
		school     *school.Service
		attendance *attendance.Service
		sheets     SheetWriter
	}
)

// NewService returns a report Service. sheets may be nil when no spreadsheet is configured.
func NewService(users *user.Service, school *school.Service, att *attendance.Service, sheets SheetWriter) *Service {
	return &Service{
		users:      users,
		school:     school,
		attendance: att,
		sheets:     sheets,
	}
}

// Stats returns the dashboard counters.
func (svc *Service) Stats(ctx context.Context) (Stats, error) {
	var (
		stats Stats
		err   error
	)
	if stats.UnitsCount, err = svc.school.CountUnits(ctx); err != nil {
		return Stats{}, err
	}
	if stats.ClassesCount, err = svc.school.CountClasses(ctx); err != nil {
		return Stats{}, err
	}
	if stats.StudentsCount, err = svc.school.CountActiveStudents(ctx); err != nil {
		return Stats{}, err
	}
	if stats.TodayAttendance, err = svc.attendance.CountOn(ctx, core.Today()); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

// Rows returns one report row per Presence record, grouped by Session in storage order.
// References to missing records produce empty cells.
func (svc *Service) Rows(ctx context.Context) ([][]string, error) {
	sessions, records, err := svc.attendance.All(ctx)
	if err != nil {
		return nil, err
	}
	students, err := svc.school.QueryStudents(ctx)
	if err != nil {
		return nil, err
	}
	classes, err := svc.school.QueryClasses(ctx, school.ClassFilter{})
	if err != nil {
		return nil, err
	}
	units, err := svc.school.QueryUnits(ctx)
	if err != nil {
		return nil, err
	}

	studentsByID := make(map[string]school.Student, len(students))
	for _, st := range students {
		studentsByID[st.ID] = st
	}
	classesByID := make(map[string]school.Class, len(classes))
	for _, cl := range classes {
		classesByID[cl.ID] = cl
	}
	unitsByID := make(map[string]school.Unit, len(units))
	for _, u := range units {
		unitsByID[u.ID] = u
	}
	bySession := make(map[string][]attendance.Presence, len(sessions))
	for _, p := range records {
		bySession[p.AttendanceID] = append(bySession[p.AttendanceID], p)
	}

	rows := make([][]string, 0, len(records))
	for _, sess := range sessions {
		class := classesByID[sess.ClassID]
		unit := unitsByID[class.UnitID]
		for _, p := range bySession[sess.ID] {
			st := studentsByID[p.StudentID]
			rows = append(rows, []string{
				sess.Date,
				class.Name,
				class.Course,
				unit.Name,
				st.Name,
				st.CPF,
				p.StatusLabel(),
				p.Observation,
				sess.Instructor,
			})
		}
	}
	return rows, nil
}

// GenerateCSV writes the attendance report as CSV to w.
func (svc *Service) GenerateCSV(ctx context.Context, w io.Writer) error {
	rows, err := svc.Rows(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	if err := cw.WriteAll(rows); err != nil {
		return errors.Wrap(err, "writing csv rows")
	}
	return nil
}

// Backup returns every stored record.
func (svc *Service) Backup(ctx context.Context) (Backup, error) {
	var (
		data BackupData
		err  error
	)
	if data.Users, err = svc.users.Query(ctx, user.QueryFilter{}); err != nil {
		return Backup{}, err
	}
	if data.Units, err = svc.school.QueryUnits(ctx); err != nil {
		return Backup{}, err
	}
	if data.Courses, err = svc.school.QueryCourses(ctx); err != nil {
		return Backup{}, err
	}
	if data.Classes, err = svc.school.QueryClasses(ctx, school.ClassFilter{}); err != nil {
		return Backup{}, err
	}
	if data.Students, err = svc.school.QueryStudents(ctx); err != nil {
		return Backup{}, err
	}
	if data.Attendance, data.Presence, err = svc.attendance.All(ctx); err != nil {
		return Backup{}, err
	}
	return Backup{Timestamp: core.Now(), Version: BackupVersion, Data: data}, nil
}

// PublishToSheet replaces the content of the sheet with the attendance report
// and returns the number of rows written below the header.
func (svc *Service) PublishToSheet(ctx context.Context, sheetName string) (int, error) {
	if svc.sheets == nil {
		return 0, errors.New("no spreadsheet configured")
	}
	rows, err := svc.Rows(ctx)
	if err != nil {
		return 0, err
	}

	if err := svc.sheets.EnsureSheetExists(ctx, sheetName); err != nil {
		return 0, err
	}
	if err := svc.sheets.Clear(ctx, sheetName); err != nil {
		return 0, err
	}
	if err := svc.sheets.SetHeaders(ctx, sheetName, Header); err != nil {
		return 0, err
	}
	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		vals := make([]interface{}, len(row))
		for i, cell := range row {
			vals[i] = cell
		}
		values = append(values, vals)
	}
	if err := svc.sheets.AppendRows(ctx, sheetName, values); err != nil {
		return 0, err
	}
	return len(rows), nil
}
