package echoapi

import (
	"github.com/chamadaweb/chamada/core/attendance"
	"github.com/chamadaweb/chamada/core/report"
	"github.com/chamadaweb/chamada/core/school"
	"github.com/chamadaweb/chamada/core/user"
)

// Response bodies. Every record type keeps its storage-only fields (password, Mongo _id) out of JSON.
type (
	ErrorResponse struct {
		Error   string            `json:"error"`
		Fields  map[string]string `json:"fields,omitempty"`
		Details string            `json:"details,omitempty"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}

	HealthResponse struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}

	UserResponse struct {
		User    user.User `json:"user"`
		Message string    `json:"message"`
	}

	UsersResponse struct {
		Users []user.User `json:"users"`
	}

	PasswordResetResponse struct {
		Message      string `json:"message"`
		TempPassword string `json:"tempPassword"`
		Email        string `json:"email"`
	}

	UnitResponse struct {
		Unit    school.Unit `json:"unit"`
		Message string      `json:"message"`
	}

	UnitsResponse struct {
		Units []school.Unit `json:"units"`
	}

	CourseResponse struct {
		Course  school.Course `json:"course"`
		Message string        `json:"message"`
	}

	CoursesResponse struct {
		Courses []school.Course `json:"courses"`
	}

	ClassResponse struct {
		Class   school.Class `json:"class"`
		Message string       `json:"message"`
	}

	ClassesResponse struct {
		Classes []school.Class `json:"classes"`
	}

	StudentResponse struct {
		Student school.Student `json:"student"`
		Message string         `json:"message"`
	}

	StudentsResponse struct {
		Students []school.Student `json:"students"`
	}

	SubmitAttendanceResponse struct {
		Message string `json:"message"`
		attendance.Receipt
	}

	AttendanceHistoryResponse struct {
		Attendance []attendance.Session `json:"attendance"`
	}

	BackupResponse struct {
		Backup report.Backup `json:"backup"`
	}
)
