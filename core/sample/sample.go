// Package sample seeds an empty installation with demonstration records.
package sample

import (
	"context"

	"github.com/pkg/errors"

	"github.com/chamadaweb/chamada/core"
	"github.com/chamadaweb/chamada/core/school"
	"github.com/chamadaweb/chamada/core/user"
)

// Password is the password of the sample users.
const Password = "123456"

const (
	unitSP    = "unit1"
	unitRJ    = "unit2"
	unitSPNam = "Unidade São Paulo"
)

func strPtr(s string) *string { return &s }

// Users returns the sample users, without ids and with plain passwords.
func Users() []user.User {
	return []user.User{
		{
			Name:     "Professor João Silva",
			Email:    "joao@ios.org.br",
			CPF:      "123.456.789-00",
			Password: Password,
			Role:     user.RoleInstructor,
			UnitID:   strPtr(unitSP),
			Unit:     strPtr(unitSPNam),
			Status:   user.StatusApproved,
		},
		{
			Name:     "Ana Costa",
			Email:    "ana@ios.org.br",
			CPF:      "234.567.890-11",
			Password: Password,
			Role:     user.RolePedagogue,
			UnitID:   strPtr(unitSP),
			Unit:     strPtr(unitSPNam),
			Status:   user.StatusApproved,
		},
	}
}

func Units() []school.Unit {
	return []school.Unit{
		{ID: unitSP, Name: unitSPNam, Address: "Rua das Flores, 123 - Centro, São Paulo - SP", Phone: "(11) 1234-5678"},
		{ID: unitRJ, Name: "Unidade Rio de Janeiro", Address: "Av. Copacabana, 456 - Copacabana, Rio de Janeiro - RJ", Phone: "(21) 9876-5432"},
	}
}

func Courses() []school.Course {
	return []school.Course{
		{ID: "course1", Name: "Tecnologia da Informação", Description: "Curso básico de programação e informática", Duration: "160", UnitID: unitSP},
		{ID: "course2", Name: "Extensão", Description: "Curso de extensão em habilidades básicas", Duration: "80", UnitID: unitSP},
		{ID: "course3", Name: "Administração", Description: "Curso de administração e gestão", Duration: "120", UnitID: unitRJ},
	}
}

func Classes() []school.Class {
	newClass := func(id, name, courseID, course, instructor, period string) school.Class {
		return school.Class{
			ID:           id,
			Name:         name,
			CourseID:     courseID,
			Course:       course,
			InstructorID: instructor,
			UnitID:       unitSP,
			Unit:         unitSPNam,
			Cycle:        "01/2025",
			Period:       period,
		}
	}
	return []school.Class{
		newClass("class1", "TI - Turma A", "course1", "Tecnologia da Informação", "joao@ios.org.br", school.DefaultPeriod),
		newClass("class2", "TI - Turma B", "course1", "Tecnologia da Informação", "joao@ios.org.br", school.DefaultPeriod),
		newClass("class3", "Extensão - Turma A", "course2", "Extensão", "ana@ios.org.br", "tarde"),
	}
}

// Students returns the sample students, without ids.
func Students() []school.Student {
	students := []school.Student{
		{Name: "Maria Oliveira", CPF: "123.456.789-01", ClassID: "class1"},
		{Name: "Pedro Santos", CPF: "234.567.890-12", ClassID: "class1"},
		{Name: "Ana Souza", CPF: "345.678.901-23", ClassID: "class1"},
		{Name: "Carlos Lima", CPF: "456.789.012-34", ClassID: "class1"},
		{Name: "Juliana Costa", CPF: "567.890.123-45", ClassID: "class1"},
		{Name: "Roberto Silva", CPF: "678.901.234-56", ClassID: "class2"},
		{Name: "Fernanda Rocha", CPF: "789.012.345-67", ClassID: "class2"},
		{Name: "Lucas Pereira", CPF: "890.123.456-78", ClassID: "class2"},
		{Name: "Camila Ferreira", CPF: "901.234.567-89", ClassID: "class3"},
		{Name: "Diego Almeida", CPF: "012.345.678-90", ClassID: "class3"},
	}
	for i := range students {
		students[i].Status = school.StudentActive
	}
	return students
}

// Seed inserts the sample records when there is no User yet and reports whether it did.
func Seed(ctx context.Context, users user.Repository, schools school.Repository, creds user.CredentialVerifier) (bool, error) {
	n, err := users.CountUsers(ctx)
	if err != nil {
		return false, errors.Wrap(err, "counting users")
	}
	if n > 0 {
		return false, nil
	}

	now := core.Now()
	for _, usr := range Users() {
		usr.ID = core.NewID()
		usr.CreatedAt = now
		if usr.Password, err = creds.Encode(usr.Password); err != nil {
			return false, errors.Wrap(err, "encoding password")
		}
		if err := users.CreateUser(ctx, usr); err != nil {
			return false, errors.Wrap(err, "creating sample user")
		}
	}
	for _, unit := range Units() {
		unit.CreatedAt = now
		if err := schools.CreateUnit(ctx, unit); err != nil {
			return false, errors.Wrap(err, "creating sample unit")
		}
	}
	for _, course := range Courses() {
		course.CreatedAt = now
		if err := schools.CreateCourse(ctx, course); err != nil {
			return false, errors.Wrap(err, "creating sample course")
		}
	}
	for _, class := range Classes() {
		class.CreatedAt = now
		if err := schools.CreateClass(ctx, class); err != nil {
			return false, errors.Wrap(err, "creating sample class")
		}
	}
	for _, st := range Students() {
		st.ID = core.NewID()
		st.CreatedAt = now
		if err := schools.CreateStudent(ctx, st); err != nil {
			return false, errors.Wrap(err, "creating sample student")
		}
	}
	return true, nil
}
