// Package testutil builds stores and fixtures for tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/chamadaweb/chamada/core"
	"github.com/chamadaweb/chamada/core/attendance"
	"github.com/chamadaweb/chamada/core/school"
	"github.com/chamadaweb/chamada/core/user"
	inmemdb "github.com/chamadaweb/chamada/storage/database/inmem"
)

// OpenDB returns an empty in-memory store.
func OpenDB() *inmemdb.Store {
	return inmemdb.New()
}

// ResetDB drops every collection of db.
func ResetDB(t *testing.T, db *inmemdb.Store) {
	t.Helper()
	db.Reset()
}

func tstamp(createdAt []time.Time) time.Time {
	if len(createdAt) > 0 {
		return createdAt[0].UTC().Truncate(time.Millisecond)
	}
	return core.Now()
}

// CreateUser stores a User with a plain text password.
func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, cpf, pwd, role, status string,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	usr := user.User{
		ID:        core.NewID(),
		Name:      name,
		Email:     email,
		CPF:       cpf,
		Password:  pwd,
		Role:      role,
		Status:    status,
		CreatedAt: tstamp(createdAt),
	}
	if err := repo.CreateUser(context.Background(), usr); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateUnit(t *testing.T, repo school.Repository, name string) school.Unit {
	t.Helper()
	unit := school.Unit{
		ID:        core.NewID(),
		Name:      name,
		Address:   "Rua " + name,
		Phone:     "(11) 0000-0000",
		CreatedAt: core.Now(),
	}
	if err := repo.CreateUnit(context.Background(), unit); err != nil {
		t.Fatalf("CreateUnit() failed: %v", err)
	}
	return unit
}

func CreateCourse(t *testing.T, repo school.Repository, name string, unit school.Unit) school.Course {
	t.Helper()
	course := school.Course{
		ID:          core.NewID(),
		Name:        name,
		Description: "Curso de " + name,
		Duration:    "80",
		UnitID:      unit.ID,
		CreatedAt:   core.Now(),
	}
	if err := repo.CreateCourse(context.Background(), course); err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return course
}

func CreateClass(t *testing.T, repo school.Repository, name string, unit school.Unit, course school.Course, instructorEmail string) school.Class {
	t.Helper()
	class := school.Class{
		ID:           core.NewID(),
		Name:         name,
		CourseID:     course.ID,
		Course:       course.Name,
		InstructorID: instructorEmail,
		UnitID:       unit.ID,
		Unit:         unit.Name,
		Cycle:        "1º/2025",
		Period:       school.DefaultPeriod,
		CreatedAt:    core.Now(),
	}
	if err := repo.CreateClass(context.Background(), class); err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return class
}

func CreateStudent(t *testing.T, repo school.Repository, name, cpf, classID, status string) school.Student {
	t.Helper()
	student := school.Student{
		ID:        core.NewID(),
		Name:      name,
		CPF:       cpf,
		ClassID:   classID,
		Status:    status,
		CreatedAt: core.Now(),
	}
	if err := repo.CreateStudent(context.Background(), student); err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return student
}

// CreateSession stores a closed Session without Presence records.
func CreateSession(t *testing.T, repo attendance.Repository, classID, date string, createdAt ...time.Time) attendance.Session {
	t.Helper()
	session := attendance.Session{
		ID:         core.NewID(),
		ClassID:    classID,
		Date:       date,
		StartTime:  "08:00",
		EndTime:    "12:00",
		Instructor: "Instrutor",
		Status:     attendance.StatusClosed,
		CreatedAt:  tstamp(createdAt),
	}
	if err := repo.CreateSession(context.Background(), session); err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
	return session
}
