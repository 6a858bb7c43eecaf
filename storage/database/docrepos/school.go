package docrepos

import (
	"context"

	"github.com/chamadaweb/chamada/core"
	"github.com/chamadaweb/chamada/core/school"
)

type schoolRepository struct {
	store core.Store
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(store core.Store) *schoolRepository {
	return &schoolRepository{store: store}
}

// Units

func (repo schoolRepository) CreateUnit(ctx context.Context, unit school.Unit) error {
	return repo.store.InsertOne(ctx, core.CollUnits, unit)
}

func (repo schoolRepository) GetUnit(ctx context.Context, id string) (school.Unit, error) {
	var unit school.Unit
	err := getOne(ctx, repo.store, core.CollUnits, byID(id), &unit, school.ErrUnitNotFound)
	return unit, err
}

func (repo schoolRepository) QueryUnits(ctx context.Context) ([]school.Unit, error) {
	var units []school.Unit
	err := repo.store.Find(ctx, core.CollUnits, nil, nil, &units)
	return units, err
}

func (repo schoolRepository) UpdateUnit(ctx context.Context, id string, changes core.Changes) error {
	return updateByID(ctx, repo.store, core.CollUnits, id, changes, school.ErrUnitNotFound)
}

func (repo schoolRepository) DeleteUnit(ctx context.Context, id string) error {
	return deleteByID(ctx, repo.store, core.CollUnits, id, school.ErrUnitNotFound)
}

func (repo schoolRepository) CountUnits(ctx context.Context) (int64, error) {
	return repo.store.CountDocuments(ctx, core.CollUnits, nil)
}

// Courses

func (repo schoolRepository) CreateCourse(ctx context.Context, course school.Course) error {
	return repo.store.InsertOne(ctx, core.CollCourses, course)
}

func (repo schoolRepository) GetCourse(ctx context.Context, id string) (school.Course, error) {
	var course school.Course
	err := getOne(ctx, repo.store, core.CollCourses, byID(id), &course, school.ErrCourseNotFound)
	return course, err
}

func (repo schoolRepository) QueryCourses(ctx context.Context) ([]school.Course, error) {
	var courses []school.Course
	err := repo.store.Find(ctx, core.CollCourses, nil, nil, &courses)
	return courses, err
}

func (repo schoolRepository) UpdateCourse(ctx context.Context, id string, changes core.Changes) error {
	return updateByID(ctx, repo.store, core.CollCourses, id, changes, school.ErrCourseNotFound)
}

func (repo schoolRepository) DeleteCourse(ctx context.Context, id string) error {
	return deleteByID(ctx, repo.store, core.CollCourses, id, school.ErrCourseNotFound)
}

// Classes

func (repo schoolRepository) CreateClass(ctx context.Context, class school.Class) error {
	return repo.store.InsertOne(ctx, core.CollClasses, class)
}

func (repo schoolRepository) GetClass(ctx context.Context, id string) (school.Class, error) {
	var class school.Class
	err := getOne(ctx, repo.store, core.CollClasses, byID(id), &class, school.ErrClassNotFound)
	return class, err
}

func (repo schoolRepository) QueryClasses(ctx context.Context, filter school.ClassFilter) ([]school.Class, error) {
	f := core.Filter{}
	if filter.InstructorID != "" {
		f["instructor_id"] = filter.InstructorID
	}
	var classes []school.Class
	err := repo.store.Find(ctx, core.CollClasses, f, nil, &classes)
	return classes, err
}

func (repo schoolRepository) UpdateClass(ctx context.Context, id string, changes core.Changes) error {
	return updateByID(ctx, repo.store, core.CollClasses, id, changes, school.ErrClassNotFound)
}

func (repo schoolRepository) DeleteClass(ctx context.Context, id string) error {
	return deleteByID(ctx, repo.store, core.CollClasses, id, school.ErrClassNotFound)
}

func (repo schoolRepository) CountClasses(ctx context.Context) (int64, error) {
	return repo.store.CountDocuments(ctx, core.CollClasses, nil)
}

// Students

func studentFilter(filter school.StudentFilter) core.Filter {
	f := core.Filter{}
	if filter.ClassID != "" {
		f["class_id"] = filter.ClassID
	}
	if filter.Status != "" {
		f["status"] = filter.Status
	}
	return f
}

func (repo schoolRepository) CreateStudent(ctx context.Context, student school.Student) error {
	return repo.store.InsertOne(ctx, core.CollStudents, student)
}

func (repo schoolRepository) GetStudent(ctx context.Context, id string) (school.Student, error) {
	var student school.Student
	err := getOne(ctx, repo.store, core.CollStudents, byID(id), &student, school.ErrStudentNotFound)
	return student, err
}

func (repo schoolRepository) GetStudentByCPF(ctx context.Context, cpf string) (school.Student, error) {
	var student school.Student
	err := getOne(ctx, repo.store, core.CollStudents, core.Filter{"cpf": cpf}, &student, school.ErrStudentNotFound)
	return student, err
}

func (repo schoolRepository) QueryStudents(ctx context.Context, filter school.StudentFilter) ([]school.Student, error) {
	var students []school.Student
	err := repo.store.Find(ctx, core.CollStudents, studentFilter(filter), nil, &students)
	return students, err
}

func (repo schoolRepository) UpdateStudent(ctx context.Context, id string, changes core.Changes) error {
	return updateByID(ctx, repo.store, core.CollStudents, id, changes, school.ErrStudentNotFound)
}

func (repo schoolRepository) DeleteStudent(ctx context.Context, id string) error {
	return deleteByID(ctx, repo.store, core.CollStudents, id, school.ErrStudentNotFound)
}

func (repo schoolRepository) CountStudents(ctx context.Context, filter school.StudentFilter) (int64, error) {
	return repo.store.CountDocuments(ctx, core.CollStudents, studentFilter(filter))
}
