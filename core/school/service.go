package school

import (
	"context"

	"github.com/pkg/errors"

	"github.com/chamadaweb/chamada/core"
)

var (
	// errors
	ErrUnitNotFound         = errors.New("Unidade não encontrada")
	ErrCourseNotFound       = errors.New("Curso não encontrado")
	ErrClassNotFound        = errors.New("Turma não encontrada")
	ErrStudentNotFound      = errors.New("Estudante não encontrado")
	ErrUnitOrCourseNotFound = errors.New("Unidade ou curso não encontrado")
	ErrStudentExists        = errors.New("Estudante já existe com este CPF")

	// validation messages
	msgAllFieldsRequired     = "Todos os campos são obrigatórios"
	msgNewCourseRequired     = "Nome, duração e unidade são obrigatórios"
	msgUpdateCourseRequired  = "Nome e duração são obrigatórios"
	msgUpdateClassRequired   = "Nome, instrutor e ciclo são obrigatórios"
	msgNewStudentRequired    = "Nome, CPF e turma são obrigatórios"
	msgUpdateStudentRequired = "Nome é obrigatório"
)

// Repository methods return the matching Err*NotFound error when an id matches nothing.
type Repository interface {
	CreateUnit(ctx context.Context, unit Unit) error
	GetUnit(ctx context.Context, id string) (Unit, error)
	QueryUnits(ctx context.Context) ([]Unit, error)
	UpdateUnit(ctx context.Context, id string, changes core.Changes) error
	DeleteUnit(ctx context.Context, id string) error
	CountUnits(ctx context.Context) (int64, error)

	CreateCourse(ctx context.Context, course Course) error
	GetCourse(ctx context.Context, id string) (Course, error)
	QueryCourses(ctx context.Context) ([]Course, error)
	UpdateCourse(ctx context.Context, id string, changes core.Changes) error
	DeleteCourse(ctx context.Context, id string) error

	CreateClass(ctx context.Context, class Class) error
	GetClass(ctx context.Context, id string) (Class, error)
	QueryClasses(ctx context.Context, filter ClassFilter) ([]Class, error)
	UpdateClass(ctx context.Context, id string, changes core.Changes) error
	DeleteClass(ctx context.Context, id string) error
	CountClasses(ctx context.Context) (int64, error)

	CreateStudent(ctx context.Context, student Student) error
	GetStudent(ctx context.Context, id string) (Student, error)
	// GetStudentByCPF returns ErrStudentNotFound when no Student has that cpf.
	GetStudentByCPF(ctx context.Context, cpf string) (Student, error)
	QueryStudents(ctx context.Context, filter StudentFilter) ([]Student, error)
	UpdateStudent(ctx context.Context, id string, changes core.Changes) error
	DeleteStudent(ctx context.Context, id string) error
	CountStudents(ctx context.Context, filter StudentFilter) (int64, error)
}

// Service manages Units, Courses, Classes and Students.
// Deleting a record never cascades to the records referencing it.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// notFound turns the repository's not-found sentinel into a core.NotFoundError,
// reported as reported[0] when given.
func notFound(err error, sentinel error, wrapMsg string, reported ...error) error {
	if errors.Cause(err) == sentinel {
		if len(reported) > 0 {
			return core.NewNotFoundError(reported[0])
		}
		return core.NewNotFoundError(sentinel)
	}
	return errors.Wrap(err, wrapMsg)
}

// Units

func (svc *Service) CreateUnit(ctx context.Context, data UnitData) (Unit, error) {
	unit := Unit{
		ID:        core.NewID(),
		Name:      data.Name,
		Address:   data.Address,
		Phone:     data.Phone,
		CreatedAt: core.Now(),
	}
	if err := svc.repo.CreateUnit(ctx, unit); err != nil {
		return Unit{}, errors.Wrap(err, "creating unit")
	}
	return unit, nil
}

func (svc *Service) QueryUnits(ctx context.Context) ([]Unit, error) {
	units, err := svc.repo.QueryUnits(ctx)
	return units, errors.Wrap(err, "querying units")
}

// UnitName returns the name of the Unit, or "" when it does not exist.
func (svc *Service) UnitName(ctx context.Context, id string) (string, error) {
	unit, err := svc.repo.GetUnit(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrUnitNotFound {
			return "", nil
		}
		return "", errors.Wrap(err, "getting unit")
	}
	return unit.Name, nil
}

func (svc *Service) UpdateUnit(ctx context.Context, id string, data UnitData) error {
	changes := core.Changes{
		"name":       data.Name,
		"address":    data.Address,
		"phone":      data.Phone,
		"updated_at": core.Now(),
	}
	if err := svc.repo.UpdateUnit(ctx, id, changes); err != nil {
		return notFound(err, ErrUnitNotFound, "updating unit")
	}
	return nil
}

func (svc *Service) DeleteUnit(ctx context.Context, id string) error {
	if err := svc.repo.DeleteUnit(ctx, id); err != nil {
		return notFound(err, ErrUnitNotFound, "deleting unit")
	}
	return nil
}

func (svc *Service) CountUnits(ctx context.Context) (int64, error) {
	n, err := svc.repo.CountUnits(ctx)
	return n, errors.Wrap(err, "counting units")
}

// Courses

func (svc *Service) CreateCourse(ctx context.Context, data NewCourse) (Course, error) {
	course := Course{
		ID:          core.NewID(),
		Name:        data.Name,
		Description: data.Description,
		Duration:    data.Duration.String(),
		UnitID:      data.UnitID,
		CreatedAt:   core.Now(),
	}
	if err := svc.repo.CreateCourse(ctx, course); err != nil {
		return Course{}, errors.Wrap(err, "creating course")
	}
	return course, nil
}

func (svc *Service) QueryCourses(ctx context.Context) ([]Course, error) {
	courses, err := svc.repo.QueryCourses(ctx)
	return courses, errors.Wrap(err, "querying courses")
}

func (svc *Service) UpdateCourse(ctx context.Context, id string, data UpdateCourse) error {
	changes := core.Changes{
		"name":        data.Name,
		"description": data.Description,
		"duration":    data.Duration.String(),
		"updated_at":  core.Now(),
	}
	if data.UnitID != nil {
		changes["unit_id"] = core.CleanString(*data.UnitID)
	}
	if err := svc.repo.UpdateCourse(ctx, id, changes); err != nil {
		return notFound(err, ErrCourseNotFound, "updating course")
	}
	return nil
}

func (svc *Service) DeleteCourse(ctx context.Context, id string) error {
	if err := svc.repo.DeleteCourse(ctx, id); err != nil {
		return notFound(err, ErrCourseNotFound, "deleting course")
	}
	return nil
}

// Classes

// CreateClass snapshots the names of its Unit and Course, which must both exist.
func (svc *Service) CreateClass(ctx context.Context, data NewClass) (Class, error) {
	unit, err := svc.repo.GetUnit(ctx, data.UnitID)
	if err != nil {
		return Class{}, notFound(err, ErrUnitNotFound, "getting unit", ErrUnitOrCourseNotFound)
	}
	course, err := svc.repo.GetCourse(ctx, data.CourseID)
	if err != nil {
		return Class{}, notFound(err, ErrCourseNotFound, "getting course", ErrUnitOrCourseNotFound)
	}

	period := data.Period
	if period == "" {
		period = DefaultPeriod
	}
	class := Class{
		ID:           core.NewID(),
		Name:         data.Name,
		CourseID:     course.ID,
		Course:       course.Name,
		InstructorID: data.InstructorID,
		UnitID:       unit.ID,
		Unit:         unit.Name,
		Cycle:        data.Cycle,
		Period:       period,
		CreatedAt:    core.Now(),
	}
	if err := svc.repo.CreateClass(ctx, class); err != nil {
		return Class{}, errors.Wrap(err, "creating class")
	}
	return class, nil
}

func (svc *Service) GetClass(ctx context.Context, id string) (Class, error) {
	class, err := svc.repo.GetClass(ctx, id)
	if err != nil {
		return Class{}, notFound(err, ErrClassNotFound, "getting class")
	}
	return class, nil
}

func (svc *Service) QueryClasses(ctx context.Context, filter ClassFilter) ([]Class, error) {
	filter.InstructorID = core.CleanString(filter.InstructorID)
	classes, err := svc.repo.QueryClasses(ctx, filter)
	return classes, errors.Wrap(err, "querying classes")
}

func (svc *Service) UpdateClass(ctx context.Context, id string, data UpdateClass) error {
	changes := core.Changes{
		"name":          data.Name,
		"instructor_id": data.InstructorID,
		"cycle":         data.Cycle,
		"updated_at":    core.Now(),
	}
	if data.Period != "" {
		changes["period"] = data.Period
	}
	if err := svc.repo.UpdateClass(ctx, id, changes); err != nil {
		return notFound(err, ErrClassNotFound, "updating class")
	}
	return nil
}

func (svc *Service) DeleteClass(ctx context.Context, id string) error {
	if err := svc.repo.DeleteClass(ctx, id); err != nil {
		return notFound(err, ErrClassNotFound, "deleting class")
	}
	return nil
}

func (svc *Service) CountClasses(ctx context.Context) (int64, error) {
	n, err := svc.repo.CountClasses(ctx)
	return n, errors.Wrap(err, "counting classes")
}

// Students

func (svc *Service) CreateStudent(ctx context.Context, data NewStudent) (Student, error) {
	if _, err := svc.repo.GetStudentByCPF(ctx, data.CPF); err == nil {
		return Student{}, core.NewConflictError(ErrStudentExists)
	} else if errors.Cause(err) != ErrStudentNotFound {
		return Student{}, errors.Wrap(err, "checking student uniqueness")
	}

	student := Student{
		ID:        core.NewID(),
		Name:      data.Name,
		CPF:       data.CPF,
		ClassID:   data.ClassID,
		Status:    StudentActive,
		CreatedAt: core.Now(),
	}
	if err := svc.repo.CreateStudent(ctx, student); err != nil {
		return Student{}, errors.Wrap(err, "creating student")
	}
	return student, nil
}

func (svc *Service) QueryStudents(ctx context.Context) ([]Student, error) {
	students, err := svc.repo.QueryStudents(ctx, StudentFilter{})
	return students, errors.Wrap(err, "querying students")
}

// ClassRoster returns the active Students of the Class.
func (svc *Service) ClassRoster(ctx context.Context, classID string) ([]Student, error) {
	students, err := svc.repo.QueryStudents(ctx, StudentFilter{ClassID: classID, Status: StudentActive})
	return students, errors.Wrap(err, "querying class students")
}

// UpdateStudent does not re-check cpf uniqueness.
func (svc *Service) UpdateStudent(ctx context.Context, id string, data UpdateStudent) error {
	changes := core.Changes{
		"name":       data.Name,
		"updated_at": core.Now(),
	}
	if data.CPF != "" {
		changes["cpf"] = data.CPF
	}
	if data.ClassID != "" {
		changes["class_id"] = data.ClassID
	}
	if data.Status != "" {
		changes["status"] = data.Status
	}
	if err := svc.repo.UpdateStudent(ctx, id, changes); err != nil {
		return notFound(err, ErrStudentNotFound, "updating student")
	}
	return nil
}

func (svc *Service) DeleteStudent(ctx context.Context, id string) error {
	if err := svc.repo.DeleteStudent(ctx, id); err != nil {
		return notFound(err, ErrStudentNotFound, "deleting student")
	}
	return nil
}

// CountActiveStudents counts Students with status ativo.
func (svc *Service) CountActiveStudents(ctx context.Context) (int64, error) {
	n, err := svc.repo.CountStudents(ctx, StudentFilter{Status: StudentActive})
	return n, errors.Wrap(err, "counting students")
}
