package school

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/chamadaweb/chamada/core"
)

// Student statuses
const (
	StudentActive  = "ativo"
	StudentDropout = "desistente"
)

// DefaultPeriod is the period of a newly created Class.
const DefaultPeriod = "manhã"

// Unit is a physical training location.
type Unit struct {
	ID        string     `json:"id" bson:"id"`
	Name      string     `json:"name" bson:"name"`
	Address   string     `json:"address" bson:"address"`
	Phone     string     `json:"phone" bson:"phone"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// Course is a curriculum offered at a Unit.
type Course struct {
	ID          string     `json:"id" bson:"id"`
	Name        string     `json:"name" bson:"name"`
	Description string     `json:"description" bson:"description"`
	Duration    string     `json:"duration" bson:"duration"` // hours
	UnitID      string     `json:"unit_id" bson:"unit_id"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// Class is one cohort of a Course. Course and Unit are name snapshots taken at creation
// and are not kept in sync when the referenced records are renamed.
type Class struct {
	ID           string     `json:"id" bson:"id"`
	Name         string     `json:"name" bson:"name"`
	CourseID     string     `json:"course_id" bson:"course_id"`
	Course       string     `json:"course" bson:"course"`
	InstructorID string     `json:"instructor_id" bson:"instructor_id"` // the instructor's email
	UnitID       string     `json:"unit_id" bson:"unit_id"`
	Unit         string     `json:"unit" bson:"unit"`
	Cycle        string     `json:"cycle" bson:"cycle"` // e.g. "1º/2025"
	Period       string     `json:"period" bson:"period"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

type Student struct {
	ID        string     `json:"id" bson:"id"`
	Name      string     `json:"name" bson:"name"`
	CPF       string     `json:"cpf" bson:"cpf"`
	ClassID   string     `json:"class_id" bson:"class_id"`
	Status    string     `json:"status" bson:"status"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

func (s Student) IsActive() bool { return s.Status == StudentActive }

// UnitData is used both to create and to update a Unit.
type UnitData struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
}

func (ud *UnitData) Validate(validate *validator.Validate, translator ut.Translator) error {
	ud.Name = core.CleanString(ud.Name)
	ud.Address = core.CleanString(ud.Address)
	ud.Phone = core.CleanString(ud.Phone)
	return core.ValidateStruct(validate, translator, ud, msgAllFieldsRequired)
}

type NewCourse struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Duration    core.FlexString `json:"duration" validate:"required"`
	UnitID      string          `json:"unit_id" validate:"required"`
}

func (nc *NewCourse) Validate(validate *validator.Validate, translator ut.Translator) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Description = core.CleanString(nc.Description)
	nc.Duration = core.FlexString(core.CleanString(nc.Duration.String()))
	nc.UnitID = core.CleanString(nc.UnitID)
	return core.ValidateStruct(validate, translator, nc, msgNewCourseRequired)
}

type UpdateCourse struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Duration    core.FlexString `json:"duration" validate:"required"`
	UnitID      *string         `json:"unit_id"`
}

func (uc *UpdateCourse) Validate(validate *validator.Validate, translator ut.Translator) error {
	uc.Name = core.CleanString(uc.Name)
	uc.Description = core.CleanString(uc.Description)
	uc.Duration = core.FlexString(core.CleanString(uc.Duration.String()))
	return core.ValidateStruct(validate, translator, uc, msgUpdateCourseRequired)
}

type NewClass struct {
	Name         string `json:"name" validate:"required"`
	UnitID       string `json:"unit_id" validate:"required"`
	CourseID     string `json:"course_id" validate:"required"`
	InstructorID string `json:"instructor_id" validate:"required"`
	Cycle        string `json:"cycle" validate:"required"`
	Period       string `json:"period"`
}

func (nc *NewClass) Validate(validate *validator.Validate, translator ut.Translator) error {
	nc.Name = core.CleanString(nc.Name)
	nc.UnitID = core.CleanString(nc.UnitID)
	nc.CourseID = core.CleanString(nc.CourseID)
	nc.InstructorID = core.CleanString(nc.InstructorID)
	nc.Cycle = core.CleanString(nc.Cycle)
	nc.Period = core.CleanString(nc.Period)
	return core.ValidateStruct(validate, translator, nc, msgAllFieldsRequired)
}

type UpdateClass struct {
	Name         string `json:"name" validate:"required"`
	InstructorID string `json:"instructor_id" validate:"required"`
	Cycle        string `json:"cycle" validate:"required"`
	Period       string `json:"period"`
}

func (uc *UpdateClass) Validate(validate *validator.Validate, translator ut.Translator) error {
	uc.Name = core.CleanString(uc.Name)
	uc.InstructorID = core.CleanString(uc.InstructorID)
	uc.Cycle = core.CleanString(uc.Cycle)
	uc.Period = core.CleanString(uc.Period)
	return core.ValidateStruct(validate, translator, uc, msgUpdateClassRequired)
}

type NewStudent struct {
	Name    string `json:"name" validate:"required"`
	CPF     string `json:"cpf" validate:"required"`
	ClassID string `json:"class_id" validate:"required"`
}

func (ns *NewStudent) Validate(validate *validator.Validate, translator ut.Translator) error {
	ns.Name = core.CleanString(ns.Name)
	ns.CPF = core.CleanString(ns.CPF)
	ns.ClassID = core.CleanString(ns.ClassID)
	return core.ValidateStruct(validate, translator, ns, msgNewStudentRequired)
}

// UpdateStudent overwrites Name and any other non-empty field.
type UpdateStudent struct {
	Name    string `json:"name" validate:"required"`
	CPF     string `json:"cpf"`
	ClassID string `json:"class_id"`
	Status  string `json:"status"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate, translator ut.Translator) error {
	us.Name = core.CleanString(us.Name)
	us.CPF = core.CleanString(us.CPF)
	us.ClassID = core.CleanString(us.ClassID)
	us.Status = core.CleanString(us.Status, true /* lower */)
	return core.ValidateStruct(validate, translator, us, msgUpdateStudentRequired)
}

type ClassFilter struct {
	InstructorID string `query:"instructor"`
}

type StudentFilter struct {
	ClassID string
	Status  string
}
