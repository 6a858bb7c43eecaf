package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/chamadaweb/chamada/core/school"
)

var (
	msgUnitCreated = "Unidade criada com sucesso"
	msgUnitUpdated = "Unidade atualizada com sucesso"
	msgUnitDeleted = "Unidade excluída com sucesso"

	msgCourseCreated = "Curso criado com sucesso"
	msgCourseUpdated = "Curso atualizado com sucesso"
	msgCourseDeleted = "Curso excluído com sucesso"

	msgClassCreated = "Turma criada com sucesso"
	msgClassUpdated = "Turma atualizada com sucesso"
	msgClassDeleted = "Turma excluída com sucesso"

	msgStudentCreated = "Estudante criado com sucesso"
	msgStudentUpdated = "Estudante atualizado com sucesso"
	msgStudentDeleted = "Estudante excluído com sucesso"
)

type schoolApi struct {
	svc        *school.Service
	validate   *validator.Validate
	translator ut.Translator
	binder     echo.DefaultBinder
}

func registerSchoolAPI(g *echo.Group, svc *school.Service, validate *validator.Validate, translator ut.Translator) {
	api := schoolApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	ug := g.Group("/units")
	ug.GET("", api.queryUnits)
	ug.POST("", api.createUnit)
	ug.PUT("/:id", api.updateUnit)
	ug.DELETE("/:id", api.destroyUnit)

	cg := g.Group("/courses")
	cg.GET("", api.queryCourses)
	cg.POST("", api.createCourse)
	cg.PUT("/:id", api.updateCourse)
	cg.DELETE("/:id", api.destroyCourse)

	clg := g.Group("/classes")
	clg.GET("", api.queryClasses)
	clg.POST("", api.createClass)
	clg.PUT("/:id", api.updateClass)
	clg.DELETE("/:id", api.destroyClass)
	clg.GET("/:id/students", api.classRoster)

	sg := g.Group("/students")
	sg.GET("", api.queryStudents)
	sg.POST("", api.createStudent)
	sg.PUT("/:id", api.updateStudent)
	sg.DELETE("/:id", api.destroyStudent)
}

// Units

func (api *schoolApi) queryUnits(ctx echo.Context) error {
	units, err := api.svc.QueryUnits(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, UnitsResponse{Units: units})
}

func (api *schoolApi) createUnit(ctx echo.Context) error {
	var data school.UnitData
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UnitData")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	unit, err := api.svc.CreateUnit(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, UnitResponse{Unit: unit, Message: msgUnitCreated})
}

func (api *schoolApi) updateUnit(ctx echo.Context) error {
	var data school.UnitData
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UnitData")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	if err := api.svc.UpdateUnit(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: msgUnitUpdated})
}

func (api *schoolApi) destroyUnit(ctx echo.Context) error {
	if err := api.svc.DeleteUnit(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: msgUnitDeleted})
}

// Courses

func (api *schoolApi) queryCourses(ctx echo.Context) error {
	courses, err := api.svc.QueryCourses(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, CoursesResponse{Courses: courses})
}

func (api *schoolApi) createCourse(ctx echo.Context) error {
	var data school.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	course, err := api.svc.CreateCourse(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, CourseResponse{Course: course, Message: msgCourseCreated})
}

func (api *schoolApi) updateCourse(ctx echo.Context) error {
	var data school.UpdateCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	if err := api.svc.UpdateCourse(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: msgCourseUpdated})
}

func (api *schoolApi) destroyCourse(ctx echo.Context) error {
	if err := api.svc.DeleteCourse(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: msgCourseDeleted})
}

// Classes

func (api *schoolApi) queryClasses(ctx echo.Context) error {
	var filter school.ClassFilter
	if err := api.binder.BindQueryParams(ctx, &filter); err != nil {
		return errors.Wrap(err, "binding to ClassFilter")
	}

	classes, err := api.svc.QueryClasses(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ClassesResponse{Classes: classes})
}

func (api *schoolApi) createClass(ctx echo.Context) error {
	var data school.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	class, err := api.svc.CreateClass(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ClassResponse{Class: class, Message: msgClassCreated})
}

func (api *schoolApi) updateClass(ctx echo.Context) error {
	var data school.UpdateClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClass")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	if err := api.svc.UpdateClass(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: msgClassUpdated})
}

func (api *schoolApi) destroyClass(ctx echo.Context) error {
	if err := api.svc.DeleteClass(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: msgClassDeleted})
}

func (api *schoolApi) classRoster(ctx echo.Context) error {
	students, err := api.svc.ClassRoster(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, StudentsResponse{Students: students})
}

// Students

func (api *schoolApi) queryStudents(ctx echo.Context) error {
	students, err := api.svc.QueryStudents(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, StudentsResponse{Students: students})
}

func (api *schoolApi) createStudent(ctx echo.Context) error {
	var data school.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	student, err := api.svc.CreateStudent(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, StudentResponse{Student: student, Message: msgStudentCreated})
}

func (api *schoolApi) updateStudent(ctx echo.Context) error {
	var data school.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	if err := api.svc.UpdateStudent(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: msgStudentUpdated})
}

func (api *schoolApi) destroyStudent(ctx echo.Context) error {
	if err := api.svc.DeleteStudent(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: msgStudentDeleted})
}
