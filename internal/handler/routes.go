package handler

import "github.com/gin-gonic/gin"

// Handlers bundles the API handlers for route registration.
type Handlers struct {
	Courses     *CourseHandler
	Students    *StudentHandler
	Enrollments *EnrollmentHandler
	Exports     *ExportHandler
}

// RegisterRoutes wires the courseboard API surface onto the router group.
func RegisterRoutes(rg *gin.RouterGroup, h Handlers) {
	courses := rg.Group("/courses")
	courses.GET("", h.Courses.List)
	courses.POST("", h.Courses.Create)
	courses.GET("/:id", h.Courses.Get)
	courses.PUT("/:id", h.Courses.Update)
	courses.DELETE("/:id", h.Courses.Delete)
	courses.GET("/:id/students", h.Enrollments.ListByCourse)
	courses.POST("/:id/students", h.Enrollments.Enroll)
	courses.DELETE("/:id/students/:studentId", h.Enrollments.Unenroll)
	if h.Exports != nil {
		courses.GET("/:id/roster/export", h.Exports.Roster)
	}

	students := rg.Group("/students")
	students.GET("", h.Students.List)
	students.POST("", h.Students.Create)
	students.GET("/:id", h.Students.Get)
	students.PUT("/:id", h.Students.Update)
	students.DELETE("/:id", h.Students.Delete)
	students.GET("/:id/schedule", h.Students.Schedule)

	rg.GET("/enrollments", h.Enrollments.ListAll)
}
