package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/neon-lab-dev/medhrplus-server/internal/api/handler"
	"github.com/neon-lab-dev/medhrplus-server/internal/api/middleware"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
)

// Deps is everything the HTTP surface needs from the service layer.
type Deps struct {
	Log         zerolog.Logger
	CORSOrigins []string
	BodyLimit   string

	Resolver middleware.PrincipalResolver

	EmployeeAccounts ports.AccountService[domain.Employee]
	EmployerAccounts ports.AccountService[domain.Employer]
	AdminAccounts    ports.AccountService[domain.Admin]

	Employees ports.EmployeeService
	Employers ports.EmployerService
	Admin     ports.AdminService
	Jobs      ports.JobService
	Courses   ports.CourseService
	Events    ports.EventService
	Payments  ports.PaymentService

	Health []handler.Dependency
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.Metrics())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     corsOrigins(d.CORSOrigins),
		AllowCredentials: len(d.CORSOrigins) > 0,
	}))
	if d.BodyLimit != "" {
		e.Use(echomiddleware.BodyLimit(d.BodyLimit))
	}

	// --- Handlers ---
	employeeAuth := handler.NewAuthHandler(d.EmployeeAccounts, domain.RoleEmployee)
	employerAuth := handler.NewAuthHandler(d.EmployerAccounts, domain.RoleEmployer)
	adminAuth := handler.NewAuthHandler(d.AdminAccounts, domain.RoleAdmin)
	employees := handler.NewEmployeeHandler(d.Employees)
	employers := handler.NewEmployerHandler(d.Employers)
	admin := handler.NewAdminHandler(d.Admin)
	jobs := handler.NewJobHandler(d.Jobs)
	courses := handler.NewCourseHandler(d.Courses)
	events := handler.NewEventHandler(d.Events)
	payments := handler.NewPaymentHandler(d.Payments, d.Log)
	health := handler.NewHealthHandler(d.Health...)

	// --- Gates ---
	asEmployee := middleware.Require(d.Resolver, domain.RoleEmployee)
	asEmployer := middleware.Require(d.Resolver, domain.RoleEmployer)
	asAdmin := middleware.Require(d.Resolver, domain.RoleAdmin)
	asStaff := middleware.RequireAny(d.Resolver, domain.RoleAdmin, domain.RoleEmployer)

	// --- Ops (no auth required) ---
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/api/v1")

	// --- Employees ---
	v1.POST("/register/employee", employeeAuth.Register)
	v1.POST("/verify/employee", employeeAuth.Verify)
	v1.POST("/login/employee", employeeAuth.Login)
	v1.POST("/password/forgot/employee", employeeAuth.ForgotPassword)
	v1.PUT("/password/employee/reset/:token", employeeAuth.ResetPassword)
	v1.GET("/employee/logout", employeeAuth.Logout, asEmployee)
	v1.GET("/employee/me", employeeAuth.Me, asEmployee)
	v1.PUT("/employee/password/update", employeeAuth.UpdatePassword, asEmployee)
	v1.PUT("/employee/details", employees.UpdateDetails, asEmployee)
	v1.PUT("/employee/me/update", employees.UpdateAvatar, asEmployee)
	v1.PUT("/employee/me/resume", employees.UploadResume, asEmployee)

	// --- Employers ---
	v1.POST("/register/employer", employerAuth.Register)
	v1.POST("/verify/employer", employerAuth.Verify)
	v1.POST("/login/employer", employerAuth.Login)
	v1.POST("/password/forgot/employer", employerAuth.ForgotPassword)
	v1.PUT("/password/employer/reset/:token", employerAuth.ResetPassword)
	v1.GET("/employer/logout", employerAuth.Logout, asEmployer)
	v1.GET("/employer/me", employerAuth.Me, asEmployer)
	v1.PUT("/employer/password/update", employerAuth.UpdatePassword, asEmployer)
	v1.PUT("/employer/details", employers.UpdateDetails, asEmployer)
	v1.PUT("/employer/me/update", employers.UpdateCompanyAvatar, asEmployer)
	v1.GET("/employer/find-candidates", employers.FindCandidates, asEmployer)
	v1.POST("/send-contact-email/:userId", employers.ContactEmployee, asEmployer)
	v1.GET("/employer/employee/:id", employers.GetEmployee, asStaff)
	v1.GET("/emp/:id", employers.GetEmployee, asStaff)

	// --- Admins ---
	v1.POST("/register/admin", adminAuth.CreateVerified, asAdmin)
	v1.POST("/login/admin", adminAuth.Login)
	v1.GET("/admin/logout", adminAuth.Logout, asAdmin)
	v1.GET("/admin/me", adminAuth.Me, asAdmin)
	v1.PUT("/admin/password/update", adminAuth.UpdatePassword, asAdmin)
	v1.GET("/admin/employers", admin.ListEmployers, asAdmin)
	v1.GET("/admin/employer/:id", admin.GetEmployer, asAdmin)
	v1.DELETE("/admin/employer/:id", admin.DeleteEmployer, asAdmin)
	v1.GET("/admin/employees", admin.ListEmployees, asAdmin)
	v1.GET("/admin/employee/:id", admin.GetEmployee, asAdmin)
	v1.DELETE("/admin/employee/:id", admin.DeleteEmployee, asAdmin)
	v1.GET("/admin/counts", admin.Counts, asAdmin)
	v1.DELETE("/admin/job/:id", jobs.Delete, asAdmin)
	v1.POST("/contact", admin.Contact)

	// --- Jobs ---
	v1.POST("/createjob", jobs.Create, asStaff)
	v1.GET("/jobs", jobs.List)
	v1.GET("/job/:id", jobs.Get)
	v1.PUT("/job/:id", jobs.Update, asStaff)
	v1.DELETE("/job/:id", jobs.Delete, asStaff)
	v1.GET("/job/:id/applicants/export", jobs.ExportApplicants, asStaff)
	v1.GET("/employer/job", jobs.ListPosted, asStaff)
	v1.PUT("/apply/job/:id", jobs.Apply, asEmployee)
	v1.PUT("/withdraw/job/:id", jobs.Withdraw, asEmployee)
	v1.GET("/employee/job", jobs.ListApplied, asEmployee)
	v1.PUT("/jobs/application", jobs.MarkViewed, asStaff)
	v1.PUT("/jobs/manage", jobs.Manage, asStaff)

	// --- Courses ---
	v1.POST("/course", courses.Create, asStaff)
	v1.GET("/courses", courses.List)
	v1.GET("/course/:id", courses.Get)
	v1.PUT("/course/:id", courses.Update, asStaff)
	v1.DELETE("/course/:id", courses.Delete, asStaff)
	v1.GET("/employer/courses", courses.ListPosted, asStaff)
	v1.PUT("/apply/course/:id", courses.Apply, asEmployee)

	// --- Events ---
	v1.POST("/event", events.Create, asStaff)
	v1.GET("/events", events.List)
	v1.GET("/event/:id", events.Get)
	v1.DELETE("/event/:id", events.Delete, asStaff)
	v1.GET("/employer/events", events.ListPosted, asStaff)

	// --- Payments ---
	v1.POST("/payment/create", payments.Create, asEmployee)
	v1.POST("/payment/verify", payments.Verify, asEmployee)
	v1.POST("/payment/notification", payments.Notification)
	v1.GET("/payment", payments.List, asAdmin)
	v1.GET("/payment/:id", payments.Get, asAdmin)
	v1.PUT("/payment/update-status", payments.UpdateStatus, asAdmin)

	return e
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
