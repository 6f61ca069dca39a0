// app/echoServer/routes.go
package echoServer

import (
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	authctl "schoollib/app/echoServer/controller/auth"
	bookctl "schoollib/app/echoServer/controller/book"
	circctl "schoollib/app/echoServer/controller/circulation"
	kioskctl "schoollib/app/echoServer/controller/kiosk"
	reportctl "schoollib/app/echoServer/controller/report"
	settingsctl "schoollib/app/echoServer/controller/settings"
	studentctl "schoollib/app/echoServer/controller/student"
	"schoollib/model"
)

// C bundles the controllers for route registration.
type C struct {
	Auth     *authctl.Controller
	Books    *bookctl.Controller
	Students *studentctl.Controller
	Circ     *circctl.Controller
	Kiosk    *kioskctl.Controller
	Settings *settingsctl.Controller
	Reports  *reportctl.Controller
}

func Register(e *echo.Echo, ctl C, jwtSecret string) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, echo.Map{"status": "ok"})
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Login stays outside the JWT group.
	e.POST("/v1/auth/login", ctl.Auth.Login)

	// Kiosk routes are unauthenticated: the student's own card is the
	// credential and responses are privacy trimmed.
	k := e.Group("/kiosk")
	k.GET("/students/:studentId", ctl.Kiosk.Student)
	k.GET("/books/:accession", ctl.Kiosk.Book)
	k.POST("/checkout", ctl.Kiosk.CheckOut)
	k.POST("/checkin", ctl.Kiosk.CheckIn)

	staff := []string{
		string(model.RoleAdmin),
		string(model.RoleStaff),
		string(model.RoleStudentAssistant),
	}
	admin := []string{string(model.RoleAdmin)}

	v1 := e.Group("/v1")
	v1.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(jwtSecret),
	}))

	// Circulation desk.
	v1.POST("/circulation/validate", ctl.Circ.Validate, RequireRole(staff...))
	v1.POST("/circulation/checkout", ctl.Circ.CheckOut, RequireRole(staff...))
	v1.POST("/circulation/checkin", ctl.Circ.CheckIn, RequireRole(staff...))
	v1.POST("/circulation/renew/:id", ctl.Circ.Renew, RequireRole(staff...))
	v1.GET("/transactions/active", ctl.Circ.Active, RequireRole(staff...))
	v1.GET("/transactions/overdue", ctl.Circ.Overdue, RequireRole(staff...))
	v1.GET("/transactions/recent", ctl.Circ.Recent, RequireRole(staff...))
	v1.GET("/transactions/stats", ctl.Circ.Stats, RequireRole(staff...))

	// Catalog.
	v1.POST("/books", ctl.Books.Create, RequireRole(staff...))
	v1.GET("/books", ctl.Books.List, RequireRole(staff...))
	v1.GET("/books/:id", ctl.Books.Detail, RequireRole(staff...))
	v1.PUT("/books/:id", ctl.Books.Update, RequireRole(staff...))
	v1.PATCH("/books/:id/status", ctl.Books.SetStatus, RequireRole(staff...))
	v1.DELETE("/books/:id", ctl.Books.Delete, RequireRole(admin...))
	v1.POST("/books/bulk", ctl.Books.BulkImport, RequireRole(staff...))
	v1.POST("/books/check-duplicates", ctl.Books.CheckDuplicates, RequireRole(staff...))

	// Students.
	v1.POST("/students", ctl.Students.Create, RequireRole(staff...))
	v1.GET("/students", ctl.Students.List, RequireRole(staff...))
	v1.GET("/students/:id", ctl.Students.Detail, RequireRole(staff...))
	v1.GET("/students/:id/history", ctl.Circ.StudentHistory, RequireRole(staff...))
	v1.PUT("/students/:id", ctl.Students.Update, RequireRole(staff...))
	v1.POST("/students/:id/block", ctl.Students.Block, RequireRole(staff...))
	v1.POST("/students/:id/unblock", ctl.Students.Unblock, RequireRole(staff...))
	v1.DELETE("/students/:id", ctl.Students.Delete, RequireRole(admin...))
	v1.POST("/students/bulk", ctl.Students.BulkImport, RequireRole(staff...))
	v1.POST("/students/check-duplicates", ctl.Students.CheckDuplicates, RequireRole(staff...))

	// Reports.
	v1.POST("/reports/overdue-sweep", ctl.Reports.OverdueSweep, RequireRole(staff...))
	v1.POST("/reports/weekly", ctl.Reports.Weekly, RequireRole(staff...))
	v1.POST("/reports/monthly", ctl.Reports.Monthly, RequireRole(staff...))
	v1.GET("/reports/history", ctl.Reports.History, RequireRole(staff...))

	// Admin only: accounts, policy, calendar.
	v1.POST("/auth/register", ctl.Auth.Register, RequireRole(admin...))
	v1.GET("/librarians", ctl.Auth.List, RequireRole(admin...))
	v1.POST("/librarians/:id/deactivate", ctl.Auth.Deactivate, RequireRole(admin...))
	v1.POST("/librarians/:id/activate", ctl.Auth.Activate, RequireRole(admin...))
	v1.GET("/settings", ctl.Settings.List, RequireRole(admin...))
	v1.PUT("/settings", ctl.Settings.Set, RequireRole(admin...))
	v1.DELETE("/settings/:key", ctl.Settings.Delete, RequireRole(admin...))
	v1.POST("/settings/initialize", ctl.Settings.InitializeDefaults, RequireRole(admin...))
	v1.GET("/holidays", ctl.Settings.Holidays, RequireRole(staff...))
	v1.GET("/holidays/check", ctl.Settings.CheckHoliday, RequireRole(staff...))
	v1.POST("/holidays", ctl.Settings.AddHoliday, RequireRole(admin...))
	v1.DELETE("/holidays/:id", ctl.Settings.RemoveHoliday, RequireRole(admin...))
	v1.POST("/holidays/seed", ctl.Settings.SeedHolidays, RequireRole(admin...))
}
