package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"schoollib/app/echoServer"
	authctl "schoollib/app/echoServer/controller/auth"
	bookctl "schoollib/app/echoServer/controller/book"
	circctl "schoollib/app/echoServer/controller/circulation"
	kioskctl "schoollib/app/echoServer/controller/kiosk"
	reportctl "schoollib/app/echoServer/controller/report"
	settingsctl "schoollib/app/echoServer/controller/settings"
	studentctl "schoollib/app/echoServer/controller/student"
	"schoollib/app/echoServer/validation"
	"schoollib/config"
	auditrepo "schoollib/repository/audit"
	bookrepo "schoollib/repository/book"
	holidayrepo "schoollib/repository/holiday"
	librarianrepo "schoollib/repository/librarian"
	loanrepo "schoollib/repository/loan"
	settingsrepo "schoollib/repository/settings"
	studentrepo "schoollib/repository/student"
	authsvc "schoollib/service/auth"
	"schoollib/service/calendar"
	catalogsvc "schoollib/service/catalog"
	"schoollib/service/circulation"
	"schoollib/service/policy"
	reportsvc "schoollib/service/report"
	studentsvc "schoollib/service/student"
	"schoollib/util/database"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg := config.Load()

	ctx := context.Background()
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("database connect", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Error("database migrate", "err", err)
		os.Exit(1)
	}

	books := bookrepo.New(db)
	students := studentrepo.New(db)
	loans := loanrepo.New(db)
	holidays := holidayrepo.New(db)
	settings := settingsrepo.New(db)
	librarians := librarianrepo.New(db)
	audit := auditrepo.New(db)

	pol := policy.New(settings)
	cal := calendar.New(holidays)
	circ := circulation.New(db, loans, books, students, audit, pol, cal)
	catalog := catalogsvc.New(books, loans)
	studentSvc := studentsvc.New(students, loans, pol)
	auth := authsvc.New(librarians, cfg.JWTSecret)
	reports := reportsvc.New(loans, books, audit)

	if err := pol.InitializeDefaults(ctx); err != nil {
		log.Error("initialize settings", "err", err)
		os.Exit(1)
	}

	v := validation.New()
	e := echo.New()
	e.HideBanner = true
	e.Validator = v
	echoServer.RegisterMiddlewares(e)

	vv := v.Raw()
	echoServer.Register(e, echoServer.C{
		Auth:     &authctl.Controller{Svc: auth, V: vv, Log: log},
		Books:    &bookctl.Controller{Svc: catalog, V: vv, Log: log},
		Students: &studentctl.Controller{Svc: studentSvc, V: vv, Log: log},
		Circ:     &circctl.Controller{Svc: circ, V: vv, Log: log},
		Kiosk: &kioskctl.Controller{
			Circ: circ, Students: studentSvc, Books: catalog, Loans: loans,
			V: vv, Log: log,
		},
		Settings: &settingsctl.Controller{Pol: pol, Cal: cal, V: vv, Log: log},
		Reports:  &reportctl.Controller{Svc: reports, Log: log},
	}, cfg.JWTSecret)

	go sweepLoop(ctx, reports, cfg.SweepInterval, log)

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

// sweepLoop reclassifies overdue loans on a timer so the overdue flag stays
// current even when nobody calls the sweep endpoint.
func sweepLoop(ctx context.Context, reports reportsvc.Service, interval time.Duration, log *slog.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := reports.OverdueSweep(ctx)
			if err != nil {
				log.Error("overdue sweep", "err", err)
				continue
			}
			log.Info("overdue sweep", "flagged", res.OverdueCount)
		}
	}
}
