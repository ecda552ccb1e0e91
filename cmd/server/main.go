package main

import (
	"log"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/cinebox/box-office/internal/config"
	"github.com/cinebox/box-office/internal/handler"
	"github.com/cinebox/box-office/internal/model"
	"github.com/cinebox/box-office/internal/queue"
	"github.com/cinebox/box-office/internal/report"
	"github.com/cinebox/box-office/internal/router"
	"github.com/cinebox/box-office/internal/schedule"
	"github.com/cinebox/box-office/internal/store"
	"github.com/cinebox/box-office/internal/ticketing"
	"github.com/cinebox/box-office/internal/utils"
)

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	cfg := config.Load()

	st, err := openStore(cfg)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	rdb := config.NewRedisClient()

	// background consumer writing logs/sales.log
	go func() {
		if err := queue.StartTicketSoldConsumer(); err != nil {
			log.Printf("sales consumer stopped: %v", err)
		}
	}()

	tickets := ticketing.New(st)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, st),
		Sales:    handler.NewSalesHandler(st, tickets),
		Schedule: handler.NewScheduleHandler(schedule.New(st)),
		Reports:  handler.NewReportHandler(report.New(st)),
		Browse:   handler.NewBrowseHandler(st),
	}, cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s driver=%s)", addr, cfg.Env, cfg.StoreDriver)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// openStore selects the persistence driver.  The file driver seeds a
// small demo document on first start so a fresh checkout serves
// requests immediately.
func openStore(cfg config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMySQL:
		return store.OpenMySQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	default:
		fs := store.NewFileStore(cfg.StorePath)
		doc, err := seedDocument(cfg.BcryptCost)
		if err != nil {
			return nil, err
		}
		if err := fs.SeedIfMissing(doc); err != nil {
			return nil, err
		}
		log.Printf("using file store at %s", filepath.Clean(cfg.StorePath))
		return fs, nil
	}
}

// seedDocument builds the demo dataset written on first start of the
// file driver: one theater with two rooms, two staff accounts
// (sales1/sales123 and manager1/manager123) and reference movies and
// shifts.  No showtimes are seeded; management schedules those.
func seedDocument(bcryptCost int) (store.Document, error) {
	salesHash, err := utils.HashPassword("sales123", bcryptCost)
	if err != nil {
		return store.Document{}, err
	}
	mgrHash, err := utils.HashPassword("manager123", bcryptCost)
	if err != nil {
		return store.Document{}, err
	}
	return store.Document{
		Users: []model.User{
			{ID: "u-sales-1", Username: "sales1", PasswordHash: salesHash, Role: model.RoleSales, FullName: "Demo Seller"},
			{ID: "u-mgr-1", Username: "manager1", PasswordHash: mgrHash, Role: model.RoleManagement, FullName: "Demo Manager"},
		},
		Theaters: []model.Theater{
			{ID: 1, Name: "Grand Central Cinema", Address: "1 Main St"},
		},
		TheaterManagers: []model.TheaterManager{
			{UserID: "u-mgr-1", TheaterIDs: []int{1}},
		},
		ScreeningRooms: []model.ScreeningRoom{
			{ID: "r-1", TheaterID: 1, Name: "Room 1", Layout: model.SeatLayout{Rows: 10, Cols: 10, VIPRows: []int{0, 1}}},
			{ID: "r-2", TheaterID: 1, Name: "Room 2", Layout: model.SeatLayout{Rows: 8, Cols: 12}},
		},
		Movies: []model.Movie{
			{ID: "m-1", Title: "The Long Intermission", Duration: 128},
			{ID: "m-2", Title: "Midnight Reel", Duration: 95},
		},
		Shifts: []model.Shift{
			{ID: "sh-1", Name: "Morning", Time: "08:00-12:00"},
			{ID: "sh-2", Name: "Afternoon", Time: "12:00-17:00"},
			{ID: "sh-3", Name: "Evening", Time: "17:00-23:00"},
		},
	}, nil
}
