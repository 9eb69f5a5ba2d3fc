package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	api "github.com/provamaster/provamaster/internal/api/http"
	authmw "github.com/provamaster/provamaster/internal/auth/middleware"
	"github.com/provamaster/provamaster/internal/catalog"
	"github.com/provamaster/provamaster/internal/config"
	"github.com/provamaster/provamaster/internal/db"
	"github.com/provamaster/provamaster/internal/events"
	"github.com/provamaster/provamaster/internal/practice"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	catalogStore := catalog.NewSQLStore(dbh, cfg.DBDriver)
	practiceStore := practice.NewSQLStore(dbh, cfg.DBDriver)
	authSvc := authmw.NewAuthService(cfg.AuthHMACSecret)

	if err := authmw.EnsureAdmin(ctx, dbh, cfg.AdminUser, cfg.AdminPassHash); err != nil {
		log.Fatalf("admin bootstrap: %v", err)
	}
	if cfg.SeedDemoData {
		if err := catalog.SeedDemo(ctx, catalogStore); err != nil {
			log.Printf("seed demo data: %v", err)
		}
	}

	r := api.NewRouter(cfg, api.RouterDeps{
		Catalog:  catalogStore,
		Practice: practiceStore,
		Auth:     authSvc,
		Events:   events.NewRepo(dbh),
		DB:       dbh,
	})

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
