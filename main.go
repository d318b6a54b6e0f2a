package main

import (
	"context"
	"log"
	"net/http"

	"pharmasync/m/internal/api"
	"pharmasync/m/internal/config"
	"pharmasync/m/internal/database"
	"pharmasync/m/internal/migrations"
	"pharmasync/m/internal/report"
	"pharmasync/m/internal/seed"
	"pharmasync/m/internal/service"
	"pharmasync/m/internal/store"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()
	st := store.New(db)
	if _, err := seed.Admin(ctx, st, cfg.Admin); err != nil {
		log.Fatalf("admin seed failed: %v", err)
	}
	if cfg.CatalogCSV != "" {
		if _, err := seed.LoadMedicines(ctx, st, cfg.CatalogCSV); err != nil {
			log.Printf("medicine catalog not loaded: %v", err)
		}
	}

	svc := service.New(st, report.NewPDF("PharmaSync Ledger Report"), cfg.Secret, cfg.TokenTTL)
	handler := api.New(svc, cfg.CORSOrigins)

	log.Printf("PharmaSync server starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
