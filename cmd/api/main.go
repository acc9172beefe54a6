package main

import (
	"context"
	"log"
	"net/http"

	"upload-pipeline/config"
	"upload-pipeline/internal/httpapi"
	"upload-pipeline/internal/storage"
	"upload-pipeline/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to initialize environment config: %v", err)
	}

	awsCfg, err := config.InitializeAws(ctx, cfg.AwsRegion)
	if err != nil {
		log.Fatalf("failed to initialize AWS config: %v", err)
	}

	app := &httpapi.App{
		Store:     store.NewStatusStore(awsCfg, cfg.StatusTable),
		Presigner: storage.NewS3Service(awsCfg, cfg.ArtifactBucket),
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	httpapi.RegisterRoutes(r, app)

	log.Printf("API listening on %s", cfg.APIAddr)
	log.Fatal(http.ListenAndServe(cfg.APIAddr, r))
}
