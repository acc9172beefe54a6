package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"upload-pipeline/config"
	"upload-pipeline/internal/notify"
	"upload-pipeline/internal/pipeline"
	"upload-pipeline/internal/queue"
	"upload-pipeline/internal/storage"
	"upload-pipeline/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to initialize environment config: %v", err)
	}

	awsCfg, err := config.InitializeAws(ctx, cfg.AwsRegion)
	if err != nil {
		log.Fatalf("failed to initialize AWS config: %v", err)
	}

	pipe := pipeline.New(
		storage.NewS3Service(awsCfg, cfg.ArtifactBucket),
		store.NewStatusStore(awsCfg, cfg.StatusTable),
		notify.NewSNSPublisher(awsCfg, cfg.TopicARN),
	)

	consumer := queue.NewConsumer(cfg.RabbitMqURL, cfg.RabbitMqQueue, pipe)
	log.Printf("worker started: queue=%s bucket=%s table=%s", cfg.RabbitMqQueue, cfg.ArtifactBucket, cfg.StatusTable)

	if err := consumer.Start(ctx); err != nil {
		log.Fatalf("consumer stopped: %v", err)
	}
}
