package config

import (
	"context"
	"fmt"
	"log"
	"os"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	godotenv "github.com/joho/godotenv"
)

type Config struct {
	AwsRegion      string
	StatusTable    string
	ArtifactBucket string
	TopicARN       string
	RabbitMqURL    string
	RabbitMqQueue  string
	APIAddr        string
}

// Load reads .env if present and validates the environment. API_ADDR is the
// only optional variable.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env")
	} else {
		log.Println("No .env found, using system environment variables")
	}

	cfg := &Config{
		AwsRegion:      os.Getenv("AWS_REGION"),
		StatusTable:    os.Getenv("STATUS_TABLE"),
		ArtifactBucket: os.Getenv("ARTIFACT_BUCKET"),
		TopicARN:       os.Getenv("TOPIC_ARN"),
		RabbitMqURL:    os.Getenv("RABBITMQ_URL"),
		RabbitMqQueue:  os.Getenv("RABBITMQ_QUEUE"),
		APIAddr:        os.Getenv("API_ADDR"),
	}
	if cfg.APIAddr == "" {
		cfg.APIAddr = ":8080"
	}

	if cfg.AwsRegion == "" || cfg.StatusTable == "" || cfg.ArtifactBucket == "" ||
		cfg.TopicARN == "" || cfg.RabbitMqURL == "" || cfg.RabbitMqQueue == "" {
		return nil, fmt.Errorf("AWS_REGION or STATUS_TABLE or ARTIFACT_BUCKET or TOPIC_ARN or RABBITMQ_URL or RABBITMQ_QUEUE is missing")
	}
	return cfg, nil
}

// InitializeAws builds the shared AWS client configuration.
func InitializeAws(ctx context.Context, region string) (awsv2.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return awsv2.Config{}, fmt.Errorf("error while initializing aws: %w", err)
	}
	return cfg, nil
}
