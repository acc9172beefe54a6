package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"upload-pipeline/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

const completedSubject = "File Processing Completed"

// Publisher fans out terminal events to downstream consumers.
type Publisher interface {
	PublishCompleted(ctx context.Context, n models.Notification) error
}

// SNSPublisher publishes completion notifications to one topic.
type SNSPublisher struct {
	client   *sns.Client
	topicARN string
}

func NewSNSPublisher(cfg aws.Config, topicARN string) *SNSPublisher {
	return &SNSPublisher{
		client:   sns.NewFromConfig(cfg),
		topicARN: topicARN,
	}
}

func (p *SNSPublisher) PublishCompleted(ctx context.Context, n models.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to serialize notification for %s: %w", n.FileID, err)
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Subject:  aws.String(completedSubject),
		Message:  aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification for %s: %w", n.FileID, err)
	}
	return nil
}
