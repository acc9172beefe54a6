package pipeline

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"upload-pipeline/internal/identity"
	"upload-pipeline/internal/models"
	"upload-pipeline/internal/notify"
	"upload-pipeline/internal/storage"
	"upload-pipeline/internal/transform"
)

const (
	ResultOK    = "OK"
	ResultError = "ERROR"
)

// ArtifactStore is the slice of the object store the pipeline needs.
type ArtifactStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}

// StatusWriter appends lifecycle records.
type StatusWriter interface {
	Put(ctx context.Context, rec models.LifecycleRecord) error
}

// TransformFunc turns an original artifact into the derived one.
type TransformFunc func([]byte) ([]byte, error)

// Pipeline runs one invocation per creation event: download, resize, upload,
// commit a status row, notify. All collaborators are injected so tests can
// substitute fakes.
type Pipeline struct {
	artifacts ArtifactStore
	status    StatusWriter
	publisher notify.Publisher
	transform TransformFunc
	now       func() time.Time
}

func New(artifacts ArtifactStore, status StatusWriter, publisher notify.Publisher) *Pipeline {
	return &Pipeline{
		artifacts: artifacts,
		status:    status,
		publisher: publisher,
		transform: transform.Resize,
		now:       time.Now,
	}
}

// Process handles a single creation event. The COMPLETED status write is the
// commit point: once it lands, the invocation reports OK even if the notify
// step fails. Download, transform and upload failures write a best-effort
// ERROR row before returning.
func (p *Pipeline) Process(ctx context.Context, event models.CreationEvent) models.ProcessResult {
	if len(event.Records) == 0 {
		log.Printf("invalid event structure: no records")
		return models.ProcessResult{Status: ResultError, Message: "invalid event structure"}
	}

	rec := event.Records[0].S3
	bucket := rec.Bucket.Name
	key := decodeKey(rec.Object.Key)
	if bucket == "" || key == "" {
		log.Printf("invalid event structure: missing bucket or key")
		return models.ProcessResult{Status: ResultError, Message: "invalid event structure"}
	}

	fileID := identity.FileID(key)
	log.Printf("processing file: bucket=%s key=%s fileId=%s", bucket, key, fileID)

	original, err := p.artifacts.Download(ctx, key)
	if err != nil {
		return p.fail(ctx, fileID, fmt.Errorf("download failed: %w", err))
	}

	resized, err := p.transform(original)
	if err != nil {
		return p.fail(ctx, fileID, fmt.Errorf("transform failed: %w", err))
	}

	outKey := storage.DerivedPrefix + fileID
	if err := p.artifacts.Upload(ctx, outKey, resized, transform.OutputContentType); err != nil {
		return p.fail(ctx, fileID, fmt.Errorf("upload failed: %w", err))
	}

	if err := p.status.Put(ctx, models.NewCompleted(fileID, outKey, p.now())); err != nil {
		// Terminal: the artifact exists but no row records it. Readers see
		// UNKNOWN until a re-upload writes a fresh row.
		log.Printf("failed to write COMPLETED status for %s: %v", fileID, err)
		return models.ProcessResult{Status: ResultError, FileID: fileID, Message: err.Error()}
	}

	if err := p.publisher.PublishCompleted(ctx, models.Notification{
		FileID:    fileID,
		Status:    models.StatusCompleted,
		OutputKey: outKey,
	}); err != nil {
		// The status row already committed; a lost notification does not
		// change the outcome.
		log.Printf("failed to publish completion for %s: %v", fileID, err)
	}

	log.Printf("processing complete: fileId=%s outputKey=%s", fileID, outKey)
	return models.ProcessResult{Status: ResultOK, FileID: fileID, OutputKey: outKey}
}

// fail writes a best-effort ERROR row and reports the failure. If the write
// itself fails, the fileId is left with no row at all and readers see
// UNKNOWN.
func (p *Pipeline) fail(ctx context.Context, fileID string, cause error) models.ProcessResult {
	log.Printf("error processing %s: %v", fileID, cause)

	if err := p.status.Put(ctx, models.NewError(fileID, cause.Error(), p.now())); err != nil {
		log.Printf("failed to write ERROR status for %s: %v", fileID, err)
	}
	return models.ProcessResult{Status: ResultError, FileID: fileID, Message: cause.Error()}
}

// decodeKey undoes the percent-encoding and '+'-for-space substitution the
// storage layer applies to object keys in event payloads. A key that doesn't
// decode is used as-is.
func decodeKey(raw string) string {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}
