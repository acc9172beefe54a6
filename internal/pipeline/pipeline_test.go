package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"upload-pipeline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeArtifacts struct {
	objects     map[string][]byte
	downloadErr error
	uploadErr   error
	uploads     []string
}

func newFakeArtifacts() *fakeArtifacts {
	return &fakeArtifacts{objects: map[string][]byte{}}
}

func (f *fakeArtifacts) Download(_ context.Context, key string) ([]byte, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key: " + key)
	}
	return data, nil
}

func (f *fakeArtifacts) Upload(_ context.Context, key string, data []byte, _ string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.objects[key] = data
	f.uploads = append(f.uploads, key)
	return nil
}

type fakeStatus struct {
	records []models.LifecycleRecord
	putErr  error
}

func (f *fakeStatus) Put(_ context.Context, rec models.LifecycleRecord) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeStatus) latest() models.LifecycleRecord {
	best := models.Unknown()
	for _, r := range f.records {
		if best.Status == models.StatusUnknown || r.Timestamp >= best.Timestamp {
			best = r
		}
	}
	return best
}

type fakePublisher struct {
	published []models.Notification
	err       error
}

func (f *fakePublisher) PublishCompleted(_ context.Context, n models.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, n)
	return nil
}

func event(bucket, key string) models.CreationEvent {
	return models.CreationEvent{Records: []models.EventRecord{{
		S3: models.S3Entity{
			Bucket: models.S3Bucket{Name: bucket},
			Object: models.S3Object{Key: key},
		},
	}}}
}

func newTestPipeline(a *fakeArtifacts, s *fakeStatus, pub *fakePublisher) *Pipeline {
	p := New(a, s, pub)
	p.transform = func(in []byte) ([]byte, error) {
		if string(in) == "corrupt" {
			return nil, errors.New("failed to decode image")
		}
		return append([]byte("resized:"), in...), nil
	}
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	p.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Millisecond)
	}
	return p
}

func TestProcessSuccess(t *testing.T) {
	artifacts := newFakeArtifacts()
	artifacts.objects["uploads/cat.png"] = []byte("original")
	status := &fakeStatus{}
	pub := &fakePublisher{}
	p := newTestPipeline(artifacts, status, pub)

	res := p.Process(context.Background(), event("bucket", "uploads/cat.png"))

	assert.Equal(t, ResultOK, res.Status)
	assert.Equal(t, "cat.png", res.FileID)
	assert.Equal(t, "resized/cat.png", res.OutputKey)

	assert.Equal(t, []byte("resized:original"), artifacts.objects["resized/cat.png"])

	require.Len(t, status.records, 1)
	rec := status.records[0]
	assert.Equal(t, models.StatusCompleted, rec.Status)
	assert.Equal(t, "cat.png", rec.FileID)
	assert.Equal(t, "resized/cat.png", rec.OutputKey)
	assert.Empty(t, rec.Error)
	assert.Equal(t, rec.Timestamp/1000+24*3600, rec.Expiry)

	require.Len(t, pub.published, 1)
	assert.Equal(t, models.Notification{
		FileID: "cat.png", Status: models.StatusCompleted, OutputKey: "resized/cat.png",
	}, pub.published[0])
}

func TestProcessDecodesEventKey(t *testing.T) {
	artifacts := newFakeArtifacts()
	artifacts.objects["uploads/my cat (1).png"] = []byte("original")
	status := &fakeStatus{}
	p := newTestPipeline(artifacts, status, &fakePublisher{})

	res := p.Process(context.Background(), event("bucket", "uploads/my+cat+%281%29.png"))

	assert.Equal(t, ResultOK, res.Status)
	assert.Equal(t, "my cat (1).png", res.FileID)
	assert.Contains(t, artifacts.objects, "resized/my cat (1).png")
}

func TestProcessMalformedEvent(t *testing.T) {
	status := &fakeStatus{}
	p := newTestPipeline(newFakeArtifacts(), status, &fakePublisher{})

	for _, ev := range []models.CreationEvent{
		{},
		event("", "uploads/cat.png"),
		event("bucket", ""),
	} {
		res := p.Process(context.Background(), ev)
		assert.Equal(t, ResultError, res.Status)
		assert.Empty(t, res.FileID)
	}
	// No identifier to key a record by, so nothing is written.
	assert.Empty(t, status.records)
}

func TestProcessDownloadFailure(t *testing.T) {
	artifacts := newFakeArtifacts()
	artifacts.downloadErr = errors.New("access denied")
	status := &fakeStatus{}
	p := newTestPipeline(artifacts, status, &fakePublisher{})

	res := p.Process(context.Background(), event("bucket", "uploads/cat.png"))

	assert.Equal(t, ResultError, res.Status)
	require.Len(t, status.records, 1)
	rec := status.records[0]
	assert.Equal(t, models.StatusError, rec.Status)
	assert.Contains(t, rec.Error, "download failed")
	assert.Empty(t, rec.OutputKey)
	// No derived artifact may exist after a failed download.
	assert.Empty(t, artifacts.uploads)
}

func TestProcessTransformFailure(t *testing.T) {
	artifacts := newFakeArtifacts()
	artifacts.objects["uploads/cat.png"] = []byte("corrupt")
	status := &fakeStatus{}
	p := newTestPipeline(artifacts, status, &fakePublisher{})

	res := p.Process(context.Background(), event("bucket", "uploads/cat.png"))

	assert.Equal(t, ResultError, res.Status)
	require.Len(t, status.records, 1)
	assert.Contains(t, status.records[0].Error, "transform failed")
	// Original stays untouched.
	assert.Equal(t, []byte("corrupt"), artifacts.objects["uploads/cat.png"])
	assert.Empty(t, artifacts.uploads)
}

func TestProcessUploadFailure(t *testing.T) {
	artifacts := newFakeArtifacts()
	artifacts.objects["uploads/cat.png"] = []byte("original")
	artifacts.uploadErr = errors.New("slow down")
	status := &fakeStatus{}
	p := newTestPipeline(artifacts, status, &fakePublisher{})

	res := p.Process(context.Background(), event("bucket", "uploads/cat.png"))

	assert.Equal(t, ResultError, res.Status)
	require.Len(t, status.records, 1)
	assert.Contains(t, status.records[0].Error, "upload failed")
}

func TestProcessNotifyFailureStillSucceeds(t *testing.T) {
	artifacts := newFakeArtifacts()
	artifacts.objects["uploads/cat.png"] = []byte("original")
	status := &fakeStatus{}
	pub := &fakePublisher{err: errors.New("topic gone")}
	p := newTestPipeline(artifacts, status, pub)

	res := p.Process(context.Background(), event("bucket", "uploads/cat.png"))

	// The status write is the commit point; a lost notification does not
	// demote the result.
	assert.Equal(t, ResultOK, res.Status)
	require.Len(t, status.records, 1)
	assert.Equal(t, models.StatusCompleted, status.records[0].Status)
}

func TestProcessCommitWriteFailure(t *testing.T) {
	artifacts := newFakeArtifacts()
	artifacts.objects["uploads/cat.png"] = []byte("original")
	status := &fakeStatus{putErr: errors.New("table unreachable")}
	pub := &fakePublisher{}
	p := newTestPipeline(artifacts, status, pub)

	res := p.Process(context.Background(), event("bucket", "uploads/cat.png"))

	assert.Equal(t, ResultError, res.Status)
	assert.Empty(t, status.records)
	assert.Empty(t, pub.published)
}

func TestProcessCompensationWriteFailure(t *testing.T) {
	artifacts := newFakeArtifacts()
	artifacts.downloadErr = errors.New("missing object")
	status := &fakeStatus{putErr: errors.New("table unreachable")}
	p := newTestPipeline(artifacts, status, &fakePublisher{})

	// Both the download and the compensating write fail: the invocation
	// still returns a structured error instead of panicking or retrying.
	res := p.Process(context.Background(), event("bucket", "uploads/cat.png"))
	assert.Equal(t, ResultError, res.Status)
	assert.Empty(t, status.records)
}

func TestDuplicateTriggersLatestWins(t *testing.T) {
	artifacts := newFakeArtifacts()
	artifacts.objects["uploads/cat.png"] = []byte("original")
	status := &fakeStatus{}
	p := newTestPipeline(artifacts, status, &fakePublisher{})

	first := p.Process(context.Background(), event("bucket", "uploads/cat.png"))
	second := p.Process(context.Background(), event("bucket", "uploads/cat.png"))

	assert.Equal(t, ResultOK, first.Status)
	assert.Equal(t, ResultOK, second.Status)

	require.Len(t, status.records, 2)
	assert.Greater(t, status.records[1].Timestamp, status.records[0].Timestamp)
	assert.Equal(t, status.records[1], status.latest())
	assert.Equal(t, models.StatusCompleted, status.latest().Status)
}
