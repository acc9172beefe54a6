package models

// CreationEvent is the bucket-notification payload delivered to the worker
// queue when an object lands in the bucket. Only the bucket name and object
// key are consumed; keys arrive percent-encoded with '+' for spaces.
type CreationEvent struct {
	Records []EventRecord `json:"Records"`
}

type EventRecord struct {
	S3 S3Entity `json:"s3"`
}

type S3Entity struct {
	Bucket S3Bucket `json:"bucket"`
	Object S3Object `json:"object"`
}

type S3Bucket struct {
	Name string `json:"name"`
}

type S3Object struct {
	Key  string `json:"key"`
	Size int64  `json:"size,omitempty"`
}

// ProcessResult is what one pipeline invocation reports back to its trigger
// source.
type ProcessResult struct {
	Status    string `json:"status"` // "OK" or "ERROR"
	FileID    string `json:"fileId,omitempty"`
	OutputKey string `json:"outputKey,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Notification is the payload published to the completion topic.
type Notification struct {
	FileID    string `json:"fileId"`
	Status    string `json:"status"`
	OutputKey string `json:"outputKey"`
}
