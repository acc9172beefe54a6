package models

import "time"

// Lifecycle statuses. UNKNOWN is synthesized by the read path when no record
// exists; it is never persisted.
const (
	StatusCompleted = "COMPLETED"
	StatusError     = "ERROR"
	StatusUnknown   = "UNKNOWN"
)

// RecordTTL is how long a lifecycle record stays queryable before the table's
// TTL sweep removes it.
const RecordTTL = 24 * time.Hour

// LifecycleRecord is one timestamped status row for a file. Rows are only ever
// appended; the newest timestamp for a fileId is the authoritative status.
type LifecycleRecord struct {
	FileID    string `dynamodbav:"fileId" json:"fileId"`
	Timestamp int64  `dynamodbav:"timestamp" json:"timestamp"`
	Status    string `dynamodbav:"status" json:"status"`
	OutputKey string `dynamodbav:"outputKey,omitempty" json:"outputKey,omitempty"`
	Error     string `dynamodbav:"error,omitempty" json:"error,omitempty"`
	Expiry    int64  `dynamodbav:"expiry" json:"expiry"`
}

// NewCompleted builds a COMPLETED record pointing at the derived artifact.
func NewCompleted(fileID, outputKey string, now time.Time) LifecycleRecord {
	return LifecycleRecord{
		FileID:    fileID,
		Timestamp: now.UnixMilli(),
		Status:    StatusCompleted,
		OutputKey: outputKey,
		Expiry:    now.Add(RecordTTL).Unix(),
	}
}

// NewError builds an ERROR record carrying the failure description.
func NewError(fileID, errMsg string, now time.Time) LifecycleRecord {
	return LifecycleRecord{
		FileID:    fileID,
		Timestamp: now.UnixMilli(),
		Status:    StatusError,
		Error:     errMsg,
		Expiry:    now.Add(RecordTTL).Unix(),
	}
}

// Unknown is the synthetic reader result for a fileId with no rows.
func Unknown() LifecycleRecord {
	return LifecycleRecord{Status: StatusUnknown}
}
