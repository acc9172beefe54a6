package identity

import "strings"

// UploadPrefix is the namespace clients upload originals into. Keys under it
// and bare file names must resolve to the same FileID.
const UploadPrefix = "uploads/"

// FileID derives the canonical file identifier from a raw object key or query
// parameter. It strips the upload namespace if present and keeps only the
// segment after the last slash. Applying it to its own output is a no-op, so
// the ingestion path and the trigger consumer always agree on identity.
func FileID(raw string) string {
	id := strings.TrimPrefix(raw, UploadPrefix)
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	return id
}
