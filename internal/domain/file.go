package domain

import "time"

// FileRecord is the metadata row for an uploaded file. The bytes live in the
// blob store under StorageKey. Active is the only mutable field; disabling is
// a soft delete that leaves the blob in place.
type FileRecord struct {
	ID         string
	Filename   string
	StorageKey string
	Active     bool
	MinRole    *Role
	CreatedAt  time.Time
}
