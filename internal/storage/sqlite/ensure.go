package sqlite

import "github.com/felixgeelhaar/wolong/internal/storage"

// Ensure SQLite stores implement the storage interfaces.
var (
	_ storage.BlobStore = (*BlobStore)(nil)
)
