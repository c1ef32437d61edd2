// Package storage provides file management for the image fetcher.
//
// The storage package handles:
//   - Creating the output directory (idempotently)
//   - Tracking the content hashes accepted during one session
//   - Deriving safe filenames from a URL or the image content
//   - Writing images with a temporary file and rename
//
// A Manager is created per fetch session, so its seen-content set always
// starts empty and is never persisted.
//
// Usage:
//
//	manager, err := storage.NewManager(storage.DefaultOutputDir)
//	if err != nil {
//	    return err
//	}
//
//	hash := storage.ContentHash(body)
//	if !manager.IsDuplicate(hash) {
//	    manager.MarkSeen(hash)
//	    path, err := manager.SaveImage(body, storage.SafeFilename(url, body))
//	}
//
// Two different images whose URLs end in the same filename overwrite each
// other; deduplication only looks at content.
package storage
