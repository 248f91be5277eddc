// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for common operations
// like checking bucket existence, uploading files, and listing objects. This abstraction
// supports both AWS S3 and self-hosted MinIO instances.
//
// The application keeps two kinds of objects in its bucket: matcher audit
// records under "audit/" and collection snapshots under "snapshots/".
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - MakeBucket: Creates a new bucket if needed.
//   - PutObject: Uploads content (with size and options).
//   - GetObject: Retrieves content as a stream.
//   - ListObjects: Lists objects in a bucket (supports prefix/recursive).
//   - RemoveObject: Deletes one object.
//
// PutJSON and GetJSON store and load JSON documents on top of a Client.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	err = storage.PutJSON(ctx, client, config.Bucket, "snapshots/source_a/alice.json", snap)
package storage
