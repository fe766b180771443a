// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so workbooks can be
// read from a bucket and run reports can be published next to them. The
// interface is mocked in core/storage/mocks for unit tests.
//
// # Helpers
//
//   - EnsureBucket: creates the bucket on first use.
//   - PutBytes: uploads an in-memory payload.
//   - ListKeys: lists object keys under a prefix.
//   - RemoveKeys: deletes a batch of objects.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
