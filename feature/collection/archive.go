package collection

import (
	"context"
	"fmt"
	"net/url"

	"boardgame-sync/core/reconcile"
	"boardgame-sync/core/storage"
)

// SnapshotPrefix is the object storage prefix of archived snapshots.
const SnapshotPrefix = "snapshots/"

// Archive keeps the latest snapshot of every provider account in object
// storage. It implements reconcile.Archive.
type Archive struct {
	client storage.Client
	bucket string
}

// NewArchive creates an archive in the given bucket.
func NewArchive(client storage.Client, bucket string) *Archive {
	return &Archive{client: client, bucket: bucket}
}

// SnapshotName returns the object key of a provider account snapshot.
func SnapshotName(provider reconcile.Provider, account string) string {
	return SnapshotPrefix + string(provider) + "/" + url.PathEscape(account) + ".json"
}

// SaveSnapshot replaces the stored snapshot of the snapshot's account.
func (a *Archive) SaveSnapshot(ctx context.Context, snap *reconcile.Snapshot) error {
	return storage.PutJSON(ctx, a.client, a.bucket, SnapshotName(snap.Provider, snap.Account), snap)
}

// LoadSnapshot returns the stored snapshot of a provider account.
// A missing snapshot yields an error wrapping storage.ErrNotFound.
func (a *Archive) LoadSnapshot(ctx context.Context, provider reconcile.Provider, account string) (*reconcile.Snapshot, error) {
	var snap reconcile.Snapshot
	if err := storage.GetJSON(ctx, a.client, a.bucket, SnapshotName(provider, account), &snap); err != nil {
		return nil, fmt.Errorf("failed to load %s snapshot of %q: %w", provider, account, err)
	}
	return &snap, nil
}
