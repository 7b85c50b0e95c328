package state

import (
	"context"
	"fmt"
	"time"

	formstate "github.com/goliatone/go-formstate"
	"github.com/google/uuid"
)

// Exporter saves form content when its fingerprint changed since the last
// export and restores saved content into a fresh store.
type Exporter struct {
	Store Store
	Now   func() time.Time
}

// Export fingerprints source and saves it under ref unless the stored ETag
// already matches. meta.ETag, when set, must match the stored ETag
// (optimistic concurrency). saved reports whether a save happened.
func (e Exporter) Export(ctx context.Context, ref Ref, source Source, meta Meta) (out Meta, saved bool, err error) {
	if e.Store == nil {
		return Meta{}, false, fmt.Errorf("state: store is required")
	}
	if source == nil {
		return Meta{}, false, fmt.Errorf("state: source is required")
	}

	_, loadedMeta, ok, err := e.Store.Load(ctx, ref)
	if err != nil {
		return Meta{}, false, fmt.Errorf("state: load %q: %w", ref.DocumentID, err)
	}
	if !ok {
		loadedMeta = Meta{}
	}
	if meta.ETag != "" && loadedMeta.ETag != "" && meta.ETag != loadedMeta.ETag {
		return loadedMeta, false, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loadedMeta.ETag)
	}

	snapshot := source.Serializable()
	fingerprint := formstate.GetHash(snapshot)
	if ok && loadedMeta.ETag == fingerprint {
		return loadedMeta, false, nil
	}

	saveMeta := mergeMeta(loadedMeta, Meta{
		SnapshotID: uuid.NewString(),
		UpdatedAt:  e.now(),
		Extra:      meta.Extra,
	})
	// An emptied store fingerprints to "", which must replace the old ETag.
	saveMeta.ETag = fingerprint
	savedMeta, err := e.Store.Save(ctx, ref, snapshot, saveMeta)
	if err != nil {
		return loadedMeta, false, fmt.Errorf("state: save %q: %w", ref.DocumentID, err)
	}
	return savedMeta, true, nil
}

// Restore loads the snapshot for ref into a new store. Restored entries are
// default-origin writes, so the returned store starts unmodified.
func (e Exporter) Restore(ctx context.Context, ref Ref, opts ...formstate.Option) (*formstate.Store, Meta, error) {
	if e.Store == nil {
		return nil, Meta{}, fmt.Errorf("state: store is required")
	}
	snapshot, meta, ok, err := e.Store.Load(ctx, ref)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("state: load %q: %w", ref.DocumentID, err)
	}

	store := formstate.NewStore(opts...)
	if !ok {
		return store, Meta{}, nil
	}

	var restoreErr error
	snapshot.Range(func(key string, rec formstate.Record) bool {
		if err := store.SetValue(key, "", rec, formstate.AsDefault()); err != nil {
			restoreErr = fmt.Errorf("state: restore %q: %w", key, err)
			return false
		}
		return true
	})
	if restoreErr != nil {
		return nil, meta, restoreErr
	}
	return store, meta, nil
}

func (e Exporter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
