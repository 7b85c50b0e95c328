package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	formstate "github.com/goliatone/go-formstate"
)

var ErrETagMismatch = errors.New("state: etag mismatch")

// Ref identifies one exported snapshot.
type Ref struct {
	Domain     string
	DocumentID string
}

// Identifier returns the canonical storage key for r.
func (r Ref) Identifier() (string, error) {
	domain := strings.TrimSpace(r.Domain)
	if domain == "" {
		return "", fmt.Errorf("state: domain is required")
	}
	document := strings.TrimSpace(r.DocumentID)
	if document == "" {
		return "", fmt.Errorf("state: document id is required for domain %q", domain)
	}
	return fmt.Sprintf("forms/%s/%s", domain, document), nil
}

// Meta is storage-owned metadata. ETag holds the content fingerprint.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads and saves one serialized snapshot per Ref.
type Store interface {
	Load(ctx context.Context, ref Ref) (snapshot *formstate.Serialized, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, snapshot *formstate.Serialized, meta Meta) (Meta, error)
}

// Source is anything that produces serialized form content: a live
// formstate.Store or a PrintSnapshot.
type Source interface {
	Serializable() *formstate.Serialized
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.SnapshotID != "" {
		out.SnapshotID = override.SnapshotID
	}
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}
