package natsstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IlyaRozhok/TaDa-sub005/internal/prefstore"
	"github.com/gosimple/slug"
	"github.com/nats-io/nats.go/jetstream"
)

const bucketName = "tada_drafts"

// ErrNotFound is returned when no draft exists for a user.
var ErrNotFound = errors.New("draft not found")

// Record is a stored preference draft for one user.
type Record struct {
	Fields    prefstore.Draft `json:"fields"`
	Revision  string          `json:"revision"`
	Submitted bool            `json:"submitted"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// DraftStore persists preference drafts in a JetStream key-value bucket,
// one entry per user.
type DraftStore struct {
	kv jetstream.KeyValue
}

// NewDraftStore creates or binds the draft bucket.
func NewDraftStore(ctx context.Context, js jetstream.JetStream) (*DraftStore, error) {
	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  bucketName,
		Storage: jetstream.FileStorage,
	})
	if err != nil {
		return nil, fmt.Errorf("creating draft bucket: %w", err)
	}
	return &DraftStore{kv: kv}, nil
}

// keyForUser normalizes a user identifier into a valid KV key.
func keyForUser(user string) string {
	return slug.Make(user)
}

// Get returns the stored draft for a user, or ErrNotFound.
func (s *DraftStore) Get(ctx context.Context, user string) (*Record, error) {
	entry, err := s.kv.Get(ctx, keyForUser(user))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading draft: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(entry.Value(), &rec); err != nil {
		return nil, fmt.Errorf("decoding draft: %w", err)
	}
	return &rec, nil
}

// Put stores a draft for a user, stamping UpdatedAt.
func (s *DraftStore) Put(ctx context.Context, user string, rec Record) error {
	rec.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}
	if _, err := s.kv.Put(ctx, keyForUser(user), data); err != nil {
		return fmt.Errorf("writing draft: %w", err)
	}
	return nil
}

// Delete removes a user's draft. Deleting a missing draft is not an error.
func (s *DraftStore) Delete(ctx context.Context, user string) error {
	if err := s.kv.Delete(ctx, keyForUser(user)); err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("deleting draft: %w", err)
	}
	return nil
}
