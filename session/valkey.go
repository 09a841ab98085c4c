package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	valkey "github.com/valkey-io/valkey-go"
)

// ValkeyStore keeps active sessions in Valkey so revocation takes effect
// across every instance immediately. Keys expire with the session.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore connects to addr (e.g. "127.0.0.1:6379"). prefix namespaces
// keys and defaults to "patentvault:".
func NewValkeyStore(addr, prefix string) (*ValkeyStore, error) {
	if addr == "" {
		return nil, fmt.Errorf("valkey address is required")
	}
	cli, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	if err != nil {
		return nil, fmt.Errorf("connect valkey: %w", err)
	}
	if prefix == "" {
		prefix = "patentvault:"
	}
	return &ValkeyStore{client: cli, prefix: prefix}, nil
}

func (s *ValkeyStore) key(id string) string { return s.prefix + "session:" + id }

func (s *ValkeyStore) Put(ctx context.Context, rec Record) error {
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Do(ctx,
		s.client.B().Set().Key(s.key(rec.ID)).Value(string(b)).Ex(ttl).Build(),
	).Error()
}

func (s *ValkeyStore) Get(ctx context.Context, id string) (*Record, error) {
	resp := s.client.Do(ctx, s.client.B().Get().Key(s.key(id)).Build())
	if err := resp.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	raw, err := resp.AsBytes()
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *ValkeyStore) Revoke(ctx context.Context, id string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.key(id)).Build()).Error()
}

// Close releases the underlying client.
func (s *ValkeyStore) Close() {
	s.client.Close()
}
