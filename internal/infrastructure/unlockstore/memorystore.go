package unlockstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"tailorcv/internal/domain/entitlement"
	"tailorcv/internal/shared/biztime"
)

// MemoryStore is the default, process-local store. Records expire lazily on
// access; duplicate webhook deliveries overwrite with identical values, so
// writes are idempotent.
type MemoryStore struct {
	mu            sync.Mutex
	bySession     map[string]*entitlement.PurchaseRecord
	latestByEmail map[string]string
	now           func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bySession:     make(map[string]*entitlement.PurchaseRecord),
		latestByEmail: make(map[string]string),
		now:           biztime.NowUTC,
	}
}

// NewMemoryStoreWithClock injects the clock for expiry tests.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	s := NewMemoryStore()
	s.now = now
	return s
}

func (s *MemoryStore) Save(_ context.Context, record *entitlement.PurchaseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bySession[record.SessionID] = record
	if record.Email != "" {
		s.latestByEmail[record.Email] = record.SessionID
	}
	return nil
}

func (s *MemoryStore) GetBySession(_ context.Context, sessionID string) (*entitlement.PurchaseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.getLocked(sessionID), nil
}

func (s *MemoryStore) GetLatestByEmail(_ context.Context, email string) (*entitlement.PurchaseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	sessionID, ok := s.latestByEmail[email]
	if !ok {
		return nil, nil
	}

	record := s.getLocked(sessionID)
	if record == nil {
		// The session was purged; drop the dangling email mapping too.
		delete(s.latestByEmail, email)
		return nil, nil
	}
	return record, nil
}

// getLocked returns the live record for sessionID, purging it first when
// expired. Callers must hold s.mu.
func (s *MemoryStore) getLocked(sessionID string) *entitlement.PurchaseRecord {
	record, ok := s.bySession[sessionID]
	if !ok {
		return nil
	}
	if record.Expired(s.now()) {
		delete(s.bySession, sessionID)
		return nil
	}
	return record
}
