package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/backsoul/quizform/pkg/models"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore guarda los exámenes en memoria del proceso con caducidad.
// Los exámenes se guardan serializados para que nadie comparta slices con la sesión.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, quiz []models.PreparedQuestion) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("error serializando examen: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)
	s.entries[sessionID] = memoryEntry{data: data, expiresAt: now.Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) ([]models.PreparedQuestion, error) {
	s.mu.Lock()
	entry, ok := s.entries[sessionID]
	if ok && !s.now().Before(entry.expiresAt) {
		delete(s.entries, sessionID)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrNotFound
	}

	var quiz []models.PreparedQuestion
	if err := json.Unmarshal(entry.data, &quiz); err != nil {
		return nil, fmt.Errorf("error deserializando examen: %w", err)
	}
	return quiz, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Len número de sesiones vivas
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(s.now())
	return len(s.entries)
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	for id, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}
