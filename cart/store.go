package cart

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"

	"refurb/globals"

	"github.com/redis/go-redis/v9"
)

// Store persists a cart's line items to one durable slot. Load never fails:
// a missing, unreadable, or corrupt slot comes back as an empty cart so the
// session can continue as if nothing had been saved.
type Store interface {
	Save(items []LineItem) error
	Load() []LineItem
}

// --- Redis-backed store, one slot per session ---

const redisCartTTL = 30 * 24 * time.Hour

type RedisStore struct {
	conn *redis.Client
	key  string
}

func NewRedisStore(conn *redis.Client, sessionID string) *RedisStore {
	return &RedisStore{conn: conn, key: "cart:" + sessionID}
}

func (s *RedisStore) Save(items []LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.conn.Set(globals.Ctx, s.key, data, redisCartTTL).Err()
}

func (s *RedisStore) Load() []LineItem {
	data, err := s.conn.Get(globals.Ctx, s.key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Println("cart load error:", err)
		}
		return []LineItem{}
	}
	return decodeItems(data)
}

// --- File-backed store, used when Redis is not configured ---

type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Save(items []LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

func (s *FileStore) Load() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Println("cart load error:", err)
		}
		return []LineItem{}
	}
	return decodeItems(data)
}

// --- In-memory store for tests and throwaway sessions ---

type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Save(items []LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return []LineItem{}
	}
	return decodeItems(s.data)
}

// decodeItems parses a stored slot, dropping malformed entries. A slot that
// does not parse at all is treated as absent.
func decodeItems(data []byte) []LineItem {
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		log.Println("cart slot corrupt, starting empty:", err)
		return []LineItem{}
	}
	clean := items[:0]
	for _, item := range items {
		if item.Product.ID == "" || item.Quantity < 1 {
			continue
		}
		clean = append(clean, item)
	}
	return clean
}
