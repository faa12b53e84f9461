package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryStore 进程内会话存储（未启用 Redis 时使用，单实例部署）
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	now   func() time.Time
}

// NewMemoryStore 创建进程内存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

// GetJSON 获取 JSON 缓存
func (s *MemoryStore) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	s.mu.Lock()
	entry, ok := s.lookup(key)
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 写入 JSON 缓存
func (s *MemoryStore) SetJSON(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[strings.TrimSpace(key)] = memoryEntry{payload: payload, expiresAt: s.expiry(ttl)}
	return nil
}

// ReplaceJSON 仅在 key 仍存在时覆盖写入
func (s *MemoryStore) ReplaceJSON(_ context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lookup(key); !ok {
		return false, nil
	}
	s.items[strings.TrimSpace(key)] = memoryEntry{payload: payload, expiresAt: s.expiry(ttl)}
	return true, nil
}

// Del 删除缓存
func (s *MemoryStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, strings.TrimSpace(key))
	return nil
}

// TryLock 加锁，已被占用且未过期时返回 false
func (s *MemoryStore) TryLock(_ context.Context, key, token string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lookup(key); ok {
		return false, nil
	}
	s.items[strings.TrimSpace(key)] = memoryEntry{payload: []byte(token), expiresAt: s.expiry(ttl)}
	return true, nil
}

// Unlock 释放锁，token 不匹配时不做任何事
func (s *MemoryStore) Unlock(_ context.Context, key, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.lookup(key)
	if !ok || string(entry.payload) != token {
		return nil
	}
	delete(s.items, strings.TrimSpace(key))
	return nil
}

// Ping 健康检查
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// lookup 调用方需持有锁；过期项顺带清理
func (s *MemoryStore) lookup(key string) (memoryEntry, bool) {
	key = strings.TrimSpace(key)
	entry, ok := s.items[key]
	if !ok {
		return memoryEntry{}, false
	}
	if entry.expired(s.now()) {
		delete(s.items, key)
		return memoryEntry{}, false
	}
	return entry, true
}

func (s *MemoryStore) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(ttl)
}
