// Package cache provides the session store that keeps wizard drafts and import previews
// between requests, plus the short-lived locks guarding them.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/freshcart-admin/internal/config"
	"github.com/freshcart-admin/internal/constants"

	"github.com/google/uuid"
)

// ErrLocked 会话正被其他请求占用
var ErrLocked = errors.New("session is locked")

// Store 会话存储
type Store interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// ReplaceJSON 仅在 key 仍存在时覆盖写入，返回是否写入
	ReplaceJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	Del(ctx context.Context, key string) error
	// TryLock 以 token 标识持有者加锁
	TryLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	// Unlock 仅释放 token 持有的锁
	Unlock(ctx context.Context, key, token string) error
	Ping(ctx context.Context) error
}

// NewStore 按配置选择 Redis 或进程内存储
func NewStore(cfg *config.RedisConfig) Store {
	if redisStore := NewRedisStore(cfg); redisStore != nil {
		return redisStore
	}
	return NewMemoryStore()
}

// WizardKey 向导会话 key
func WizardKey(id string) string {
	return fmt.Sprintf("%s:%s", constants.SessionKeyWizard, id)
}

// ImportPreviewKey 导入预览 key
func ImportPreviewKey(id string) string {
	return fmt.Sprintf("%s:%s", constants.SessionKeyImportPreview, id)
}

// LockKey 会话锁 key
func LockKey(sessionKey string) string {
	return fmt.Sprintf("%s:%s", constants.SessionKeyLock, sessionKey)
}

// WithLock 持锁执行 fn；锁被占用时立即返回 ErrLocked
func WithLock(ctx context.Context, store Store, sessionKey string, ttl time.Duration, fn func() error) error {
	lockKey := LockKey(sessionKey)
	token := uuid.NewString()
	acquired, err := store.TryLock(ctx, lockKey, token, ttl)
	if err != nil {
		return err
	}
	if !acquired {
		return ErrLocked
	}
	// 释放锁不受请求取消影响；锁已过期并被他人取得时不会误删
	defer func() {
		_ = store.Unlock(context.WithoutCancel(ctx), lockKey, token)
	}()
	return fn()
}
