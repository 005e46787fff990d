package utility

import (
	"context"
	"path"
	"sync"
	"time"
)

type cacheItem struct {
	value      string
	expiration time.Time
}

func (item *cacheItem) isExpired(now time.Time) bool {
	return !item.expiration.IsZero() && now.After(item.expiration)
}

// memoryCacheService 是 Redis 不可用时的降级实现
type memoryCacheService struct {
	data      sync.Map
	ticker    *time.Ticker
	done      chan struct{}
	closeOnce sync.Once
}

// NewMemoryCacheService 创建内存缓存，并启动每分钟一次的过期清理
func NewMemoryCacheService() CacheService {
	return newMemoryCacheService(time.Minute)
}

func newMemoryCacheService(cleanupInterval time.Duration) *memoryCacheService {
	svc := &memoryCacheService{
		ticker: time.NewTicker(cleanupInterval),
		done:   make(chan struct{}),
	}
	go svc.cleanupExpired()
	return svc
}

func (s *memoryCacheService) cleanupExpired() {
	for {
		select {
		case now := <-s.ticker.C:
			s.data.Range(func(key, value any) bool {
				if value.(*cacheItem).isExpired(now) {
					s.data.Delete(key)
				}
				return true
			})
		case <-s.done:
			return
		}
	}
}

func (s *memoryCacheService) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	item := &cacheItem{value: value}
	if expiration > 0 {
		item.expiration = time.Now().Add(expiration)
	}
	s.data.Store(key, item)
	return nil
}

func (s *memoryCacheService) Get(_ context.Context, key string) (string, error) {
	value, ok := s.data.Load(key)
	if !ok {
		return "", nil
	}
	item := value.(*cacheItem)
	if item.isExpired(time.Now()) {
		s.data.Delete(key)
		return "", nil
	}
	return item.value, nil
}

func (s *memoryCacheService) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.data.Delete(key)
	}
	return nil
}

// Scan 用 path.Match 匹配，键中不应包含 '/'
func (s *memoryCacheService) Scan(_ context.Context, pattern string) ([]string, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, err
	}
	now := time.Now()
	var keys []string
	s.data.Range(func(key, value any) bool {
		k := key.(string)
		if ok, _ := path.Match(pattern, k); ok && !value.(*cacheItem).isExpired(now) {
			keys = append(keys, k)
		}
		return true
	})
	return keys, nil
}

// Close 停止后台清理，可重复调用
func (s *memoryCacheService) Close() error {
	s.closeOnce.Do(func() {
		s.ticker.Stop()
		close(s.done)
	})
	return nil
}
