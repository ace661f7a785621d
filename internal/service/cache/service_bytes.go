package cache

import (
	"context"
	"errors"
	"time"

	pkgcache "AtxEngine/pkg/cache"
)

// ServiceBytes adapts a pkg/cache Service (redis or layered) to BytesCache.
// Response bodies are stored as strings so the JSON survives the round trip
// unmodified.
type ServiceBytes struct {
	svc pkgcache.Service
}

func NewServiceBytes(svc pkgcache.Service) *ServiceBytes {
	return &ServiceBytes{svc: svc}
}

func (s *ServiceBytes) GetBytes(key string) ([]byte, bool, error) {
	var body string
	err := s.svc.Get(context.Background(), key, &body)
	if err != nil {
		if errors.Is(err, pkgcache.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(body), true, nil
}

func (s *ServiceBytes) SetBytes(key string, value []byte, ttl time.Duration) error {
	return s.svc.Set(context.Background(), key, string(value), ttl)
}

var _ BytesCache = (*ServiceBytes)(nil)
