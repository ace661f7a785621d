package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"AtxEngine/internal/domain/models"
	domrepo "AtxEngine/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	stateKeyPrefix = "atx:state:"
	lockKeyPrefix  = "atx:lock:"
)

// unlockScript deletes the lock only if the caller still owns it.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisStateStore persists the per-account epoch machine state as a single
// JSON document and provides the per-account writer lock.
type RedisStateStore struct {
	cli *redis.Client
}

func NewRedisStateStore(cli *redis.Client) domrepo.StateStore {
	return &RedisStateStore{cli: cli}
}

// Load returns the stored state, or a fresh one for unseen accounts.
func (s *RedisStateStore) Load(ctx context.Context, accountID string) (*models.AccountState, error) {
	b, err := s.cli.Get(ctx, stateKeyPrefix+accountID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.NewAccountState(accountID), nil
		}
		return nil, fmt.Errorf("load state: %w", err)
	}
	var st models.AccountState
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("decode state %s: %w", accountID, err)
	}
	return &st, nil
}

// Save overwrites the state document. The caller must hold the account lock.
func (s *RedisStateStore) Save(ctx context.Context, st *models.AccountState) error {
	st.Version++
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state %s: %w", st.AccountID, err)
	}
	if err := s.cli.Set(ctx, stateKeyPrefix+st.AccountID, b, 0).Err(); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Lock acquires the single-writer lock via SETNX with a TTL. The returned
// unlock func releases only if this caller still owns the lock.
func (s *RedisStateStore) Lock(ctx context.Context, accountID string, ttl time.Duration) (func(), bool, error) {
	key := lockKeyPrefix + accountID
	token := uuid.NewString()

	ok, err := s.cli.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	unlock := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = unlockScript.Run(ctx, s.cli, []string{key}, token).Err()
	}
	return unlock, true, nil
}

func (s *RedisStateStore) Health(ctx context.Context) error {
	return s.cli.Ping(ctx).Err()
}
