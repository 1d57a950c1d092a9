// Package cache decorates repositories with a redis read-through cache.
package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/user"
)

const userKeyPrefix = "user:"

// cachedUser keeps the fields json-hidden on user.User.
type cachedUser struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Role         user.Role `json:"role"`
	PasswordHash []byte    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewClient connects to redis; it returns nil when caching is disabled.
func NewClient(ctx context.Context, conf *core.Config) (*redis.Client, error) {
	if conf.Cache.RedisAddress == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Cache.RedisAddress,
		Password: conf.Cache.RedisPassword,
		DB:       conf.Cache.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return client, nil
}

// userRepository caches users looked up by ID, which every authenticated request does.
// Cache errors are logged and fall through to the wrapped repository.
type userRepository struct {
	user.Repository
	client *redis.Client
	ttl    time.Duration
	logger core.Logger
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(repo user.Repository, client *redis.Client, ttl time.Duration, logger core.Logger) *userRepository {
	return &userRepository{Repository: repo, client: client, ttl: ttl, logger: logger}
}

func userKey(id int) string {
	return userKeyPrefix + strconv.Itoa(id)
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	if filter.ID == 0 {
		return repo.Repository.GetUser(ctx, filter)
	}

	key := userKey(filter.ID)
	data, err := repo.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cu cachedUser
		if err = json.Unmarshal(data, &cu); err == nil {
			return user.User(cu), nil
		}
		repo.logger.Warn("decoding cached user "+key, err)
	case err != redis.Nil:
		repo.logger.Warn("reading cached user "+key, err)
	}

	usr, err := repo.Repository.GetUser(ctx, filter)
	if err != nil {
		return user.User{}, err
	}
	repo.set(ctx, usr)
	return usr, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr, err := repo.Repository.UpdateUser(ctx, usr)
	if err != nil {
		return user.User{}, err
	}
	if err = repo.client.Del(ctx, userKey(usr.ID)).Err(); err != nil {
		repo.logger.Error("evicting cached user "+userKey(usr.ID), err)
	}
	return usr, nil
}

func (repo *userRepository) set(ctx context.Context, usr user.User) {
	data, err := json.Marshal(cachedUser(usr))
	if err != nil {
		repo.logger.Warn("encoding user for cache", err)
		return
	}
	if err = repo.client.Set(ctx, userKey(usr.ID), data, repo.ttl).Err(); err != nil {
		repo.logger.Warn("caching user "+userKey(usr.ID), err)
	}
}
