package helpers

import (
	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes the redis client used by the rate limiter and
// the best-effort session records written on login.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// KeySession is the redis key holding the last-login session record.
func KeySession(userID string) string {
	return "user:session:" + userID
}
