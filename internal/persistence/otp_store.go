package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrOTPNotFound is returned when no verification code exists for an email.
var ErrOTPNotFound = errors.New("verification code not found")

const otpKeyPrefix = "email_otp:"

// OTPStore keeps short-lived email verification codes in Redis. Expiry is
// delegated to the key TTL, so stale codes vanish without a cleanup job.
type OTPStore struct {
	client *redis.Client
}

// NewOTPStore builds a store over an established Redis connection.
func NewOTPStore(r *Redis) *OTPStore {
	if r == nil {
		return &OTPStore{}
	}
	return &OTPStore{client: r.Client}
}

// Put stores the code for the email, replacing any outstanding one.
func (s *OTPStore) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	if s.client == nil {
		return errors.New("redis client not configured")
	}
	return s.client.Set(ctx, otpKeyPrefix+email, code, ttl).Err()
}

// Get returns the outstanding code for the email, or ErrOTPNotFound.
func (s *OTPStore) Get(ctx context.Context, email string) (string, error) {
	if s.client == nil {
		return "", errors.New("redis client not configured")
	}
	code, err := s.client.Get(ctx, otpKeyPrefix+email).Result()
	if err == redis.Nil {
		return "", ErrOTPNotFound
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

// Delete discards the code after successful verification.
func (s *OTPStore) Delete(ctx context.Context, email string) error {
	if s.client == nil {
		return errors.New("redis client not configured")
	}
	return s.client.Del(ctx, otpKeyPrefix+email).Err()
}
