package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultCooldown    = time.Minute
	defaultDialTimeout = 5 * time.Second
)

// Config holds the mail cooldown store settings.
type Config struct {
	Addr        string
	DB          int
	Cooldown    time.Duration
	DialTimeout time.Duration
}

// MailThrottle allows one mail per (address, code) per cooldown window. A
// code is identified by its issuance time, so a newly issued code is never
// held back by the window of the one before it.
// Key format: mail:cooldown:<lowercased address>:<issued at, unix ms>
type MailThrottle struct {
	client   redis.Cmdable
	cooldown time.Duration
	closeFn  func() error
}

// OpenMailThrottle dials cfg.Addr and checks the server answers before
// returning. Close releases the connection.
func OpenMailThrottle(ctx context.Context, cfg Config) (*MailThrottle, error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, DB: cfg.DB})

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	t := NewMailThrottle(client, cfg.Cooldown)
	if err := t.Ping(pingCtx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("mail throttle at %s: %w", cfg.Addr, err)
	}
	t.closeFn = client.Close
	return t, nil
}

// NewMailThrottle wraps client. A non-positive cooldown falls back to one minute.
func NewMailThrottle(client redis.Cmdable, cooldown time.Duration) *MailThrottle {
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}
	return &MailThrottle{client: client, cooldown: cooldown}
}

// Allow claims the window for addr and the code issued at issuedAt. It
// reports false while a previous claim on the same pair is still live.
func (t *MailThrottle) Allow(ctx context.Context, addr string, issuedAt time.Time) (bool, error) {
	ok, err := t.client.SetNX(ctx, t.key(addr, issuedAt), "1", t.cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("mail throttle: %w", err)
	}
	return ok, nil
}

// Ping backs the readiness check.
func (t *MailThrottle) Ping(ctx context.Context) error {
	return t.client.Ping(ctx).Err()
}

func (t *MailThrottle) Close() error {
	if t.closeFn == nil {
		return nil
	}
	return t.closeFn()
}

func (t *MailThrottle) key(addr string, issuedAt time.Time) string {
	return "mail:cooldown:" + strings.ToLower(addr) + ":" + strconv.FormatInt(issuedAt.UnixMilli(), 10)
}
