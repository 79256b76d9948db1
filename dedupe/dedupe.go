// Package dedupe flags re-uploads of a PDF that was already converted.
// The check is advisory: a hit only annotates the response, it never
// blocks the conversion, and bloom false positives are acceptable.
package dedupe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultKey       = "pdfcon:uploads:bloom"
	defaultTTL       = 30 * 24 * time.Hour
	defaultCapacity  = 100000
	defaultErrorRate = 0.001
	opTimeout        = 5 * time.Second
)

// Checker reports whether a PDF was seen before and records new uploads.
type Checker interface {
	Seen(ctx context.Context, pdf []byte) (bool, error)
	Record(ctx context.Context, pdf []byte) error
}

// RedisBloom backs Checker with a RedisBloom filter keyed by the
// SHA-256 of the raw PDF bytes.
type RedisBloom struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisBloom connects to redis and reserves the bloom filter if the
// key does not exist yet. BF.RESERVE failure is non-fatal since BF.ADD
// auto-creates the filter on most RedisBloom setups.
func NewRedisBloom(addr, password string) (*RedisBloom, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}

	rb := &RedisBloom{client: client, key: defaultKey, ttl: defaultTTL}

	exists, err := client.Exists(ctx, defaultKey).Result()
	if err == nil && exists == 0 {
		err := client.Do(ctx, "BF.RESERVE", defaultKey,
			fmt.Sprintf("%f", defaultErrorRate), defaultCapacity).Err()
		if err != nil {
			log.Printf("[Dedupe] BF.RESERVE failed (continuing): %v", err)
		}
	}

	log.Printf("[Dedupe] redis bloom filter ready at %s", addr)
	return rb, nil
}

// Close closes the underlying redis client.
func (r *RedisBloom) Close() error {
	return r.client.Close()
}

// Seen checks the filter for the PDF's hash.
func (r *RedisBloom) Seen(ctx context.Context, pdf []byte) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.client.Do(ctx, "BF.EXISTS", r.key, Hash(pdf)).Result()
	if err != nil {
		return false, err
	}

	switch v := res.(type) {
	case int64:
		return v == 1, nil
	case string:
		return v == "1", nil
	default:
		return false, fmt.Errorf("unexpected BF.EXISTS response type %T: %v", res, res)
	}
}

// Record adds the PDF's hash to the filter. The TTL is reset on every
// add so the filter stays alive while uploads keep arriving.
func (r *RedisBloom) Record(ctx context.Context, pdf []byte) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := r.client.Do(ctx, "BF.ADD", r.key, Hash(pdf)).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, r.key, r.ttl).Err()
}

// Hash returns the hex SHA-256 of the PDF bytes.
func Hash(pdf []byte) string {
	h := sha256.Sum256(pdf)
	return hex.EncodeToString(h[:])
}
