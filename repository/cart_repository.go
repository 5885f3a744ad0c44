package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"food-shop/models"

	"github.com/redis/go-redis/v9"
)

// CartRepository defines the cart store access contract. Absent lines are
// reported as (nil, nil), not as errors; callers decide what missing means.
type CartRepository interface {
	GetLine(ctx context.Context, userID, productID, sizeID uint) (*models.CartLine, error)
	SaveLine(ctx context.Context, userID uint, line models.CartLine) error
	GetAllLines(ctx context.Context, userID uint) ([]models.CartLine, error)
	DeleteLine(ctx context.Context, userID, productID, sizeID uint) (bool, error)
	DeleteCart(ctx context.Context, userID uint) (bool, error)
	LineCount(ctx context.Context, userID uint) (int64, error)
	ExpireCart(ctx context.Context, userID uint) error
}

// RedisCartRepository implements CartRepository on a per-user redis hash.
// Individual field writes are atomic; read-modify-write sequences are not.
type RedisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartRepository(client *redis.Client, ttl time.Duration) *RedisCartRepository {
	return &RedisCartRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisCartRepository) cartKey(userID uint) string {
	return fmt.Sprintf("cart:%d", userID)
}

func (r *RedisCartRepository) lineField(productID, sizeID uint) string {
	return fmt.Sprintf("%d:%d", productID, sizeID)
}

func (r *RedisCartRepository) GetLine(ctx context.Context, userID, productID, sizeID uint) (*models.CartLine, error) {
	data, err := r.client.HGet(ctx, r.cartKey(userID), r.lineField(productID, sizeID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var line models.CartLine
	if err := json.Unmarshal([]byte(data), &line); err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *RedisCartRepository) SaveLine(ctx context.Context, userID uint, line models.CartLine) error {
	data, err := json.Marshal(line)
	if err != nil {
		return err
	}
	return r.client.HSet(ctx, r.cartKey(userID), r.lineField(line.ProductID, line.SizeID), data).Err()
}

func (r *RedisCartRepository) GetAllLines(ctx context.Context, userID uint) ([]models.CartLine, error) {
	raw, err := r.client.HGetAll(ctx, r.cartKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	lines := make([]models.CartLine, 0, len(raw))
	for _, data := range raw {
		var line models.CartLine
		if err := json.Unmarshal([]byte(data), &line); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (r *RedisCartRepository) DeleteLine(ctx context.Context, userID, productID, sizeID uint) (bool, error) {
	removed, err := r.client.HDel(ctx, r.cartKey(userID), r.lineField(productID, sizeID)).Result()
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}

func (r *RedisCartRepository) DeleteCart(ctx context.Context, userID uint) (bool, error) {
	deleted, err := r.client.Del(ctx, r.cartKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}

func (r *RedisCartRepository) LineCount(ctx context.Context, userID uint) (int64, error) {
	return r.client.HLen(ctx, r.cartKey(userID)).Result()
}

// ExpireCart sets the retention window. Called once, when the first line is
// created; the TTL is not renewed on later mutations.
func (r *RedisCartRepository) ExpireCart(ctx context.Context, userID uint) error {
	return r.client.Expire(ctx, r.cartKey(userID), r.ttl).Err()
}
