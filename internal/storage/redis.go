package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cafe-tab/internal/projection"

	"github.com/redis/go-redis/v9"
)

// RedisViewStore stores JSON records under view:<name>:<key> and indexes the
// keys in a set so List can fetch them with one MGET.
type RedisViewStore[V any] struct {
	Client *redis.Client
	Name   string
}

func NewRedisViewStore[V any](client *redis.Client, name string) *RedisViewStore[V] {
	return &RedisViewStore[V]{Client: client, Name: name}
}

func (s *RedisViewStore[V]) RecordKey(key string) string {
	return "view:" + s.Name + ":" + key
}

func (s *RedisViewStore[V]) IndexKey() string {
	return "view:" + s.Name + ":keys"
}

func (s *RedisViewStore[V]) Load(ctx context.Context, key string) (V, bool, error) {
	var v V
	data, err := s.Client.Get(ctx, s.RecordKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return v, false, nil
	}
	if err != nil {
		return v, false, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, fmt.Errorf("decode %s: %w", s.RecordKey(key), err)
	}
	return v, true, nil
}

func (s *RedisViewStore[V]) Save(ctx context.Context, key string, v V) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	pipe := s.Client.TxPipeline()
	pipe.Set(ctx, s.RecordKey(key), data, 0)
	pipe.SAdd(ctx, s.IndexKey(), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisViewStore[V]) List(ctx context.Context) ([]V, error) {
	keys, err := s.Client.SMembers(ctx, s.IndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}
	recordKeys := make([]string, len(keys))
	for i, k := range keys {
		recordKeys[i] = s.RecordKey(k)
	}
	values, err := s.Client.MGet(ctx, recordKeys...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]V, 0, len(values))
	for i, raw := range values {
		str, ok := raw.(string)
		if !ok {
			continue
		}
		var v V
		if err := json.Unmarshal([]byte(str), &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", recordKeys[i], err)
		}
		out = append(out, v)
	}
	return out, nil
}

func NewRedisViews(client *redis.Client) projection.Views {
	return projection.NewViews(
		NewRedisViewStore[projection.Record[projection.KitchenTab]](client, projection.KitchenViewName),
		NewRedisViewStore[projection.Record[projection.WaiterTab]](client, projection.WaiterViewName),
		NewRedisViewStore[projection.Record[projection.TabInvoice]](client, projection.TabsViewName),
	)
}
