package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// LoadCollection decodes the JSON array stored under key. A missing key is an
// empty collection; a value that does not decode is [ErrCorrupt].
func LoadCollection[T any](ctx context.Context, kv KV, key string) ([]T, error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return []T{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	return decodeCollection[T](key, raw)
}

// SaveCollection replaces the value under key with records as a JSON array.
func SaveCollection[T any](ctx context.Context, kv KV, key string, records []T) error {
	raw, err := encodeCollection(records)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}

	err = kv.Put(ctx, key, raw)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}

	return nil
}

// UpdateCollection loads key, hands the records to fn, and stores what fn
// returns, all under the store's write exclusion. If fn fails nothing is
// written. A corrupt stored value is reported, never overwritten.
func UpdateCollection[T any](ctx context.Context, kv KV, key string, fn func([]T) ([]T, error)) error {
	err := kv.Update(ctx, key, func(current []byte) ([]byte, error) {
		records := []T{}

		if current != nil {
			decoded, err := decodeCollection[T](key, current)
			if err != nil {
				return nil, err
			}

			records = decoded
		}

		next, err := fn(records)
		if err != nil {
			return nil, err
		}

		return encodeCollection(next)
	})
	if err != nil {
		return fmt.Errorf("update %s: %w", key, err)
	}

	return nil
}

func decodeCollection[T any](key string, raw []byte) ([]T, error) {
	records := []T{}

	if len(raw) == 0 || string(raw) == "null" {
		return records, nil
	}

	err := json.Unmarshal(raw, &records)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", key, ErrCorrupt, err)
	}

	return records, nil
}

func encodeCollection[T any](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	return raw, nil
}
