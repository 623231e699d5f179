package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/homebase-finder/internal/kv"
)

// decodeList parses a JSON array.  Missing or corrupt data yields an
// empty list so one bad write never locks users out of the app.
func decodeList[T any](raw []byte) []T {
	if len(raw) == 0 {
		return []T{}
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []T{}
	}
	return out
}

// readList loads the collection stored under key.
func readList[T any](ctx context.Context, store kv.Store, key string) ([]T, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeList[T](raw), nil
}

// updateList applies fn to the collection under key inside a single
// atomic kv update.  An error from fn aborts without writing.
func updateList[T any](ctx context.Context, store kv.Store, key string, fn func([]T) ([]T, error)) error {
	return store.Update(ctx, key, func(cur []byte) ([]byte, error) {
		next, err := fn(decodeList[T](cur))
		if err != nil {
			return nil, err
		}
		if next == nil {
			next = []T{}
		}
		b, err := json.Marshal(next)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		return b, nil
	})
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// genID returns prefix + base36(unix ms) + "-" + 7 random base36 chars,
// the identifier shape used by earlier exported data.
func genID(prefix string, now time.Time) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 36))
	b.WriteByte('-')
	for i := 0; i < 7; i++ {
		b.WriteByte(idAlphabet[rand.Intn(len(idAlphabet))])
	}
	return b.String()
}
