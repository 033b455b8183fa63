package eos

import (
	"context"
	"encoding/json"
)

// apiCacheGet returns the cached eAPI response for key, calling fetch
// on first use. The cache lock is held across the fetch, so concurrent
// executors wanting the same key wait for a single RPC instead of each
// issuing their own. Fetch errors are returned without being cached.
func (d *DUT) apiCacheGet(ctx context.Context, key string, fetch func(context.Context) ([]json.RawMessage, error)) ([]json.RawMessage, error) {
	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()

	if raw, ok := d.cache[key]; ok {
		return raw, nil
	}
	raw, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	d.cache[key] = raw
	return raw, nil
}

// apiCacheGetOne fetches and caches a single CLI command, keyed by the
// command itself.
func (d *DUT) apiCacheGetOne(ctx context.Context, command string) (json.RawMessage, error) {
	raw, err := d.apiCacheGet(ctx, command, func(ctx context.Context) ([]json.RawMessage, error) {
		return d.Client.Run(ctx, []string{command})
	})
	if err != nil {
		return nil, err
	}
	return raw[0], nil
}

// CacheClear drops all cached responses, forcing the next run to
// re-fetch device state.
func (d *DUT) CacheClear() {
	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()
	d.cache = make(map[string][]json.RawMessage)
}
