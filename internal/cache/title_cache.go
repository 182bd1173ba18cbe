// Package cache holds the optional redis read cache for title payloads.
// Ratings are computed per read, so title reads are the expensive path;
// every feedback or catalog write invalidates the affected entries.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"reviewhub/internal/dto"
)

type TitleCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New returns a cache over rdb. A nil client yields a disabled cache whose
// methods are all no-ops, so callers never branch on configuration.
func New(rdb *redis.Client, ttl time.Duration) *TitleCache {
	return &TitleCache{rdb: rdb, ttl: ttl}
}

func (c *TitleCache) enabled() bool {
	return c != nil && c.rdb != nil
}

func (c *TitleCache) GetTitle(ctx context.Context, id int64) (*dto.TitleResponse, bool) {
	if !c.enabled() {
		return nil, false
	}

	version, ok := c.version(ctx, detailVersionKey)
	if !ok {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, titleKey(version, id)).Bytes()
	if err != nil {
		return nil, false
	}

	var resp dto.TitleResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (c *TitleCache) SetTitle(ctx context.Context, id int64, resp *dto.TitleResponse) {
	if !c.enabled() {
		return
	}
	version, ok := c.version(ctx, detailVersionKey)
	if !ok {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, titleKey(version, id), raw, c.ttl)
}

func (c *TitleCache) GetList(ctx context.Context, key string) (*dto.Paginated[dto.TitleResponse], bool) {
	if !c.enabled() {
		return nil, false
	}

	version, ok := c.version(ctx, listVersionKey)
	if !ok {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, listKey(version, key)).Bytes()
	if err != nil {
		return nil, false
	}

	var resp dto.Paginated[dto.TitleResponse]
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (c *TitleCache) SetList(ctx context.Context, key string, resp *dto.Paginated[dto.TitleResponse]) {
	if !c.enabled() {
		return
	}

	version, ok := c.version(ctx, listVersionKey)
	if !ok {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, listKey(version, key), raw, c.ttl)
}

// InvalidateTitle drops the detail entry and expires every list entry by
// bumping the list version. Orphaned list payloads fall out via TTL.
func (c *TitleCache) InvalidateTitle(ctx context.Context, id int64) {
	if !c.enabled() {
		return
	}
	if version, ok := c.version(ctx, detailVersionKey); ok {
		c.rdb.Del(ctx, titleKey(version, id))
	}
	c.rdb.Incr(ctx, listVersionKey)
}

// InvalidateLists expires the listing entries only, for writes that cannot
// change any cached detail payload (title creation).
func (c *TitleCache) InvalidateLists(ctx context.Context) {
	if !c.enabled() {
		return
	}
	c.rdb.Incr(ctx, listVersionKey)
}

// InvalidateAll expires details and listings alike. Used when the set of
// affected titles is unknown: category or genre removal detaches every
// associated title, and deleting a user cascades their reviews.
func (c *TitleCache) InvalidateAll(ctx context.Context) {
	if !c.enabled() {
		return
	}
	c.rdb.Incr(ctx, detailVersionKey)
	c.rdb.Incr(ctx, listVersionKey)
}

// Entries carry a version in their key; bumping the counter expires a whole
// generation at once and the stale payloads fall out via TTL.
const (
	listVersionKey   = "titles:list:version"
	detailVersionKey = "titles:detail:version"
)

func (c *TitleCache) version(ctx context.Context, counterKey string) (int64, bool) {
	v, err := c.rdb.Get(ctx, counterKey).Int64()
	if err == redis.Nil {
		c.rdb.Set(ctx, counterKey, 0, 0)
		return 0, true
	}
	if err != nil {
		return 0, false
	}
	return v, true
}

func titleKey(version, id int64) string {
	return fmt.Sprintf("titles:v%d:title:%d", version, id)
}

func listKey(version int64, key string) string {
	return fmt.Sprintf("titles:v%d:%s", version, key)
}
