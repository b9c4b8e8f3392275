package cache

import (
	"fmt"
	"time"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

const ReactionCountsTTL = 30 * time.Second

// FeedCache caches per-post reaction counts. React/unreact invalidate the
// entry so the confirmed count returned to the optimistic client is always
// a fresh aggregate.
type FeedCache struct {
	redis *RedisCache
}

func NewFeedCache(redis *RedisCache) *FeedCache {
	return &FeedCache{redis: redis}
}

func countsKey(postID uint) string {
	return fmt.Sprintf("reactions:%d", postID)
}

func (fc *FeedCache) GetCounts(postID uint) (models.ReactionCounts, bool) {
	if fc == nil || fc.redis == nil {
		return models.ReactionCounts{}, false
	}
	data, err := fc.redis.Get(countsKey(postID))
	if err != nil || data == nil {
		return models.ReactionCounts{}, false
	}
	var counts models.ReactionCounts
	if err := msgpack.Unmarshal(data, &counts); err != nil {
		return models.ReactionCounts{}, false
	}
	return counts, true
}

func (fc *FeedCache) SetCounts(postID uint, counts models.ReactionCounts) error {
	if fc == nil || fc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(counts)
	if err != nil {
		return err
	}
	return fc.redis.Set(countsKey(postID), data, ReactionCountsTTL)
}

func (fc *FeedCache) InvalidateCounts(postID uint) error {
	if fc == nil || fc.redis == nil {
		return nil
	}
	return fc.redis.Delete(countsKey(postID))
}
