package cache

import (
	"fmt"
	"time"

	"github.com/kbrian1237/cemmaBlog-sub002/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	// Conversation pages are cached briefly; sends invalidate eagerly so a
	// poll after a send always sees fresh rows.
	ConversationTTL = 2 * time.Minute
	ConvListTTL     = 1 * time.Minute
)

// MessageCache caches the initial conversation window per pair/group. The
// poll read path (fetch-since) never goes through the cache: cursor reads
// must reflect the store exactly.
//
// All methods are nil-safe; a nil cache (Redis unavailable) degrades to
// direct reads.
type MessageCache struct {
	redis *RedisCache
}

func NewMessageCache(redis *RedisCache) *MessageCache {
	return &MessageCache{redis: redis}
}

// pairKey is order-independent: the conversation between A and B has one
// cache entry regardless of who asks.
func pairKey(userID1, userID2 uint) string {
	if userID1 > userID2 {
		userID1, userID2 = userID2, userID1
	}
	return fmt.Sprintf("conv:%d:%d", userID1, userID2)
}

func groupKey(groupID uint) string {
	return fmt.Sprintf("groupconv:%d", groupID)
}

func (mc *MessageCache) GetConversation(userID1, userID2 uint) ([]models.Message, bool) {
	if mc == nil || mc.redis == nil {
		return nil, false
	}
	data, err := mc.redis.Get(pairKey(userID1, userID2))
	if err != nil || data == nil {
		return nil, false
	}
	var messages []models.Message
	if err := msgpack.Unmarshal(data, &messages); err != nil {
		return nil, false
	}
	return messages, true
}

func (mc *MessageCache) SetConversation(userID1, userID2 uint, messages []models.Message) error {
	if mc == nil || mc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(messages)
	if err != nil {
		return err
	}
	return mc.redis.Set(pairKey(userID1, userID2), data, ConversationTTL)
}

func (mc *MessageCache) InvalidateConversation(userID1, userID2 uint) error {
	if mc == nil || mc.redis == nil {
		return nil
	}
	return mc.redis.Delete(pairKey(userID1, userID2))
}

func (mc *MessageCache) GetGroupConversation(groupID uint) ([]models.Message, bool) {
	if mc == nil || mc.redis == nil {
		return nil, false
	}
	data, err := mc.redis.Get(groupKey(groupID))
	if err != nil || data == nil {
		return nil, false
	}
	var messages []models.Message
	if err := msgpack.Unmarshal(data, &messages); err != nil {
		return nil, false
	}
	return messages, true
}

func (mc *MessageCache) SetGroupConversation(groupID uint, messages []models.Message) error {
	if mc == nil || mc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(messages)
	if err != nil {
		return err
	}
	return mc.redis.Set(groupKey(groupID), data, ConversationTTL)
}

func (mc *MessageCache) InvalidateGroupConversation(groupID uint) error {
	if mc == nil || mc.redis == nil {
		return nil
	}
	return mc.redis.Delete(groupKey(groupID))
}
