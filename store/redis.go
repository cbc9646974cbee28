package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/foodshare/feedrec/core"
)

// Redis key 约定：
//
//	item:{id}              内容 JSON
//	items:all              全部内容 ID（set）
//	items:by_views         浏览量索引（zset，score=浏览量）
//	items:by_time          时间索引（zset，score=创建时间 Unix 秒）
//	author:{id}:items      作者的内容（zset，score=创建时间 Unix 秒）
//	item:likes:{id}        点赞该内容的用户（set）
//	item:comments:{id}     评论该内容的用户（set）
//	item:favorites:{id}    收藏该内容的用户（set）
//	user:likes:{id}        用户点赞过的内容（set）
//	user:comments:{id}     用户评论过的内容（set）
//	user:favorites:{id}    用户收藏过的内容（set）
//	user:following:{id}    用户关注的用户（set）
//
// zset 的 member 是零左填充到 20 位的内容 ID：同分成员按 member 字典序排序，
// 填充后字典序等于数值序，而内容 ID 随时间单调递增，
// 于是"同浏览量按创建时间降序"的兜底排序由 ZREVRANGE 天然给出。
const (
	keyItem          = "item:%d"
	keyAllItems      = "items:all"
	keyByViews       = "items:by_views"
	keyByTime        = "items:by_time"
	keyAuthorItems   = "author:%d:items"
	keyItemLikes     = "item:likes:%d"
	keyItemComments  = "item:comments:%d"
	keyItemFavorites = "item:favorites:%d"
	keyUserLikes     = "user:likes:%d"
	keyUserComments  = "user:comments:%d"
	keyUserFavorites = "user:favorites:%d"
	keyUserFollowing = "user:following:%d"
)

func member(itemID int64) string {
	return fmt.Sprintf("%020d", itemID)
}

// RedisStore 是 Redis 实现的内容/互动存储。
// 实现 core.ContentStore、core.InteractionStore 及两个 TopN 索引扩展
// （core.ViewRankedStore / core.TimeRankedStore），让 popular / latest
// 召回免于全量扫描。
//
// 写方法（SaveItem / Record*）归内容与互动侧的协作方使用，引擎自身只读。
type RedisStore struct {
	client *redis.Client

	// sf 合并并发的全量扫描：同一时刻只有一个 FindAllItems 真正打到 Redis。
	sf singleflight.Group
}

func NewRedisStore(addr string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

// 写入侧（协作方使用）

// SaveItem 写入/覆盖内容及其全部索引。浏览量变化后需要重新 SaveItem，
// 浏览量索引的 score 才会跟上。
func (r *RedisStore) SaveItem(ctx context.Context, item *core.ContentItem) error {
	if item == nil {
		return nil
	}
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}

	m := member(item.ID)
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, fmt.Sprintf(keyItem, item.ID), data, 0)
	pipe.SAdd(ctx, keyAllItems, strconv.FormatInt(item.ID, 10))
	pipe.ZAdd(ctx, keyByViews, redis.Z{Score: float64(item.ViewCount), Member: m})
	pipe.ZAdd(ctx, keyByTime, redis.Z{Score: float64(item.CreatedAt.Unix()), Member: m})
	pipe.ZAdd(ctx, fmt.Sprintf(keyAuthorItems, item.AuthorID),
		redis.Z{Score: float64(item.CreatedAt.Unix()), Member: m})
	_, err = pipe.Exec(ctx)
	return err
}

// RemoveItem 删除内容与其索引；互动集合保留（软缺失场景由读路径跳过）。
func (r *RedisStore) RemoveItem(ctx context.Context, item *core.ContentItem) error {
	if item == nil {
		return nil
	}
	m := member(item.ID)
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, fmt.Sprintf(keyItem, item.ID))
	pipe.SRem(ctx, keyAllItems, strconv.FormatInt(item.ID, 10))
	pipe.ZRem(ctx, keyByViews, m)
	pipe.ZRem(ctx, keyByTime, m)
	pipe.ZRem(ctx, fmt.Sprintf(keyAuthorItems, item.AuthorID), m)
	_, err := pipe.Exec(ctx)
	return err
}

// RecordInteraction 记录一条互动，正反两个方向的集合同时写。
func (r *RedisStore) RecordInteraction(ctx context.Context, kind core.InteractionKind, viewerID, itemID int64) error {
	var itemKey, userKey string
	switch kind {
	case core.InteractionLike:
		itemKey, userKey = keyItemLikes, keyUserLikes
	case core.InteractionFavorite:
		itemKey, userKey = keyItemFavorites, keyUserFavorites
	case core.InteractionComment:
		itemKey, userKey = keyItemComments, keyUserComments
	default:
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
			"store: unknown interaction kind")
	}

	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, fmt.Sprintf(itemKey, itemID), strconv.FormatInt(viewerID, 10))
	pipe.SAdd(ctx, fmt.Sprintf(userKey, viewerID), strconv.FormatInt(itemID, 10))
	_, err := pipe.Exec(ctx)
	return err
}

// RecordFollow 记录一条关注边 follower → followee。
func (r *RedisStore) RecordFollow(ctx context.Context, followerID, followeeID int64) error {
	return r.client.SAdd(ctx,
		fmt.Sprintf(keyUserFollowing, followerID),
		strconv.FormatInt(followeeID, 10)).Err()
}

// core.ContentStore

func (r *RedisStore) FindItemByID(ctx context.Context, id int64) (*core.ContentItem, error) {
	data, err := r.client.Get(ctx, fmt.Sprintf(keyItem, id)).Bytes()
	if err == redis.Nil {
		return nil, core.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	var item core.ContentItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *RedisStore) FindAllItems(ctx context.Context) ([]*core.ContentItem, error) {
	v, err, _ := r.sf.Do("find_all_items", func() (any, error) {
		members, err := r.client.SMembers(ctx, keyAllItems).Result()
		if err != nil {
			return nil, err
		}
		ids := make([]int64, 0, len(members))
		for _, m := range members {
			if id, err := strconv.ParseInt(m, 10, 64); err == nil {
				ids = append(ids, id)
			}
		}
		// 自然顺序 = ID 升序（ID 随时间单调递增）
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		return r.fetchItems(ctx, ids)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*core.ContentItem), nil
}

func (r *RedisStore) FindItemsByAuthors(ctx context.Context, authorIDs []int64, limit int) ([]*core.ContentItem, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}

	type timed struct {
		id    int64
		score float64
	}
	var all []timed
	for _, authorID := range authorIDs {
		zs, err := r.client.ZRevRangeWithScores(ctx,
			fmt.Sprintf(keyAuthorItems, authorID), 0, int64(limit)-1).Result()
		if err != nil {
			return nil, err
		}
		for _, z := range zs {
			m, _ := z.Member.(string)
			id, err := strconv.ParseInt(m, 10, 64)
			if err != nil {
				continue
			}
			all = append(all, timed{id: id, score: z.Score})
		}
	}

	// 跨作者按创建时间降序归并；同秒按 ID 降序（新内容 ID 更大）
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].id > all[j].id
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	ids := make([]int64, 0, len(all))
	for _, t := range all {
		ids = append(ids, t.id)
	}
	return r.fetchItems(ctx, ids)
}

// core.ViewRankedStore / core.TimeRankedStore

func (r *RedisStore) TopByViews(ctx context.Context, limit int) ([]*core.ContentItem, error) {
	return r.topOf(ctx, keyByViews, limit)
}

func (r *RedisStore) TopByCreatedAt(ctx context.Context, limit int) ([]*core.ContentItem, error) {
	return r.topOf(ctx, keyByTime, limit)
}

func (r *RedisStore) topOf(ctx context.Context, key string, limit int) ([]*core.ContentItem, error) {
	if limit <= 0 {
		return nil, nil
	}
	members, err := r.client.ZRevRange(ctx, key, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		if id, err := strconv.ParseInt(m, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return r.fetchItems(ctx, ids)
}

// fetchItems 按给定顺序批量读取内容，缺失的条目跳过（软缺失）。
func (r *RedisStore) fetchItems(ctx context.Context, ids []int64) ([]*core.ContentItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = fmt.Sprintf(keyItem, id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*core.ContentItem, 0, len(ids))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var item core.ContentItem
		if err := json.Unmarshal([]byte(s), &item); err != nil {
			continue
		}
		out = append(out, &item)
	}
	return out, nil
}

// core.InteractionStore

func (r *RedisStore) CountLikes(ctx context.Context, itemID int64) (int64, error) {
	return r.client.SCard(ctx, fmt.Sprintf(keyItemLikes, itemID)).Result()
}

func (r *RedisStore) CountComments(ctx context.Context, itemID int64) (int64, error) {
	return r.client.SCard(ctx, fmt.Sprintf(keyItemComments, itemID)).Result()
}

func (r *RedisStore) CountFavorites(ctx context.Context, itemID int64) (int64, error) {
	return r.client.SCard(ctx, fmt.Sprintf(keyItemFavorites, itemID)).Result()
}

func (r *RedisStore) FindInteractedItemIDs(ctx context.Context, viewerID int64, kind core.InteractionKind) ([]int64, error) {
	var key string
	switch kind {
	case core.InteractionLike:
		key = keyUserLikes
	case core.InteractionFavorite:
		key = keyUserFavorites
	case core.InteractionComment:
		key = keyUserComments
	default:
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
			"store: unknown interaction kind")
	}
	return r.smembersInt64(ctx, fmt.Sprintf(key, viewerID))
}

func (r *RedisStore) FindFolloweeIDs(ctx context.Context, viewerID int64) ([]int64, error) {
	return r.smembersInt64(ctx, fmt.Sprintf(keyUserFollowing, viewerID))
}

func (r *RedisStore) smembersInt64(ctx context.Context, key string) ([]int64, error) {
	members, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		if id, err := strconv.ParseInt(m, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

var (
	_ core.ContentStore     = (*RedisStore)(nil)
	_ core.InteractionStore = (*RedisStore)(nil)
	_ core.ViewRankedStore  = (*RedisStore)(nil)
	_ core.TimeRankedStore  = (*RedisStore)(nil)
)
