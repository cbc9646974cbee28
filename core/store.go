package core

import "context"

// InteractionKind 是互动记录的种类。
type InteractionKind string

const (
	InteractionLike     InteractionKind = "like"
	InteractionFavorite InteractionKind = "favorite"
	InteractionComment  InteractionKind = "comment"
)

// ContentStore 是内容读取的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 引擎只读：内容的创建/更新/删除属于外部协作方
//   - 读失败原样上抛；内容缺失返回 ErrItemNotFound（调用方按软缺失处理）
type ContentStore interface {
	// FindItemByID 按 ID 读取内容；不存在时返回 ErrItemNotFound。
	FindItemByID(ctx context.Context, id int64) (*ContentItem, error)

	// FindAllItems 全量读取内容（hot / location-based / 分类召回的扫描路径）。
	FindAllItems(ctx context.Context) ([]*ContentItem, error)

	// FindItemsByAuthors 按作者集合读取内容，按创建时间降序，最多 limit 条。
	FindItemsByAuthors(ctx context.Context, authorIDs []int64, limit int) ([]*ContentItem, error)
}

// InteractionStore 是互动记录读取的领域接口。
type InteractionStore interface {
	// CountLikes / CountComments / CountFavorites 统计单个内容的互动次数。
	CountLikes(ctx context.Context, itemID int64) (int64, error)
	CountComments(ctx context.Context, itemID int64) (int64, error)
	CountFavorites(ctx context.Context, itemID int64) (int64, error)

	// FindInteractedItemIDs 返回观看者发生过某类互动的内容 ID 集合。
	FindInteractedItemIDs(ctx context.Context, viewerID int64, kind InteractionKind) ([]int64, error)

	// FindFolloweeIDs 返回观看者关注的用户 ID 集合。
	FindFolloweeIDs(ctx context.Context, viewerID int64) ([]int64, error)
}

// ViewRankedStore 是 ContentStore 的可选扩展：按浏览量降序的 TopN 索引。
// 实现方（如 Redis zset）可以让 popular 召回免于全量扫描；
// 调用方通过类型断言探测，不支持时退回扫描路径。
type ViewRankedStore interface {
	// TopByViews 按浏览量降序（同浏览量按创建时间降序）返回前 limit 条。
	TopByViews(ctx context.Context, limit int) ([]*ContentItem, error)
}

// TimeRankedStore 是 ContentStore 的可选扩展：按创建时间降序的 TopN 索引。
type TimeRankedStore interface {
	// TopByCreatedAt 按创建时间降序返回前 limit 条。
	TopByCreatedAt(ctx context.Context, limit int) ([]*ContentItem, error)
}

// Store 错误定义（使用统一的 DomainError）
var (
	// ErrItemNotFound 表示内容不存在（可能在互动发生后被删除）。
	ErrItemNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: content item not found")
)

// IsItemNotFound 检查错误是否为内容不存在。
func IsItemNotFound(err error) bool {
	if err == nil {
		return false
	}
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleStore {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}
