package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

const (
	bookDetailPrefix = "bookshop:catalog:detail:"
	bookSlugPrefix   = "bookshop:catalog:slug:"
	bookListPattern  = "bookshop:catalog:list:*"
)

// BookCache 图书目录缓存(Cache-Aside)
// 1. 先查缓存，未命中再查数据库并回填
// 2. 写操作提交后删除缓存，而不是更新缓存(并发更新时更新缓存容易写入旧值)
// 3. 未命中返回(nil, nil),只有Redis故障才返回error
type BookCache struct {
	client    *redis.Client
	listTTL   time.Duration
	detailTTL time.Duration
}

// NewBookCache 创建图书缓存
func NewBookCache(client *redis.Client, listTTL, detailTTL time.Duration) *BookCache {
	metrics.InitMetrics()
	return &BookCache{client: client, listTTL: listTTL, detailTTL: detailTTL}
}

// GetBook 获取图书详情缓存
func (c *BookCache) GetBook(ctx context.Context, id uint) (*book.Book, error) {
	var b book.Book
	ok, err := c.getJSON(ctx, "detail", bookDetailKey(id), &b)
	if err != nil || !ok {
		return nil, err
	}
	return &b, nil
}

// SetBook 设置图书详情缓存
func (c *BookCache) SetBook(ctx context.Context, b *book.Book) error {
	return c.setJSON(ctx, bookDetailKey(b.ID), b, c.detailTTL)
}

// GetSlugID 查询Slug对应的图书ID,未命中返回0
func (c *BookCache) GetSlugID(ctx context.Context, slug string) (uint, error) {
	val, err := c.client.Get(ctx, bookSlugPrefix+slug).Result()
	if errors.Is(err, redis.Nil) {
		recordCache("slug", "miss")
		return 0, nil
	}
	if err != nil {
		recordCache("slug", "error")
		return 0, fmt.Errorf("获取缓存失败: %w", err)
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, nil
	}
	recordCache("slug", "hit")
	return uint(id), nil
}

// SetSlugID 缓存Slug到图书ID的映射
func (c *BookCache) SetSlugID(ctx context.Context, slug string, id uint) error {
	if err := c.client.Set(ctx, bookSlugPrefix+slug, id, c.detailTTL).Err(); err != nil {
		return fmt.Errorf("设置缓存失败: %w", err)
	}
	return nil
}

// GetList 获取列表缓存
func (c *BookCache) GetList(ctx context.Context, params book.ListParams) (*book.Page, error) {
	var list book.Page
	ok, err := c.getJSON(ctx, "list", bookListKey(params), &list)
	if err != nil || !ok {
		return nil, err
	}
	return &list, nil
}

// SetList 设置列表缓存
func (c *BookCache) SetList(ctx context.Context, params book.ListParams, page *book.Page) error {
	return c.setJSON(ctx, bookListKey(params), page, c.listTTL)
}

// InvalidateBooks 删除图书详情缓存和全部列表缓存
// 库存、价格变化都会影响列表内容,列表缓存只能整体删除
func (c *BookCache) InvalidateBooks(ctx context.Context, ids ...uint) error {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, bookDetailKey(id))
	}
	return c.invalidate(ctx, keys)
}

// InvalidateSlugs 删除Slug映射(改名、删除时调用)
func (c *BookCache) InvalidateSlugs(ctx context.Context, slugs ...string) error {
	if len(slugs) == 0 {
		return nil
	}
	keys := make([]string, len(slugs))
	for i, s := range slugs {
		keys[i] = bookSlugPrefix + s
	}
	if err := c.client.Unlink(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("删除缓存失败: %w", err)
	}
	return nil
}

// invalidate 删除指定key和所有列表缓存
// 使用SCAN遍历匹配的key,UNLINK异步删除不阻塞Redis
func (c *BookCache) invalidate(ctx context.Context, keys []string) error {
	iter := c.client.Scan(ctx, 0, bookListPattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("扫描缓存key失败: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Unlink(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("删除缓存失败: %w", err)
	}
	return nil
}

func (c *BookCache) getJSON(ctx context.Context, kind, key string, dest interface{}) (bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		recordCache(kind, "miss")
		return false, nil
	}
	if err != nil {
		recordCache(kind, "error")
		return false, fmt.Errorf("获取缓存失败: %w", err)
	}
	if err := json.Unmarshal(val, dest); err != nil {
		// 缓存内容损坏按未命中处理,回源后会被覆盖
		recordCache(kind, "miss")
		return false, nil
	}
	recordCache(kind, "hit")
	return true, nil
}

func (c *BookCache) setJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	val, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("序列化失败: %w", err)
	}
	if err := c.client.Set(ctx, key, val, ttl).Err(); err != nil {
		return fmt.Errorf("设置缓存失败: %w", err)
	}
	return nil
}

func recordCache(kind, result string) {
	metrics.IncCounterVec(metrics.CacheRequestsTotal, map[string]string{"kind": kind, "result": result})
}

// bookDetailKey 格式：bookshop:catalog:detail:{book_id}
func bookDetailKey(id uint) string {
	return bookDetailPrefix + strconv.FormatUint(uint64(id), 10)
}

// bookListKey 格式：bookshop:catalog:list:{page}:{pageSize}:{sort}:{seller}:{keyword}
// key包含所有查询参数,关键词放最后(可能包含冒号)
func bookListKey(p book.ListParams) string {
	return fmt.Sprintf("bookshop:catalog:list:%d:%d:%s:%d:%s", p.Page, p.PageSize, p.SortBy, p.SellerID, p.Keyword)
}
