package book

import (
	"context"
)

// Service 图书领域服务
// 负责跨实体的规则:书名唯一、Slug唯一。两者都依赖仓储查询,
// 必须在写事务内调用,查询和写入之间的竞争由数据库唯一索引兜底
type Service interface {
	// EnsureTitleAvailable 书名未被其他图书占用(不区分大小写)
	EnsureTitleAvailable(ctx context.Context, title string, excludeID uint) error

	// AssignSlug 根据当前书名为b生成唯一Slug
	AssignSlug(ctx context.Context, b *Book) error
}

type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) EnsureTitleAvailable(ctx context.Context, title string, excludeID uint) error {
	exists, err := s.repo.TitleExists(ctx, title, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrTitleDuplicate
	}
	return nil
}

func (s *service) AssignSlug(ctx context.Context, b *Book) error {
	existing, err := s.repo.SlugsWithPrefix(ctx, Slugify(b.Title), b.ID)
	if err != nil {
		return err
	}
	b.Slug = UniqueSlug(b.Title, existing)
	return nil
}
