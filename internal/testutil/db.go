// Package testutil 测试辅助:基于SQLite内存库的真实gorm仓储
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/gormstore"
)

var dbSeq atomic.Int64

// NewDB 创建一个独立的内存数据库并完成迁移和用户组初始化
// 每个测试一个库名,互不干扰;连接数限制为1,同一内存库只能被一个连接看到,
// 并发测试里的请求也因此串行执行
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:bookshop_test_%d?mode=memory&cache=shared&_fk=1", dbSeq.Add(1))
	db, err := gormstore.Open(sqlite.Open(dsn), logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gormstore.Migrate(db))
	require.NoError(t, gormstore.SeedGroups(context.Background(), db))
	return db
}
