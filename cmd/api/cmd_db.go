package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/gormstore"
)

// bookshop migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "迁移数据库表结构",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := gormstore.NewDB(cfg)
		if err != nil {
			return err
		}
		defer closeDB(db)

		if err := gormstore.Migrate(db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ 数据库迁移完成")
		return nil
	},
}

// bookshop seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "初始化固定用户组(Buyer/Seller/Admin),可重复执行",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := gormstore.NewDB(cfg)
		if err != nil {
			return err
		}
		defer closeDB(db)

		if err := gormstore.Migrate(db); err != nil {
			return err
		}
		if err := gormstore.SeedGroups(cmd.Context(), db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ 用户组初始化完成")
		return nil
	},
}
