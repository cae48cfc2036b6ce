package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/pkg/logger"
)

// @title           Bookshop API
// @version         1.0
// @description     图书商城后端:目录、购物车、结算与订单状态流转
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "bookshop",
	Short:         "Bookshop API服务与运维命令",
	SilenceUsage:  true,
	SilenceErrors: true,
	// 所有子命令共用:加载配置并初始化全局日志
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.LoadFrom(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}

		log, err := logger.New(logger.Options{
			Level:        cfg.Log.Level,
			Format:       cfg.Log.Format,
			Output:       cfg.Log.Output,
			EnableCaller: cfg.Log.EnableCaller,
		})
		if err != nil {
			return fmt.Errorf("初始化日志失败: %w", err)
		}
		logger.SetGlobal(log)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径(默认 ./config/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(consumeEventsCmd)
}
