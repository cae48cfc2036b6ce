package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	appuser "github.com/xiebiao/bookshop/internal/application/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/gormstore"
)

var adminFlags struct {
	email     string
	password  string
	firstName string
	lastName  string
}

// bookshop createadmin
// 管理员账号只能通过命令行创建,注册接口只接受buyer和seller
var createAdminCmd = &cobra.Command{
	Use:   "createadmin",
	Short: "创建管理员账号(超级用户,加入Buyer和Admin组)",
	RunE: func(cmd *cobra.Command, args []string) error {
		email := adminFlags.email
		if email == "" {
			email = cfg.Admin.Email
		}
		password := adminFlags.password
		if password == "" {
			password = cfg.Admin.Password
		}
		if email == "" || password == "" {
			return errors.New("必须通过--email/--password或admin配置提供管理员账号")
		}

		createAdmin, cleanup, err := InitializeCreateAdmin(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := gormstore.SeedGroups(cmd.Context(), createAdmin.DB); err != nil {
			return err
		}
		result, err := createAdmin.UseCase.Execute(cmd.Context(), appuser.CreateAdminRequest{
			Email:     email,
			Password:  password,
			FirstName: adminFlags.firstName,
			LastName:  adminFlags.lastName,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ 管理员已创建: id=%d email=%s\n", result.ID, result.Email)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminFlags.email, "email", "", "管理员邮箱(默认admin.email)")
	createAdminCmd.Flags().StringVar(&adminFlags.password, "password", "", "管理员密码(默认admin.password)")
	createAdminCmd.Flags().StringVar(&adminFlags.firstName, "first-name", "Admin", "名")
	createAdminCmd.Flags().StringVar(&adminFlags.lastName, "last-name", "User", "姓")
}
