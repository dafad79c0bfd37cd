package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"print-timesheet/internal/app"
	"print-timesheet/internal/dto"
	"print-timesheet/internal/model"
	"print-timesheet/internal/service"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage login accounts",
}

var (
	userUsername string
	userPassword string
	userRole     string
	userEmployee string
)

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a login account",
	Example: `  tsctl user create --username admin --password 's3cret-pass' --role admin
  tsctl user create --username asha --password 'asha-pass' --employee e1`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, a *app.App, _ []string) error {
		if len(userPassword) < 8 {
			return fmt.Errorf("password must be at least 8 characters")
		}
		req := &dto.CreateUserRequest{
			Username: userUsername,
			Password: userPassword,
			Role:     userRole,
		}
		if userEmployee != "" {
			req.EmployeeID = &userEmployee
		}

		user, err := a.Svc.User.Create(cmd.Context(), service.SystemActor(), req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s %q (%s)\n", user.Role, user.Username, user.UserID)
		return nil
	}),
}

func init() {
	f := userCreateCmd.Flags()
	f.StringVar(&userUsername, "username", "", "login name")
	f.StringVar(&userPassword, "password", "", "password, at least 8 characters")
	f.StringVar(&userRole, "role", model.RoleEmployee, "admin or employee")
	f.StringVar(&userEmployee, "employee", "", "employee id to link")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userCreateCmd)
}
