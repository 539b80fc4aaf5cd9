package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ogurasousui/resource-allocation-admin/internal/core/session"
)

const passwordEnv = "ADMIN_PASSWORD"

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage sign-in accounts",
	}

	var email, name, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account that can sign in to the admin API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := depsFrom(cmd)
			if err != nil {
				return err
			}
			if password == "" {
				password = os.Getenv(passwordEnv)
			}
			if password == "" {
				return errors.New("password is required: pass --password or set " + passwordEnv)
			}

			acc, err := d.accounts.CreateAccount(cmd.Context(), session.CreateAccountInput{
				Email:    email,
				Name:     name,
				Password: password,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created account %s (%s)\n", acc.ID, acc.Email)
			return nil
		},
	}
	create.Flags().StringVar(&email, "email", "", "account email address")
	create.Flags().StringVar(&name, "name", "", "display name")
	create.Flags().StringVar(&password, "password", "", "initial password (or set "+passwordEnv+")")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("name")

	cmd.AddCommand(create)
	return cmd
}
