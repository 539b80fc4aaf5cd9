package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
)

type ctxKey struct{}

func newRootCmd(load depsLoader) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "admin",
		Short:         "Maintenance commands for the resource allocation admin",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")

	// サブコマンドの実行直前に依存を組み立て、終了後に解放する。
	var cleanup func()
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		d, release, err := load(cmd.Context(), effectiveConfigPath(configPath))
		if err != nil {
			return err
		}
		cleanup = release
		cmd.SetContext(context.WithValue(cmd.Context(), ctxKey{}, d))
		return nil
	}
	root.PersistentPostRun = func(*cobra.Command, []string) {
		if cleanup != nil {
			cleanup()
		}
	}

	root.AddCommand(newAccountCmd(), newRequestsCmd(), newHistoryCmd())
	return root
}

func depsFrom(cmd *cobra.Command) (*deps, error) {
	d, ok := cmd.Context().Value(ctxKey{}).(*deps)
	if !ok || d == nil {
		return nil, errors.New("admin: dependencies are not initialized")
	}
	return d, nil
}

func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}
