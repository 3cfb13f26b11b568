package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MonkeyKingDev/git-peek/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage GitPeek configuration",
	Long:  `View the effective configuration and manage the OAuth client secret.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		dump, err := cfg.Dump()
		if err != nil {
			return err
		}
		fmt.Print(dump)
		return nil
	},
}

var configSetSecretCmd = &cobra.Command{
	Use:   "set-secret <client-secret>",
	Short: "Store the GitHub OAuth client secret in the OS keychain",
	Long: `Store the OAuth client secret in the OS keychain instead of the config
file. The server picks it up automatically when github.client_secret is
not set elsewhere.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.NewKeyringManager().SaveClientSecret(args[0]); err != nil {
			return err
		}
		fmt.Println("Client secret saved to OS keychain")
		return nil
	},
}

var configClearSecretCmd = &cobra.Command{
	Use:   "clear-secret",
	Short: "Remove the stored OAuth client secret from the OS keychain",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.NewKeyringManager().DeleteClientSecret(); err != nil {
			return err
		}
		fmt.Println("Client secret removed from OS keychain")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetSecretCmd)
	configCmd.AddCommand(configClearSecretCmd)
	rootCmd.AddCommand(configCmd)
}
