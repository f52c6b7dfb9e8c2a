// Package cfg provides configuration and command-line interface setup
// for Recarr.
package cfg

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"recarr/internal/contracts"
)

var rootCmd = &cobra.Command{
	Use:   "recarr",
	Short: "Recarr monitors livestream channels and records them through cluster jobs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		viper.Set("execute", true)
		return nil
	},
}

// InitCommands initializes all commands and their flags.
func InitCommands(ctx context.Context, s contracts.Store) error {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if err := initProgramFlags(rootCmd); err != nil {
		return err
	}

	rootCmd.AddCommand(initChannelCmds(ctx, s))
	return nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// IsSet wraps the viper check.
func IsSet(key string) bool {
	return viper.IsSet(key)
}

// GetString wraps the viper string fetch.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt wraps the viper int fetch.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool wraps the viper bool fetch.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
