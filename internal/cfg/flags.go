package cfg

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"recarr/internal/domain/consts"
	"recarr/internal/domain/keys"
)

// initProgramFlags initializes the daemon-level flag settings.
func initProgramFlags(rootCmd *cobra.Command) error {

	// Database location
	rootCmd.PersistentFlags().String(keys.DBPath, "recarr.db", "Path to the SQLite database file")
	if err := viper.BindPFlag(keys.DBPath, rootCmd.PersistentFlags().Lookup(keys.DBPath)); err != nil {
		return err
	}

	// Debug level
	rootCmd.PersistentFlags().IntP(keys.DebugLevel, "d", 0, "Debugging level (0 - 5)")
	if err := viper.BindPFlag(keys.DebugLevel, rootCmd.PersistentFlags().Lookup(keys.DebugLevel)); err != nil {
		return err
	}

	// Log file
	rootCmd.PersistentFlags().String(keys.LogFile, "", "Optional log file location")
	if err := viper.BindPFlag(keys.LogFile, rootCmd.PersistentFlags().Lookup(keys.LogFile)); err != nil {
		return err
	}

	// Scheduler base tick
	rootCmd.Flags().Int(keys.BaseTickSeconds, int(consts.DefaultBaseTick.Seconds()), "Scheduler base tick in seconds")
	if err := viper.BindPFlag(keys.BaseTickSeconds, rootCmd.Flags().Lookup(keys.BaseTickSeconds)); err != nil {
		return err
	}

	// Orchestrator cadence
	rootCmd.Flags().Int(keys.OrchTickSeconds, int(consts.DefaultOrchTick.Seconds()), "Orchestrator tick in seconds")
	if err := viper.BindPFlag(keys.OrchTickSeconds, rootCmd.Flags().Lookup(keys.OrchTickSeconds)); err != nil {
		return err
	}

	// Minimum job age before failure probes
	rootCmd.Flags().Int(keys.MonitorFloorMinutes, int(consts.DefaultMonitorFloor.Minutes()), "Minimum job age in minutes before failure probes")
	if err := viper.BindPFlag(keys.MonitorFloorMinutes, rootCmd.Flags().Lookup(keys.MonitorFloorMinutes)); err != nil {
		return err
	}

	// Delay between retiring finished items
	rootCmd.Flags().Int(keys.RetireDelaySeconds, int(consts.DefaultRetireDelay.Seconds()), "Delay in seconds between retiring finished items")
	if err := viper.BindPFlag(keys.RetireDelaySeconds, rootCmd.Flags().Lookup(keys.RetireDelaySeconds)); err != nil {
		return err
	}

	// Auxiliary worker cadences
	rootCmd.Flags().Int(keys.RevalidateTick, 600, "Video revalidation tick in seconds")
	if err := viper.BindPFlag(keys.RevalidateTick, rootCmd.Flags().Lookup(keys.RevalidateTick)); err != nil {
		return err
	}

	rootCmd.Flags().Int(keys.ChannelInfoTick, 86400, "Channel info refresh tick in seconds")
	if err := viper.BindPFlag(keys.ChannelInfoTick, rootCmd.Flags().Lookup(keys.ChannelInfoTick)); err != nil {
		return err
	}

	// Container registries
	rootCmd.Flags().String(keys.RegistryPrimary, consts.RegistryPrimary, "Primary container image registry")
	if err := viper.BindPFlag(keys.RegistryPrimary, rootCmd.Flags().Lookup(keys.RegistryPrimary)); err != nil {
		return err
	}

	rootCmd.Flags().String(keys.RegistryFallback, consts.RegistryFallback, "Fallback container image registry, tried once per dispatch")
	if err := viper.BindPFlag(keys.RegistryFallback, rootCmd.Flags().Lookup(keys.RegistryFallback)); err != nil {
		return err
	}

	// Dry run keeps jobs in the in-memory backend
	rootCmd.Flags().Bool(keys.DryRun, false, "Track jobs in memory instead of dispatching to a cluster")
	if err := viper.BindPFlag(keys.DryRun, rootCmd.Flags().Lookup(keys.DryRun)); err != nil {
		return err
	}

	// Archive directory
	rootCmd.Flags().String(keys.ArchiveDir, "/archive", "Directory finished files are uploaded into")
	if err := viper.BindPFlag(keys.ArchiveDir, rootCmd.Flags().Lookup(keys.ArchiveDir)); err != nil {
		return err
	}

	// Cookies file
	rootCmd.Flags().String(keys.CookiesFile, "", "Netscape cookies file exported for authenticated channels")
	if err := viper.BindPFlag(keys.CookiesFile, rootCmd.Flags().Lookup(keys.CookiesFile)); err != nil {
		return err
	}

	return nil
}
