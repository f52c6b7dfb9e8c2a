// Package keys holds viper/flag key names used across the program.
package keys

// Program
const (
	DBPath     string = "db-path"
	DebugLevel string = "debug-level"
	LogFile    string = "log-file"
)

// Loop cadences
const (
	BaseTickSeconds     string = "base-tick"
	OrchTickSeconds     string = "orchestrator-tick"
	MonitorFloorMinutes string = "monitor-floor"
	RetireDelaySeconds  string = "retire-delay"
	RevalidateTick      string = "revalidate-tick"
	ChannelInfoTick     string = "channel-info-tick"
)

// Job backend
const (
	RegistryPrimary  string = "registry"
	RegistryFallback string = "registry-fallback"
	DryRun           string = "dry-run"
)

// Storage and cookies
const (
	ArchiveDir  string = "archive-dir"
	CookiesFile string = "cookies-file"
)
