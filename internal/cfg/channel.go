package cfg

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"recarr/internal/contracts"
	"recarr/internal/domain/consts"
	"recarr/internal/models"
)

var validSources = map[string]struct{}{
	consts.SourceYoutube:     {},
	consts.SourceTwitch:      {},
	consts.SourceTwitcasting: {},
	consts.SourceFC2:         {},
}

// initChannelCmds builds the channel management command tree.
func initChannelCmds(_ context.Context, s contracts.Store) *cobra.Command {
	channelCmd := &cobra.Command{
		Use:   "channel",
		Short: "Manage monitored channels.",
	}

	channelCmd.AddCommand(addChannelCmd(s.ChannelStore()))
	channelCmd.AddCommand(listChannelsCmd(s.ChannelStore()))
	channelCmd.AddCommand(pauseChannelCmd(s.ChannelStore()))

	return channelCmd
}

// addChannelCmd registers (or updates) a channel for monitoring.
func addChannelCmd(cs contracts.ChannelStore) *cobra.Command {
	var (
		source            string
		channelID         string
		name              string
		useCookies        bool
		skipNotLiveStream bool
		autoUpdateInfo    bool
		notifyURLs        []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a channel to monitor.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := validSources[source]; !ok {
				return fmt.Errorf("unknown source %q", source)
			}
			if channelID == "" {
				return fmt.Errorf("channel id is required")
			}

			c := &models.Channel{
				ID:                channelID,
				Source:            source,
				ChannelName:       name,
				Monitoring:        true,
				UseCookiesFile:    useCookies,
				SkipNotLiveStream: skipNotLiveStream,
				AutoUpdateInfo:    autoUpdateInfo,
				NotifyURLs:        notifyURLs,
			}
			if err := cs.AddOrUpdate(c); err != nil {
				return fmt.Errorf("failed to add channel %q: %w", channelID, err)
			}

			fmt.Printf("Monitoring channel %q on %s\n", channelID, source)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", consts.SourceYoutube, "Platform source (Youtube, Twitch, Twitcasting, FC2)")
	cmd.Flags().StringVar(&channelID, "id", "", "Platform channel id")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().BoolVar(&useCookies, "cookies", false, "Authenticate downloads with the exported cookies file")
	cmd.Flags().BoolVar(&skipNotLiveStream, "skip-uploads", false, "Skip content that is not a livestream")
	cmd.Flags().BoolVar(&autoUpdateInfo, "auto-update-info", false, "Refresh display metadata automatically")
	cmd.Flags().StringSliceVar(&notifyURLs, "notify-url", nil, "Webhook URL notified on lifecycle events (repeatable)")

	return cmd
}

// listChannelsCmd prints monitored channels per source.
func listChannelsCmd(cs contracts.ChannelStore) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List monitored channels.",
		RunE: func(cmd *cobra.Command, args []string) error {
			for source := range validSources {
				channels, err := cs.ListMonitoring(source)
				if err != nil {
					return fmt.Errorf("failed to list channels for %s: %w", source, err)
				}
				for _, c := range channels {
					fmt.Printf("%-12s %-24s %q (latest: %s)\n", c.Source, c.ID, c.ChannelName, c.LatestVideoID)
				}
			}
			return nil
		},
	}
}

// pauseChannelCmd turns monitoring off without losing channel state.
func pauseChannelCmd(cs contracts.ChannelStore) *cobra.Command {
	var (
		source    string
		channelID string
	)

	cmd := &cobra.Command{
		Use:   "pause",
		Short: "Pause monitoring for a channel.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, hasRows, err := cs.GetByID(source, channelID)
			if err != nil {
				return err
			}
			if !hasRows {
				return fmt.Errorf("no channel %q on %s", channelID, source)
			}

			c.Monitoring = false
			if err := cs.AddOrUpdate(c); err != nil {
				return fmt.Errorf("failed to pause channel %q: %w", channelID, err)
			}

			fmt.Printf("Paused channel %q on %s\n", channelID, source)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", consts.SourceYoutube, "Platform source")
	cmd.Flags().StringVar(&channelID, "id", "", "Platform channel id")

	return cmd
}
