package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear the availability cache",
	}

	var titleID int
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cached availabilities (all, or one title with --title)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			app, cleanup, err := initializeApp(cfg, ctx.logger)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer cleanup()

			var deleted int64
			if cmd.Flags().Changed("title") {
				deleted, err = app.Cache.ClearGroup(cmd.Context(), titleID)
			} else {
				deleted, err = app.Cache.ClearAll(cmd.Context())
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d cached availabilities\n", deleted)
			return nil
		},
	}
	clearCmd.Flags().IntVar(&titleID, "title", 0, "TMDB id of the title to clear (movie and tv)")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			app, cleanup, err := initializeApp(cfg, ctx.logger)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer cleanup()

			stats, err := app.Cache.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), stats)
		},
	}

	cacheCmd.AddCommand(clearCmd, statsCmd)
	return cacheCmd
}
