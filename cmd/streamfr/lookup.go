package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/amaumene/streamfr/internal/api/handlers"
	"github.com/amaumene/streamfr/internal/controllers"
	"github.com/amaumene/streamfr/internal/models"
	"github.com/amaumene/streamfr/internal/utils"
)

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var countries string
	var refresh bool

	cmd := &cobra.Command{
		Use:     "lookup <movie|tv> <tmdb-id>",
		Short:   "Look up where a title can be streamed with French audio or subtitles",
		Example: "  streamfr lookup movie 27205 --countries FR,BE --refresh",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaType, titleID, err := parseTitleArgs(args)
			if err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			tp := utils.NewTracerProvider("streamfr", version)
			defer func() { _ = tp.Shutdown(context.Background()) }()

			app, cleanup, err := initializeApp(cfg, ctx.logger)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer cleanup()

			runCtx := cmd.Context()
			if runCtx == nil {
				runCtx = context.Background()
			}

			result, err := app.Availability.GetAvailability(runCtx, titleID, mediaType, handlers.ParseCountries(countries), refresh)
			if err != nil {
				return err
			}

			response := handlers.AvailabilityResponse{
				TitleID:        titleID,
				MediaType:      mediaType,
				Cached:         result.Cached,
				Count:          len(result.Availabilities),
				Availabilities: result.Availabilities,
			}
			if details, err := app.TMDB.GetTitleDetails(runCtx, titleID, mediaType); err == nil {
				response.Metadata = details
			}

			return writeJSON(cmd.OutOrStdout(), response)
		},
	}

	cmd.Flags().StringVar(&countries, "countries", "", "Comma separated country codes to keep (e.g. FR,BE)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore the cache and query the upstream sources")

	return cmd
}

func parseTitleArgs(args []string) (models.MediaType, int, error) {
	mediaType, err := models.ParseMediaType(args[0])
	if err != nil {
		return "", 0, err
	}
	titleID, err := strconv.Atoi(args[1])
	if err != nil || titleID <= 0 {
		return "", 0, fmt.Errorf("%w: %s", controllers.ErrInvalidTitleID, args[1])
	}
	return mediaType, titleID, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
