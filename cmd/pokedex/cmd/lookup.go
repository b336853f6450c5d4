package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/f3rmion/pokedex/internal/config"
	"github.com/f3rmion/pokedex/internal/lookup"
	"github.com/f3rmion/pokedex/internal/pokedex"
	"github.com/f3rmion/pokedex/internal/tui/spriteart"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <name>...",
	Short: "Look up one or more Pokémon",
	Long: `Look up Pokémon by name and print their image URL, abilities and types.

Several names are fetched concurrently; results are printed in argument
order. The command exits non-zero if any lookup failed.

Example:
  pokedex lookup pikachu
  pokedex lookup bulbasaur charmander squirtle --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().Bool("json", false, "print results as JSON")
	lookupCmd.Flags().Bool("art", false, "draw the sprite above each result (text output only)")
	lookupCmd.Flags().Int("parallel", 4, "maximum concurrent requests")
	lookupCmd.MarkFlagsMutuallyExclusive("json", "art")
}

// outcome is the settled lookup for one command-line argument.
type outcome struct {
	Query   string                `json:"query"`
	Status  string                `json:"status"`
	Result  *pokedex.LookupResult `json:"result,omitempty"`
	Message string                `json:"message,omitempty"`
	Art     string                `json:"-"`
}

func (o outcome) failed() bool {
	return o.Status != lookup.StatusSuccess.String()
}

func runLookup(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	withArt, _ := cmd.Flags().GetBool("art")
	parallel, _ := cmd.Flags().GetInt("parallel")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := zerolog.Nop()
	if viper.GetBool("verbose") {
		logger = config.ConsoleLogger(cmd.ErrOrStderr(), cfg.Log.Level)
	}

	svc := newService(cfg, logger)
	results := lookupAll(cmd.Context(), svc, args, !cfg.Lookup.TrimInput, parallel)

	if withArt {
		drawArt(cmd.Context(), svc, results, cfg.Display.SpriteWidth, cfg.Display.SpriteHeight, logger)
	}

	if asJSON {
		err = writeJSON(cmd.OutOrStdout(), results)
	} else {
		err = writeText(cmd.OutOrStdout(), cmd.ErrOrStderr(), results)
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, o := range results {
		if o.failed() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d lookups failed", failed, len(results))
	}
	return nil
}

// lookupAll runs one lookup per name with at most limit in flight.
// Results keep the order of names.
func lookupAll(ctx context.Context, f lookup.Fetcher, names []string, keepWhitespace bool, limit int) []outcome {
	out := make([]outcome, len(names))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			state, _ := lookup.Once(ctx, f, name, keepWhitespace)
			out[i] = outcome{
				Query:   name,
				Status:  state.Status.String(),
				Result:  state.Result,
				Message: state.Message,
			}
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// drawArt renders sprites for successful results. Failures are logged and
// leave the result without art.
func drawArt(ctx context.Context, sprites lookup.SpriteFetcher, results []outcome, cols, rows int, logger zerolog.Logger) {
	for i := range results {
		r := results[i].Result
		if r == nil || !r.HasImage() {
			continue
		}
		data, err := sprites.GetSprite(ctx, r.Image)
		if err != nil {
			logger.Warn().Err(err).Str("url", r.Image).Msg("sprite fetch failed")
			continue
		}
		art, err := spriteart.Render(data, cols, rows)
		if err != nil {
			logger.Warn().Err(err).Str("url", r.Image).Msg("sprite render failed")
			continue
		}
		results[i].Art = art
	}
}

func writeText(stdout, stderr io.Writer, results []outcome) error {
	first := true
	for _, o := range results {
		if o.failed() {
			fmt.Fprintf(stderr, "%s: %s\n", o.Query, o.Message)
			continue
		}
		if !first {
			fmt.Fprintln(stdout)
		}
		first = false
		if o.Art != "" {
			fmt.Fprintln(stdout, o.Art)
		}
		if _, err := io.WriteString(stdout, o.Result.Summary()); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, results []outcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	return nil
}
