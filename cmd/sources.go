package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kartoza/kartoza-mini-recorder/internal/monitor"
	"github.com/spf13/cobra"
)

var sourcesJSONOutput bool

var sourcesCmd = &cobra.Command{
	Use:     "sources",
	Aliases: []string{"monitors", "screens"},
	Short:   "List screens that can be recorded",
	Long: `List all screens with their resolution and position.

Pass a name or id to --source (or set "source" in the config) to record
a specific screen. Without it the primary screen is recorded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		sources, err := monitor.NewSystemProvider(cfg.FFmpegPath).ListSources(ctx)
		if err != nil {
			return fmt.Errorf("failed to list screens: %w", err)
		}

		if sourcesJSONOutput {
			data, err := json.MarshalIndent(sources, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		if len(sources) == 0 {
			fmt.Println("No screens found.")
			return nil
		}

		for _, s := range sources {
			mark := ""
			if s.Primary {
				mark = " (primary)"
			}
			if s.Width > 0 && s.Height > 0 {
				fmt.Printf("%s: %s %dx%d at (%d,%d)%s\n", s.ID, s.Name, s.Width, s.Height, s.X, s.Y, mark)
			} else {
				fmt.Printf("%s: %s%s\n", s.ID, s.Name, mark)
			}
		}

		return nil
	},
}

func init() {
	sourcesCmd.Flags().BoolVar(&sourcesJSONOutput, "json", false, "Output screens as JSON")
}
