package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/warp/asset-depreciation/factory"
)

// newSeedCmd loads a catalog file (or an embedded preset) into the database.
func newSeedCmd(v *viper.Viper) *cobra.Command {
	var (
		file   string
		preset string
		reset  bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a catalog of categories and assets",
		Long: `Load a YAML or JSON catalog into the database.

Either --file or --preset is required. Presets are the demo catalogs
served by /api/escenarios. With --reset the database is cleared first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			var catalog *factory.Catalog
			switch {
			case file != "":
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				if catalog, err = factory.Parse(data); err != nil {
					return err
				}
			case preset != "":
				if catalog, err = factory.Preset(preset); err != nil {
					return err
				}
				if catalog == nil {
					return fmt.Errorf("unknown preset %q", preset)
				}
			default:
				return fmt.Errorf("one of --file or --preset is required")
			}

			ctx := cmd.Context()
			store, svc, cleanup, err := openService(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			if reset {
				if err := store.Reset(ctx); err != nil {
					return err
				}
			}
			summary, err := factory.Load(ctx, svc, catalog)
			if err != nil {
				log.Error().Err(err).Str("catalog", catalog.ID).Msg("seed failed")
				return err
			}
			log.Info().
				Str("catalog", summary.CatalogID).
				Int("categories", summary.Categories).
				Int("assets", summary.Assets).
				Int("entries", summary.Entries).
				Msg("catalog loaded")
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "catalog file (YAML or JSON)")
	cmd.Flags().StringVar(&preset, "preset", "", "embedded catalog id")
	cmd.Flags().BoolVar(&reset, "reset", false, "clear the database first")
	return cmd
}
