package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/littel/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "littel",
	Short: "Historical typology over language lineages",
	Long:  "Loads dated typological observations for a family of languages and estimates feature values at any date, change rates, directional symmetry and co-occurring changes along lineages.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyDataFlags(cmd, c)
		if err := c.Validate(); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().String("data", "", "directory holding languages.csv, features.csv, codes.csv and values.csv")
	rootCmd.PersistentFlags().String("workbook", "", "XLSX workbook with languages, features, codes and values sheets")
	rootCmd.PersistentFlags().String("sqlite", "", "SQLite database with languages, features, codes and values tables")
	rootCmd.PersistentFlags().StringP("output", "o", string(formatTable), "output format (table, json, yaml)")
}

// applyDataFlags lets explicit source flags override the loaded config.
func applyDataFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if v, _ := flags.GetString("data"); v != "" {
		c.Data.Dir = v
	}
	if v, _ := flags.GetString("workbook"); v != "" {
		c.Data.Workbook = v
	}
	if v, _ := flags.GetString("sqlite"); v != "" {
		c.Data.SQLite = v
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
