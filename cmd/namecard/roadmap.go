package main

import (
	"fmt"
	"os"

	"github.com/namecardai/namecard/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Print the product roadmap",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		src, err := contentSource(cfg)
		if err != nil {
			return err
		}
		cat, err := src.Load(cmd.Context())
		if err != nil {
			return err
		}

		quarter, _ := cmd.Flags().GetString("quarter")
		if quarter == "" {
			quarter = cat.DefaultQuarter
		}
		if _, ok := cat.Quarter(quarter); !ok {
			return fmt.Errorf("unknown quarter %q", quarter)
		}

		render, err := tui.NewRendererFor(os.Stdout)
		if err != nil {
			return err
		}
		out, err := render(tui.RoadmapMarkdown(cat.Roadmap, quarter))
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(roadmapCmd)
	roadmapCmd.Flags().String("quarter", "", "Quarter to expand, e.g. Q3-2024 (default: the current one)")
}
