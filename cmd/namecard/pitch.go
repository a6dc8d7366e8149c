package main

import (
	"fmt"
	"os"

	"github.com/namecardai/namecard/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var pitchCmd = &cobra.Command{
	Use:   "pitch",
	Short: "Print the investor pitch deck",
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

		var md string
		slide, _ := cmd.Flags().GetInt("slide")
		if slide == 0 {
			md = tui.PitchMarkdown(cat.Slides)
		} else {
			if slide < 1 || slide > len(cat.Slides) {
				return fmt.Errorf("slide %d out of range 1-%d", slide, len(cat.Slides))
			}
			md = tui.SlideMarkdown(cat.Slides[slide-1], len(cat.Slides))
		}

		render, err := tui.NewRendererFor(os.Stdout)
		if err != nil {
			return err
		}
		out, err := render(md)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pitchCmd)
	pitchCmd.Flags().Int("slide", 0, "Print only this slide (1-based)")
}
