package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the content for consistency",
	Long: `Loads the catalog (embedded, or overlaid by --content) and checks the demo
levels, wizard steps, pitch slides and roadmap quarters.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runValidate(cmd); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Println("Content is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command) error {
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
	// Sources validate on load; re-check in case a source skipped it.
	if err := cat.Validate(); err != nil {
		return err
	}
	fmt.Printf("%d levels, %d steps, %d slides, %d quarters\n",
		len(cat.Levels), len(cat.Steps), len(cat.Slides), len(cat.Roadmap))
	return nil
}
