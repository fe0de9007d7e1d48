package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hdrgen/internal/cache"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cached headers",
	Long:  "Remove every header cached in the user cache directory.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	dir, err := cache.DefaultDir("hdrgen")
	if err != nil {
		return err
	}
	disk, err := cache.OpenDisk(dir)
	if err != nil {
		return err
	}
	if err := disk.DropAll(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed cached headers in %s\n", disk.Dir())
	return nil
}
