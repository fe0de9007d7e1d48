package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"hdrgen/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a default hdrgen.toml",
	Long: `Write an hdrgen.toml with the default settings into dir (the current
directory when omitted). Headers go to ./include unless changed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 && args[0] != "" {
		target = args[0]
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", target, err)
	}
	path := filepath.Join(target, project.ConfigFileName)
	cfg := project.DefaultConfig()
	cfg.Output.Dir = "include"
	if err := project.WriteConfig(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	return nil
}
