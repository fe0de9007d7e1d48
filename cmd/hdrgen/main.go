package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"hdrgen/internal/logger"
	"hdrgen/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "hdrgen",
	Short: "C header generator for resolved module trees",
	Long: `hdrgen reads the resolved module tree of a compilation unit and writes a C
header declaring its exported C ABI functions and structs.`,
	SilenceUsage: true,
}

// main registers subcommands and persistent flags, then executes the root
// command. Any returned error exits with status 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(newVersionCmd())

	addPersistentFlags(rootCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Cleanup()
	if err != nil {
		os.Exit(1)
	}
}

// addPersistentFlags registers the global flags on root.
func addPersistentFlags(root *cobra.Command) {
	// Глобальные флаги
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics kept per unit")
	root.PersistentFlags().Bool("log-json", false, "emit structured logs as JSON on stderr")
	root.PersistentFlags().Bool("verbose", false, "enable debug logging")
	root.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	root.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	root.PersistentFlags().String("runtime-trace", "", "write a runtime trace to file")
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func termSize(f *os.File) (width, height int, err error) {
	return term.GetSize(int(f.Fd()))
}

// useColor resolves the --color flag for output going to w.
func useColor(cmd *cobra.Command, w io.Writer) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		f, ok := w.(*os.File)
		return ok && isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
}
