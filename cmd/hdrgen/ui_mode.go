package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"hdrgen/internal/pipeline"
)

// uiMode selects the progress view. It satisfies pflag.Value, so a bad --ui
// value is rejected while flags are parsed.
type uiMode uint8

const (
	uiAuto uiMode = iota
	uiOn
	uiOff
)

var uiModeNames = [...]string{uiAuto: "auto", uiOn: "on", uiOff: "off"}

func (m uiMode) String() string {
	if int(m) < len(uiModeNames) {
		return uiModeNames[m]
	}
	return fmt.Sprintf("uiMode(%d)", m)
}

func (m *uiMode) Set(value string) error {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		*m = uiAuto
		return nil
	}
	for i, name := range uiModeNames {
		if name == v {
			*m = uiMode(i)
			return nil
		}
	}
	return fmt.Errorf("invalid value %q (expected auto|on|off)", value)
}

func (m *uiMode) Type() string {
	return "mode"
}

// progressView reports whether a run over units draws the progress view on
// out. Headers printed to stdout leave no room for it; in auto mode a single
// unit finishes before the first frame, so it needs several units and a
// terminal.
func (m uiMode) progressView(mode pipeline.Mode, units int, out io.Writer) bool {
	if mode == pipeline.ModeStdout || m == uiOff {
		return false
	}
	if m == uiOn {
		return true
	}
	f, ok := out.(*os.File)
	return ok && units > 1 && isTerminal(f)
}
