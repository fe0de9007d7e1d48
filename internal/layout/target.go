package layout

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// Target describes the ABI target triple and its pointer properties.
type Target struct {
	Triple   string // e.g. "x86_64-linux-gnu"
	PtrSize  int    // bytes
	PtrAlign int    // bytes
	// Int64Align is 4 on i386 System V, 8 elsewhere.
	Int64Align int
}

func X86_64LinuxGNU() Target {
	return Target{
		Triple:     "x86_64-linux-gnu",
		PtrSize:    8,
		PtrAlign:   8,
		Int64Align: 8,
	}
}

func Aarch64LinuxGNU() Target {
	return Target{
		Triple:     "aarch64-linux-gnu",
		PtrSize:    8,
		PtrAlign:   8,
		Int64Align: 8,
	}
}

func I686LinuxGNU() Target {
	return Target{
		Triple:     "i686-linux-gnu",
		PtrSize:    4,
		PtrAlign:   4,
		Int64Align: 4,
	}
}

func Wasm32() Target {
	return Target{
		Triple:     "wasm32-unknown-unknown",
		PtrSize:    4,
		PtrAlign:   4,
		Int64Align: 8,
	}
}

var targets = map[string]func() Target{
	"x86_64-linux-gnu":       X86_64LinuxGNU,
	"aarch64-linux-gnu":      Aarch64LinuxGNU,
	"i686-linux-gnu":         I686LinuxGNU,
	"wasm32-unknown-unknown": Wasm32,
}

// ErrUnknownTarget is returned by LookupTarget for triples without a table.
var ErrUnknownTarget = errors.New("unknown target triple")

// LookupTarget returns the target for triple. Empty means x86_64-linux-gnu.
func LookupTarget(triple string) (Target, error) {
	if triple == "" {
		return X86_64LinuxGNU(), nil
	}
	mk, ok := targets[triple]
	if !ok {
		return Target{}, errors.WithHintf(errors.Wrapf(ErrUnknownTarget, "%q", triple),
			"known targets: %v", KnownTargets())
	}
	return mk(), nil
}

// KnownTargets lists supported triples in sorted order.
func KnownTargets() []string {
	out := make([]string, 0, len(targets))
	for k := range targets {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
