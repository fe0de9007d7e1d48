package fuzztests

import (
	"testing"
	"time"

	"hdrgen/internal/diag"
	"hdrgen/internal/export"
	"hdrgen/internal/header"
	"hdrgen/internal/project"
)

const maxFuzzInput = 1 << 16 // 64 KiB

// generateTimeout bounds one decode-walk-emit cycle; exceeding it means a
// loop that malformed input can drive forever.
const generateTimeout = 5 * time.Second

func generate(t *testing.T, input []byte, format project.Format) {
	if len(input) > maxFuzzInput {
		input = append([]byte(nil), input[:maxFuzzInput]...)
	} else {
		input = append([]byte(nil), input...)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		u, err := project.Decode(input, format)
		if err != nil {
			return
		}
		if err := project.Validate(u); err != nil {
			return
		}
		bag := diag.NewBag(128)
		res, err := export.Walk(u, diag.BagReporter{Bag: bag})
		if err != nil {
			if res != nil {
				t.Errorf("walk returned a result together with %v", err)
			}
			return
		}
		if _, err := header.Render(res.UnitName, res.Decls, header.Options{}); err != nil {
			t.Errorf("render after successful walk: %v", err)
		}
	}()

	select {
	case <-done:
	case <-time.After(generateTimeout):
		t.Fatalf("generation hung for %d input bytes", len(input))
	}
}

func FuzzGenerateJSON(f *testing.F) {
	addCorpusSeeds(f, project.FormatJSON)
	f.Fuzz(func(t *testing.T, input []byte) {
		generate(t, input, project.FormatJSON)
	})
}

func FuzzGenerateMsgpack(f *testing.F) {
	addCorpusSeeds(f, project.FormatMsgpack)
	f.Fuzz(func(t *testing.T, input []byte) {
		generate(t, input, project.FormatMsgpack)
	})
}

func FuzzGenerateYAML(f *testing.F) {
	addCorpusSeeds(f, project.FormatYAML)
	f.Fuzz(func(t *testing.T, input []byte) {
		generate(t, input, project.FormatYAML)
	})
}
