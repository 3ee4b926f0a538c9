package fuzztests

import (
	"bytes"
	"context"
	"testing"
	"time"

	"phpflow/internal/ast"
	"phpflow/internal/driver"
	"phpflow/internal/frontend/phpjson"
	"phpflow/internal/testkit"
)

// analyzeTimeout bounds one input; running longer points at a fixpoint that
// never settles.
const analyzeTimeout = 5 * time.Second

var allPasses = driver.Passes{Undefined: true, SSA: true, DeadCode: true}

func FuzzDecode(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		_, _ = phpjson.Decode(bytes.NewReader(clampInput(input)), 1)
	})
}

// FuzzPipelineInvariants runs every unit of a decodable dump through the
// whole pipeline and checks the dominance and SSA invariants.
func FuzzPipelineInvariants(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		tree, err := phpjson.Decode(bytes.NewReader(clampInput(input)), 1)
		if err != nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
		defer cancel()

		failures := make(chan string, 1)
		done := make(chan struct{})
		go func() {
			defer close(done)
			analyzeAll(ctx, tree, failures)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("analysis hang detected: took longer than %v\ninput (%d bytes): %q",
				analyzeTimeout, len(input), truncateForLog(input, 200))
		}
		select {
		case msg := <-failures:
			t.Fatal(msg)
		default:
		}
	})
}

func analyzeAll(ctx context.Context, tree *ast.Tree, failures chan<- string) {
	for _, u := range driver.Units(tree) {
		res, err := driver.AnalyzeUnit(ctx, tree, u, allPasses, nil)
		if err != nil {
			// malformed trees may be rejected by the builder
			continue
		}
		if err := testkit.CheckDominance(res.CFG, res.Dom); err != nil {
			failures <- u.Name + ": dominance: " + err.Error()
			return
		}
		if err := testkit.CheckSSA(res.CFG, res.Dom, res.SSA); err != nil {
			failures <- u.Name + ": ssa: " + err.Error()
			return
		}
	}
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
