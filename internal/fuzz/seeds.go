package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10
	maxFuzzInput = 1 << 16
)

// seedDirs hold the dumps used by the other package tests.
var seedDirs = []string{
	filepath.Join("..", "frontend", "phpjson", "testdata"),
	filepath.Join("..", "driver", "testdata"),
}

func addCorpusSeeds(f *testing.F) {
	for _, root := range seedDirs {
		addTestdataSeeds(f, root)
	}
	f.Add([]byte("[]"))
	f.Add([]byte(`[{"nodeType":"Stmt_Echo","attributes":{"startLine":1,"endLine":1},"exprs":[{"nodeType":"Expr_Variable","attributes":{"startLine":1,"endLine":1},"name":"x"}]}]`))
}

func addTestdataSeeds(f *testing.F, root string) {
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
