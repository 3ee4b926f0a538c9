// Package fuzztests houses Go fuzz harnesses for the analysis pipeline
// (JSON dump -> ast.Tree -> CFG -> SSA -> dead code). They look for panics,
// hangs and broken graph invariants on arbitrary inputs.
package fuzztests
