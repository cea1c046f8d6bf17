package evaluator

import (
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/sexpruntime/core/internal/result"
)

// annotateInputDiff attaches a patch-format diff between successive
// current_input (iterative-loop) / current_director_input
// (director-evaluator-loop) snapshots to notes["input_diff"] when both
// are strings and differ, for operator debugging.
func annotateInputDiff(v any, oldInput, newInput any) any {
	oldStr, ok1 := oldInput.(string)
	newStr, ok2 := newInput.(string)
	if !ok1 || !ok2 || oldStr == newStr {
		return v
	}
	r, ok := v.(result.Result)
	if !ok {
		return v
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldStr, newStr, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	patches := dmp.PatchMake(oldStr, diffs)

	return r.WithNote("input_diff", dmp.PatchToText(patches))
}
