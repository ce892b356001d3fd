// Package diff computes minimal edit scripts between two ordered sequences
// of route entries.
//
// Script implements the classic greedy-forward Myers shortest-edit-script
// algorithm, using route.Equal as the element comparison. The output is an
// ordered list of Keep, Delete, and Insert operations that transform the
// previous sequence into the current one; a reconciler replays the script
// against a live stack so that kept entries retain their presentation
// identity instead of being recreated.
//
// Time and space are O((N+M)·D) where D is the edit distance. The result
// is deterministic: identical inputs always produce the identical script,
// with deletions emitted as early and insertions as late as a minimal
// script allows.
package diff
