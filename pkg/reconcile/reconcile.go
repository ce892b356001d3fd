// Package reconcile drives a mutable stack declaratively: given a desired
// sequence of entries, it computes the minimal edit script against the live
// stack and replays it, so entries present in both sequences keep their
// instances, owners, and result futures.
package reconcile

import (
	"context"

	"github.com/navstack-dev/navstack/pkg/diff"
	"github.com/navstack-dev/navstack/pkg/navstack"
	"github.com/navstack-dev/navstack/pkg/route"
)

// Apply replays script against s. prev must be the stack snapshot the
// script was computed from.
//
// Operations are applied strictly left to right with index bookkeeping:
// Keep advances past the untouched entry, Delete removes the previous
// snapshot's instance guard-free (the entry's result future is not
// completed, matching Stack.Remove), and Insert splices the new entry at
// the current position through the full push pipeline, redirect resolution
// included. The first redirect error aborts the replay; operations already
// applied stay applied.
//
// A script that both inserts and deletes the same instance describes a
// move of a live entry. Apply pairs the two into a relocation: the entry
// is taken off the stack before its Insert so the splice lands at the new
// position, and the matching Delete becomes a no-op. The relocated entry
// keeps its result future pending.
func Apply(ctx context.Context, s *navstack.Stack, prev []route.Entry, script []diff.Op) error {
	deleted := make(map[route.Entry]bool)
	for _, op := range script {
		if op.Kind == diff.Delete {
			deleted[prev[op.OldIndex]] = true
		}
	}

	moved := make(map[route.Entry]bool)
	pos := 0
	for _, op := range script {
		switch op.Kind {
		case diff.Keep:
			pos++
		case diff.Delete:
			e := prev[op.OldIndex]
			if moved[e] {
				// Already relocated by an earlier Insert of this instance.
				continue
			}
			s.Remove(e)
		case diff.Insert:
			// An Insert of a still-live instance whose Delete comes later
			// in the script is the front half of a move.
			if deleted[op.Entry] && s.Remove(op.Entry) {
				moved[op.Entry] = true
			}
			if _, err := s.Insert(ctx, pos, op.Entry); err != nil {
				return err
			}
			pos++
		}
	}
	return nil
}

// Reconcile transforms s's live sequence into desired: it snapshots the
// stack, computes the edit script, and applies it.
func Reconcile(ctx context.Context, s *navstack.Stack, desired []route.Entry) error {
	prev := s.Entries()
	script := diff.Script(prev, desired)
	return Apply(ctx, s, prev, script)
}
