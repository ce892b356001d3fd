package navstack

import (
	"context"

	"github.com/navstack-dev/navstack/pkg/route"
)

// resolveRedirects follows the redirect chain starting at candidate and
// returns the entry that should actually be accepted onto a stack.
//
// Chain rules:
//   - A redirect returning nil stops resolution; the ORIGINAL candidate is
//     returned untouched ("navigation handled manually, do nothing more").
//   - A redirect returning its own receiver stops resolution at that
//     target ("proceed here").
//   - A redirect returning another entry supersedes the current target:
//     the superseded target's Result is completed silently (it will never
//     appear on any stack) and resolution continues from the new entry.
//   - The chain also ends when the current target has no redirect
//     capability.
//
// A redirect error aborts resolution and propagates to the caller; targets
// already superseded earlier in the chain stay silently completed.
//
// manual reports that the chain stopped on a nil redirect. Push keeps the
// original candidate in that case; an indexed-stack switch aborts instead.
func resolveChain(ctx context.Context, candidate route.Entry) (target route.Entry, manual bool, err error) {
	target = candidate
	for {
		r, ok := target.(route.Redirector)
		if !ok {
			return target, false, nil
		}

		next, err := r.Redirect(ctx)
		if err != nil {
			return nil, false, err
		}
		if next == nil {
			return candidate, true, nil
		}
		if next == target {
			return target, false, nil
		}

		target.Result().CompleteSilently()
		target = next
	}
}

// resolveRedirects is the push-path resolution: a chain ending on a nil
// redirect yields the original candidate.
func resolveRedirects(ctx context.Context, candidate route.Entry) (route.Entry, error) {
	target, _, err := resolveChain(ctx, candidate)
	return target, err
}
