// Package guard implements scoped acquisition with guaranteed release.
//
// Workbooks and model sessions are serially accessed, session-scoped resources:
// exactly one is open per run and it must be released on every exit path. Call
// sites express this as open -> operate -> release through Use instead of
// repeating defer/Close blocks.
//
//	err := guard.Use(ctx, store.Open, func(sess *frameloads.Session) error {
//	    return apply(ctx, sess)
//	})
package guard
