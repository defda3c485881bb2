// Package completion turns a prompt into text inserted at the cursor.
//
// A Controller owns at most one active Session. Start cancels the previous
// session before the new one begins, then builds the provider request,
// opens the response and applies decoded fragments in order at an
// advancing anchor. Each session ends in exactly one of Completed,
// Cancelled or Failed and produces exactly one terminal notice.
//
//	ctrl := completion.NewController(doc, llm.NewClient(transport), settings,
//		completion.WithNotifier(notifier))
//	s, err := ctrl.Start(ctx, "notes.md", "list three colors")
//	res, err := s.Wait(ctx)
package completion
