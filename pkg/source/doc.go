// Package source provides value sources for the fields resolver.
//
// A value source answers one question: what raw value is stored for a
// storage key of a subject. Subjects follow the record conventions of
// content stores:
//
//	12, post_12   a post record
//	term_5        a taxonomy term
//	user_3        a user
//	comment_9     a comment
//	options       global options
//
// Option subjects keep their values under storage keys carrying the
// "options_" prefix; record subjects use the bare storage key. Sources in
// this package apply that convention so callers and schemas always work with
// bare keys.
//
// Sources:
//   - MemoryStore holds values in process, for tests, fixtures and snapshots.
//   - Chain falls back across sources, e.g. record values then options.
//   - dynamo.Store reads single items from a DynamoDB table and can snapshot
//     a subject's whole partition into a MemoryStore.
package source
