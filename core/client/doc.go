// Package client is the retry orchestrator between a text generator and the
// record extractor in core/parse.
//
// [New] takes a [CompleteFunc], the single call that turns a system prompt
// and a user prompt into raw model text, plus functional options
// ([WithConfig], [WithObserver], [WithExtractor], [WithMiddleware]).
// [Client.Extract] calls the generator, hands the reply to the extractor and,
// when nothing can be recovered, calls the generator exactly once more with a
// stricter instruction and a lower temperature. Generator failures are never
// retried here; transport-level retry belongs to the middleware in
// core/client/middleware.
//
// [FromProvider] adapts any [ai.Provider] into a CompleteFunc.
package client
