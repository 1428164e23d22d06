package client

// Middleware intercepts generator calls. Each Middleware receives the next
// CompleteFunc in the chain and returns a new CompleteFunc that wraps it.
// Middlewares are applied outermost-first: the first middleware in the slice
// is the outermost wrapper.
type Middleware func(next CompleteFunc) CompleteFunc

// buildChain wraps complete with middlewares so that middlewares[0] is the
// first to see an incoming call. Nil entries are skipped.
func buildChain(complete CompleteFunc, middlewares []Middleware) CompleteFunc {
	chain := complete

	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] != nil {
			chain = middlewares[i](chain)
		}
	}

	return chain
}
