// Command recordx asks a language model for an analysis/plan/output record
// and recovers it from whatever text the model returns.
//
// Usage:
//
//	recordx run --goal "..." --deliverable "..."
//	recordx parse reply.txt --format yaml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(defaultApp()).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
