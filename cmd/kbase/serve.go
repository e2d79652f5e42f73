package main

import (
	"fmt"

	"github.com/fwojciec/kbase"
	kbhttp "github.com/fwojciec/kbase/http"
)

// Run executes the serve command. The corpus is loaded before listening.
func (c *ServeCmd) Run(deps *Dependencies) error {
	n, err := deps.Corpus.Reload(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbase.ErrorMessage(err))
		return err
	}

	srv := kbhttp.NewServer(deps.Corpus, deps.Embedder, deps.Logger)
	deps.Logger.Info("corpus loaded", "documents", n)
	return srv.ListenAndServe(deps.Ctx, c.Addr)
}
