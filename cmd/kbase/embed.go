package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/kbase"
	kbhttp "github.com/fwojciec/kbase/http"
)

// Run executes the embed command, printing the same JSON document the
// /embed endpoint returns.
func (c *EmbedCmd) Run(deps *Dependencies) error {
	vecs, err := deps.Embedder.Embed(deps.Ctx, c.Texts)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbase.ErrorMessage(err))
		return err
	}
	for i, v := range vecs {
		vecs[i] = kbase.Normalize(v)
	}
	return json.NewEncoder(deps.Stdout).Encode(kbhttp.EmbedResponse{Embeddings: vecs})
}
