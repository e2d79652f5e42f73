package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/kbase"
)

// Run executes the query command.
func (c *QueryCmd) Run(deps *Dependencies) error {
	n, err := deps.Corpus.Reload(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbase.ErrorMessage(err))
		return err
	}

	result, err := deps.Corpus.Retrieve(deps.Ctx, c.Question, c.TopK)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbase.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if result.Len() == 0 {
		fmt.Fprintf(deps.Stdout, "No matching contexts (%d documents loaded)\n", n)
		return nil
	}
	for i, cit := range result.Citations {
		fmt.Fprintf(deps.Stdout, "%d. %s  score=%.4f semantic=%.4f overlap=%.4f\n",
			i+1, cit.Source, cit.Score, cit.Semantic, cit.Overlap)
		fmt.Fprintf(deps.Stdout, "   %s\n", result.Contexts[i])
	}
	return nil
}
