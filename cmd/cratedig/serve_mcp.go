package main

import (
	"fmt"
	"os"

	"github.com/hurttlocker/cratedig/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func runServeMCP(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	// Model and search stay optional here: the catalog tools work
	// without credentials, and the model-backed tools report what is
	// missing per call. Diagnostics go to stderr; stdout carries the
	// protocol.
	model, merr := buildModel(cfg)
	if merr != nil {
		fmt.Fprintf(os.Stderr, "cratedig: language model disabled: %v\n", merr)
	}
	search, serr := buildSearch(cfg)
	if serr != nil {
		fmt.Fprintf(os.Stderr, "cratedig: web search disabled: %v\n", serr)
	}

	srv := mcp.NewServer(mcp.ServerConfig{
		Store:   st,
		Model:   model,
		Search:  search,
		Version: version,
	})

	fmt.Fprintln(os.Stderr, "cratedig MCP server listening on stdio")
	return server.ServeStdio(srv)
}
