package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hurttlocker/cratedig/internal/ingest"
)

func runImport(args []string) error {
	opts := ingest.Options{}
	var paths []string

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--dry-run" || args[i] == "-n":
			opts.DryRun = true
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			paths = append(paths, args[i])
		}
	}

	if len(paths) == 0 {
		return fmt.Errorf("usage: cratedig import <file...> [--dry-run]")
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

	engine := ingest.NewEngine(st)
	ctx := context.Background()

	if opts.DryRun && !globalJSON {
		fmt.Println("Dry run: parsing only, nothing will be written")
	}

	results := []*ingest.Result{}
	totalParsed, totalInserted, failed := 0, 0, 0

	for _, path := range paths {
		res, err := engine.ImportFile(ctx, path, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed++
			continue
		}
		results = append(results, res)
		totalParsed += res.Parsed
		totalInserted += res.Inserted

		if globalJSON {
			continue
		}
		fmt.Printf("%s: parsed %d, inserted %d", res.Path, res.Parsed, res.Inserted)
		if len(res.Skipped) > 0 {
			fmt.Printf(", skipped %d", len(res.Skipped))
		}
		fmt.Println()
		for _, sk := range res.Skipped {
			fmt.Printf("  entry %d: %s\n", sk.Pos, sk.Reason)
		}
	}

	if globalJSON {
		if err := emitJSON(results); err != nil {
			return err
		}
	} else if opts.DryRun {
		fmt.Printf("\nParsed %d track(s) from %d file(s), nothing written\n", totalParsed, len(results))
	} else {
		fmt.Printf("\nImported %d track(s) from %d file(s)\n", totalInserted, len(results))
	}

	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}
