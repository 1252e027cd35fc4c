// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ManuGH/availwin/internal/catalog"
	"github.com/ManuGH/availwin/internal/persistence/sqlite"
)

func runSnapshotCLI(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printSnapshotUsage(stdout)
		return 0
	}

	switch args[0] {
	case "import":
		return runSnapshotImport(args[1:], stdout, stderr)
	case "verify":
		return runSnapshotVerify(args[1:], stdout, stderr)
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown subcommand: %s\n\n", args[0])
		printSnapshotUsage(stderr)
		return 2
	}
}

func printSnapshotUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  availwin snapshot import -in YAML -db SQLITE")
	_, _ = fmt.Fprintln(w, "  availwin snapshot verify -db SQLITE [-mode quick|full]")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "Subcommands:")
	_, _ = fmt.Fprintln(w, "  import    Store a YAML snapshot in a SQLite database")
	_, _ = fmt.Fprintln(w, "  verify    Check database integrity")
}

func runSnapshotImport(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("availwin snapshot import", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var in, db string
	fs.StringVar(&in, "in", "", "YAML snapshot to import")
	fs.StringVar(&db, "db", "", "SQLite database to write")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	in, db = strings.TrimSpace(in), strings.TrimSpace(db)
	if in == "" || db == "" {
		_, _ = fmt.Fprintln(stderr, "Error: -in and -db are required")
		return 2
	}

	// #nosec G304 -- path is an operator-supplied flag
	f, err := os.Open(in)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = f.Close() }()

	doc, err := catalog.Decode(f)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %s: %v\n", in, err)
		return 1
	}
	// Reject documents that would not load back.
	if _, err := doc.Snapshot(); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %s: %v\n", in, err)
		return 1
	}

	store, err := sqlite.NewStore(db, sqlite.DefaultConfig())
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveSnapshot(context.Background(), doc); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(stdout, "imported %d statuses, %d contracts, %d packages into %s\n",
		len(doc.Statuses), len(doc.Contracts), len(doc.Packages), db)
	return 0
}

func runSnapshotVerify(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("availwin snapshot verify", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var db, mode string
	fs.StringVar(&db, "db", "", "SQLite database to check")
	fs.StringVar(&mode, "mode", sqlite.VerifyQuick, "Verification mode: quick or full")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if strings.TrimSpace(db) == "" {
		_, _ = fmt.Fprintln(stderr, "Error: -db is required")
		return 2
	}
	if _, err := os.Stat(db); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	issues, err := sqlite.VerifyIntegrity(context.Background(), db, mode)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if len(issues) > 0 {
		_, _ = fmt.Fprintf(stderr, "%s: %d integrity issue(s)\n", db, len(issues))
		for _, issue := range issues {
			_, _ = fmt.Fprintf(stderr, "  - %s\n", issue)
		}
		return 1
	}
	_, _ = fmt.Fprintf(stdout, "%s: ok (%s)\n", db, mode)
	return 0
}
