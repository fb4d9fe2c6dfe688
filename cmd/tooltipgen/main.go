// Command tooltipgen adds inspector tooltips to documented C# fields.
//
// For every public or serialized field preceded by /// documentation in a
// MonoBehaviour, ScriptableObject or serializable type, it writes a
// [Tooltip("...")] attribute carrying the summary text. Existing tooltips
// are refreshed when the documentation changes.
//
// # Usage
//
//	tooltipgen apply [flags] [file.cs|directory ...]
//	tooltipgen watch [flags] [directory ...]
//	tooltipgen names [flags] [file.cs|directory ...]
//	tooltipgen schema
//
// Eligible types are found by indexing the sources given on the command
// line (or --index). Use --name to add types declared elsewhere, such as in
// compiled assemblies.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newApp(os.Stdout, os.Stderr).execute(ctx, os.Args[1:])

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
