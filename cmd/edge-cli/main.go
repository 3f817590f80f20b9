package main

import (
	"fmt"
	"io"
	"os"
)

const version = "0.1.0"

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: edge-cli <command> [options]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	fmt.Fprintf(w, "  version                    Print the CLI version\n")
	fmt.Fprintf(w, "  companies [search]         List companies, optionally filtered\n")
	fmt.Fprintf(w, "  summary <ticker>           Show the latest earnings summary\n")
	fmt.Fprintf(w, "  historical <ticker>        Show quarterly earnings history\n")
	fmt.Fprintf(w, "  transcript <ticker>        Show the earnings call analysis\n")
	fmt.Fprintf(w, "  raw-transcript <ticker>    Print the raw transcript material\n")
	fmt.Fprintf(w, "\nOptions (before arguments): -api URL, -json, -limit N, -timeout D, -attempts N\n")
	fmt.Fprintf(w, "Environment: EDGE_CONFIG, EDGE_API_URL, EDGE_LOG_LEVEL\n\n")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches a command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 1
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "edge-cli %s\n", version)
		return 0
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command: %s\n\n", args[0])
		usage(stderr)
		return 1
	}
	a, rest, err := newApp(args[0], args[1:], stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}
	if err := cmd(a, rest); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", args[0], err)
		return 1
	}
	return 0
}
