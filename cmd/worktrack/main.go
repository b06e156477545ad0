package main

import (
	"os"
	"strings"

	"worktrack-cli/internal/cli"
)

func isBugID(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "bug-") {
		return false
	}
	// Keep it permissive; IDs come from the server but users paste variants.
	return len(s) > len("bug-")
}

func rewriteDirectBugLookupArgs(argv []string) []string {
	// Convenience: `worktrack <bug-id>` works like `worktrack bugs show <bug-id>`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv
	// before parsing.
	//
	// Users often pass persistent flags first (e.g. `worktrack --profile work
	// bug-123`), so we must find the first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	// Minimal persistent-flag awareness. Flags we don't recognize are skipped
	// without consuming a value, so we never eat the bug id by mistake.
	valueFlags := map[string]bool{
		"--api-url": true,
		"--token":   true,
		"--profile": true,
		"--format":  true,
	}
	boolFlags := map[string]bool{
		"--offline": true,
		"--verbose": true,
		"-v":        true,
		"--pretty":  true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// Stop flag parsing; next token (if any) is the first positional.
			if i+1 < len(argv) && isBugID(argv[i+1]) {
				out := make([]string, 0, len(argv)+2)
				out = append(out, argv[:i+1]...)
				out = append(out, "bugs", "show")
				out = append(out, argv[i+1:]...)
				return out
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			// --flag=value form
			if strings.Contains(a, "=") {
				continue
			}
			if boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++ // skip value if present
				continue
			}
			continue
		}

		// First positional token.
		if isBugID(a) {
			out := make([]string, 0, len(argv)+2)
			out = append(out, argv[:i]...)
			out = append(out, "bugs", "show")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectBugLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
