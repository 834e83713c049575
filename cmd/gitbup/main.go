// Command gitbup is a tiny content-addressed object store with bup-style
// rolling-checksum chunking for its blobs, wrapped in a minimal
// git-shaped CLI (init/hash-object/add/commit/show/repack/fsck/stat).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/ulrikstorm/gitbup/internal/errors"
)

func init() {
	// don't import go.uber.org/automaxprocs to disable the log output
	_, _ = maxprocs.Set()
}

var cmdRoot = &cobra.Command{
	Use:   "gitbup",
	Short: "A chunked, content-addressed object store",
	Long: `
gitbup stores blobs by splitting them into content-defined chunks with a
bup-style rolling checksum, deduplicating identical chunks across every
blob ever written. Trees and commits sit on top of that, just enough to
give the chunking store something real to version.
`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	DisableAutoGenTag: true,
}

func main() {
	err := cmdRoot.Execute()

	var exitCode int
	switch {
	case err == nil:
		exitCode = 0
	case errors.IsFatal(err):
		fmt.Fprintln(os.Stderr, err.Error())
		exitCode = 1
	case err != nil:
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		exitCode = 1
	}

	os.Exit(exitCode)
}
