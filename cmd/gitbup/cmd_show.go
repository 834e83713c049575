package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ulrikstorm/gitbup/internal/errors"
	"github.com/ulrikstorm/gitbup/internal/odb"
)

var cmdShow = &cobra.Command{
	Use:               "show <rev>:<path>",
	Short:             "Print a file's contents as recorded at a given revision",
	DisableAutoGenTag: true,
	Args:              cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow(args[0])
	},
}

func init() {
	cmdRoot.AddCommand(cmdShow)
}

func runShow(spec string) error {
	rev, path, found := strings.Cut(spec, ":")
	if !found || path == "" {
		return errors.Fatalf("expected <rev>:<path>, got %q", spec)
	}

	repo, err := openRepo()
	if err != nil {
		return err
	}
	defer repo.Free()

	commitFp, err := resolveRevision(repo, rev)
	if err != nil {
		return err
	}
	commit, err := repo.ReadCommit(commitFp)
	if err != nil {
		return errors.Wrap(err, "show")
	}
	tree, err := repo.ReadTree(commit.Tree)
	if err != nil {
		return errors.Wrap(err, "show")
	}
	entry, err := lookupPath(repo, tree, path)
	if err != nil {
		return err
	}
	if entry.Kind != odb.KindBlob {
		return errors.Fatalf("%s is not a file", path)
	}
	data, err := repo.ReadBlob(entry.Fingerprint)
	if err != nil {
		return errors.Wrap(err, "show")
	}
	_, err = os.Stdout.Write(data)
	return err
}
