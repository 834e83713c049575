package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ulrikstorm/gitbup/internal/errors"
)

var cmdAdd = &cobra.Command{
	Use:               "add <pathspec>",
	Short:             "Stage a file's contents for the next commit",
	DisableAutoGenTag: true,
	Args:              cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdd(args[0])
	},
}

func init() {
	cmdRoot.AddCommand(cmdAdd)
}

func runAdd(pathspec string) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}
	defer repo.Free()

	data, err := os.ReadFile(filepath.Join(repo.Path(), pathspec))
	if err != nil {
		return errors.Wrap(err, "add")
	}

	if _, err := repo.StageBlob(pathspec, data); err != nil {
		return errors.Wrap(err, "add")
	}
	return nil
}
