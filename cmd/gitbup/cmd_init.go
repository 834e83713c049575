package main

import (
	"github.com/spf13/cobra"

	"github.com/ulrikstorm/gitbup/internal/bupbackend"
	"github.com/ulrikstorm/gitbup/internal/errors"
	"github.com/ulrikstorm/gitbup/internal/odb"
)

var cmdInit = &cobra.Command{
	Use:               "init <path>",
	Short:             "Create a new, empty repository",
	DisableAutoGenTag: true,
	Args:              cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if odb.Exists(path) {
			return errors.Fatalf("repository already exists at %s", path)
		}
		repo, err := odb.Init(path, bupbackend.New)
		if err != nil {
			return errors.Wrap(err, "init")
		}
		repo.Free()
		cmd.Printf("initialized empty repository at %s\n", path)
		return nil
	},
}

func init() {
	cmdRoot.AddCommand(cmdInit)
}
