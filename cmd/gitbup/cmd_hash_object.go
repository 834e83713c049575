package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ulrikstorm/gitbup/internal/errors"
	"github.com/ulrikstorm/gitbup/internal/odb"
)

var cmdHashObject = &cobra.Command{
	Use:               "hash-object <file>",
	Short:             "Print the fingerprint a file's contents would get as a blob",
	DisableAutoGenTag: true,
	Args:              cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return errors.Wrap(err, "hash-object")
		}
		cmd.Println(odb.HashBlob(data).String())
		return nil
	},
}

func init() {
	cmdRoot.AddCommand(cmdHashObject)
}
