package main

import (
	"github.com/spf13/cobra"

	"github.com/ulrikstorm/gitbup/internal/maintenance"
)

var cmdFsck = &cobra.Command{
	Use:               "fsck",
	Short:             "Verify every reachable object is present and readable",
	DisableAutoGenTag: true,
	Args:              cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openRepo()
		if err != nil {
			return err
		}
		defer repo.Free()

		if err := maintenance.Fsck(repo); err != nil {
			return err
		}
		cmd.Println("ok")
		return nil
	},
}

func init() {
	cmdRoot.AddCommand(cmdFsck)
}
