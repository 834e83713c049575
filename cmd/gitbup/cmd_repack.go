package main

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ulrikstorm/gitbup/internal/errors"
	"github.com/ulrikstorm/gitbup/internal/maintenance"
)

var cmdRepack = &cobra.Command{
	Use:               "repack",
	Short:             "Pack every reachable object and sweep the rest",
	DisableAutoGenTag: true,
	Args:              cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openRepo()
		if err != nil {
			return err
		}
		defer repo.Free()

		result, err := maintenance.Repack(repo)
		if err != nil {
			return errors.Wrap(err, "repack")
		}

		cmd.Printf("packed %d objects, swept %d loose objects (%s -> %s)\n",
			result.ObjectsPacked, result.ObjectsSwept,
			humanize.Bytes(uint64(result.SizeBefore)), humanize.Bytes(uint64(result.SizeAfter)))
		return nil
	},
}

func init() {
	cmdRoot.AddCommand(cmdRepack)
}
