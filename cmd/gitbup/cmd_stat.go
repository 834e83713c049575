package main

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ulrikstorm/gitbup/internal/bupbackend"
	"github.com/ulrikstorm/gitbup/internal/errors"
	"github.com/ulrikstorm/gitbup/internal/stats"
)

var cmdStat = &cobra.Command{
	Use:               "stat",
	Short:             "Print chunk pool and backend call counters",
	DisableAutoGenTag: true,
	Args:              cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openRepo()
		if err != nil {
			return err
		}
		defer repo.Free()

		backend, ok := repo.Backend().(*bupbackend.Backend)
		if !ok {
			return errors.Errorf("stat: unexpected backend type %T", repo.Backend())
		}

		pool := backend.Pool()
		cmd.Printf("chunks:       %d\n", pool.Count())
		cmd.Printf("chunk bytes:  %s\n", humanize.Bytes(uint64(pool.TotalBytes())))
		cmd.Printf("read calls:   %d\n", stats.Global.ReadCalls())
		cmd.Printf("write calls:  %d\n", stats.Global.WriteCalls())
		cmd.Printf("free calls:   %d\n", stats.Global.FreeCalls())
		return nil
	},
}

func init() {
	cmdRoot.AddCommand(cmdStat)
}
