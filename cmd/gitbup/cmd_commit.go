package main

import (
	"github.com/spf13/cobra"

	"github.com/ulrikstorm/gitbup/internal/errors"
	"github.com/ulrikstorm/gitbup/internal/odb"
)

var commitMessage string

var cmdCommit = &cobra.Command{
	Use:               "commit",
	Short:             "Record the staged tree as a new commit",
	DisableAutoGenTag: true,
	Args:              cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if commitMessage == "" {
			return errors.Fatal("commit message (-m) not specified")
		}
		fp, err := runCommit(commitMessage)
		if err != nil {
			return err
		}
		cmd.Println(fp.String())
		return nil
	},
}

func init() {
	cmdCommit.Flags().StringVarP(&commitMessage, "message", "m", "", "commit `message`")
	cmdRoot.AddCommand(cmdCommit)
}

func runCommit(message string) (odb.Fingerprint, error) {
	repo, err := openRepo()
	if err != nil {
		return odb.Fingerprint{}, err
	}
	defer repo.Free()

	treeFp, err := repo.WriteIndexTree()
	if err != nil {
		return odb.Fingerprint{}, errors.Wrap(err, "commit")
	}

	parent, _, err := repo.Head()
	if err != nil {
		return odb.Fingerprint{}, errors.Wrap(err, "commit")
	}

	author := odb.DefaultSignature("GIT_AUTHOR_NAME", "GIT_AUTHOR_EMAIL", envLookup)
	committer := odb.DefaultSignature("GIT_COMMITTER_NAME", "GIT_COMMITTER_EMAIL", envLookup)

	commitFp, err := repo.WriteCommit(odb.Commit{
		Tree:      treeFp,
		Parent:    parent,
		Author:    author,
		Committer: committer,
		Message:   message,
	})
	if err != nil {
		return odb.Fingerprint{}, errors.Wrap(err, "commit")
	}

	if err := repo.SetHead(commitFp); err != nil {
		return odb.Fingerprint{}, errors.Wrap(err, "commit")
	}
	return commitFp, nil
}
