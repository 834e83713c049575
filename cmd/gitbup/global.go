package main

import (
	"os"

	"github.com/ulrikstorm/gitbup/internal/bupbackend"
	"github.com/ulrikstorm/gitbup/internal/errors"
	"github.com/ulrikstorm/gitbup/internal/odb"
)

// repoPath is the -C flag every subcommand but init/hash-object needs,
// the same "run as if started in <path>" shape git -C gives.
var repoPath string

func init() {
	cmdRoot.PersistentFlags().StringVarP(&repoPath, "repo", "C", ".", "run as if started in `path`")
}

// openRepo opens the repository at repoPath with the chunking backend
// wired in, the only backend this CLI ever registers.
func openRepo() (*odb.Repository, error) {
	if !odb.Exists(repoPath) {
		return nil, errors.Fatalf("not a gitbup repository: %s", repoPath)
	}
	repo, err := odb.Open(repoPath, bupbackend.New)
	if err != nil {
		return nil, errors.Wrap(err, "open repository")
	}
	return repo, nil
}

func envLookup(name string) string {
	return os.Getenv(name)
}
