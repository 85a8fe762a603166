package commands

import (
	"github.com/spf13/cobra"

	"github.com/drivernote/drivernote/config"
	"github.com/drivernote/drivernote/errors"
	"github.com/drivernote/drivernote/featurestore"
	"github.com/drivernote/drivernote/logger"
)

// resolveRepoPath determines the feature repository path for a command.
// Precedence: --repo flag > DRIVERNOTE_REPO_PATH > configuration.
func resolveRepoPath(cmd *cobra.Command) (string, error) {
	if flagPath, _ := cmd.Flags().GetString("repo"); flagPath != "" {
		return flagPath, nil
	}

	repoPath, err := config.GetRepoPath()
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve repository path")
	}
	if repoPath == "" {
		return "", errors.WithHint(
			errors.New("no feature repository configured"),
			"run 'drivernote init <path>' or pass --repo",
		)
	}

	return repoPath, nil
}

// openFeatureStore opens the feature store client for the resolved repository
func openFeatureStore(cmd *cobra.Command) (*featurestore.Client, error) {
	repoPath, err := resolveRepoPath(cmd)
	if err != nil {
		return nil, err
	}

	client, err := featurestore.NewClient(repoPath, logger.Logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open feature repository %s", repoPath)
	}

	return client, nil
}
