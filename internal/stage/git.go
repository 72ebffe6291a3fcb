// SPDX-License-Identifier: MPL-2.0

package stage

import (
	"errors"
	"fmt"

	"github.com/Masterminds/vcs"
)

// checkout clones the recipe's git repository into SourceDir, or updates an
// existing clone, and switches it to the version's branch.
func (s *Stage) checkout() error {
	remote := s.cfg.Recipe.Git
	if remote == "" {
		return &FetchError{Source: s.cfg.Recipe.Name, Err: errors.New("recipe declares no git repository")}
	}

	repo, err := vcs.NewGitRepo(remote, s.SourceDir())
	if err != nil {
		return &FetchError{Source: remote, Err: vcsErr(err)}
	}

	if !repo.CheckLocal() {
		s.logger.Info("cloning source", "remote", remote, "branch", s.version.Branch)
		if err := repo.Get(); err != nil {
			return &FetchError{Source: remote, Err: vcsErr(err)}
		}
	}
	if err := repo.UpdateVersion(s.version.Branch); err != nil {
		return &FetchError{Source: remote, Err: vcsErr(err)}
	}
	s.logger.Info("updating source", "remote", remote, "branch", s.version.Branch)
	if err := repo.Update(); err != nil {
		return &FetchError{Source: remote, Err: vcsErr(err)}
	}

	if rev, err := repo.Version(); err == nil {
		s.logger.Debug("checked out", "revision", rev)
	}
	return nil
}

// vcsErr appends the command output vcs errors carry.
func vcsErr(err error) error {
	switch verr := err.(type) {
	case *vcs.LocalError:
		return fmt.Errorf("%s: %s", verr.Error(), verr.Out())
	case *vcs.RemoteError:
		return fmt.Errorf("%s: %s", verr.Error(), verr.Out())
	default:
		return err
	}
}
