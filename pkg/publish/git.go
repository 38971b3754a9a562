package publish

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"go.uber.org/zap"

	"droscher.com/BeerLog/configs"
)

// GoGit drives the site repository in-process.
type GoGit struct {
	path        string
	authorName  string
	authorEmail string
	logger      *zap.Logger
}

func NewGoGit(conf *configs.Config, logger *zap.Logger) *GoGit {
	return &GoGit{
		path:        conf.Path(""),
		authorName:  conf.Publish.AuthorName,
		authorEmail: conf.Publish.AuthorEmail,
		logger:      logger,
	}
}

func (g *GoGit) open() (*git.Repository, *git.Worktree, error) {
	repo, err := git.PlainOpenWithOptions(g.path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, nil, fmt.Errorf("open repo %s: %w", g.path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, nil, fmt.Errorf("get worktree: %w", err)
	}

	return repo, wt, nil
}

// StageAll stages additions, modifications and deletions alike.
func (g *GoGit) StageAll(_ context.Context) error {
	_, wt, err := g.open()
	if err != nil {
		return err
	}

	if err = wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("stage all: %w", err)
	}

	return nil
}

// Commit returns ErrNothingToCommit when the index matches HEAD.
func (g *GoGit) Commit(_ context.Context, message string) (string, error) {
	_, wt, err := g.open()
	if err != nil {
		return "", err
	}

	status, err := wt.Status()
	if err != nil {
		return "", fmt.Errorf("status: %w", err)
	}

	staged := false

	for _, st := range status {
		if st.Staging != git.Unmodified && st.Staging != git.Untracked {
			staged = true

			break
		}
	}

	if !staged {
		return "", ErrNothingToCommit
	}

	commit, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  g.authorName,
			Email: g.authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	g.logger.Info("committed", zap.String("hash", commit.String()))

	return commit.String(), nil
}

func (g *GoGit) Push(ctx context.Context, remote string) error {
	repo, _, err := g.open()
	if err != nil {
		return err
	}

	if _, err = repo.Remote(remote); err != nil {
		return fmt.Errorf("get remote %s: %w", remote, err)
	}

	err = repo.PushContext(ctx, &git.PushOptions{RemoteName: remote})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("push: %w", err)
	}

	return nil
}
