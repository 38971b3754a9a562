// Package publish republishes the static site: build, stage, commit and push.
package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"droscher.com/BeerLog/configs"
	"droscher.com/BeerLog/pkg/metrics"
)

const (
	StepBuild  = "Build"
	StepStage  = "Stage"
	StepCommit = "Commit"
	StepPush   = "Push"

	stepCount = 4
)

var ErrNothingToCommit = errors.New("nothing to commit")

type Builder interface {
	Build(ctx context.Context) (string, error)
}

type Git interface {
	StageAll(ctx context.Context) error
	Commit(ctx context.Context, message string) (string, error)
	Push(ctx context.Context, remote string) error
}

var failureTexts = map[string]string{
	StepBuild:  "Build failed",
	StepStage:  "Git add failed",
	StepCommit: "Git commit failed",
	StepPush:   "Git push failed",
}

// StepError reports the step that failed together with its raw output.
type StepError struct {
	Step   string
	Output string
	Err    error
}

func (s *StepError) Error() string {
	if errors.Is(s.Err, context.DeadlineExceeded) {
		return "Error: Operation timed out"
	}

	text := strings.TrimSpace(s.Output)
	if text == "" && s.Err != nil {
		text = s.Err.Error()
	}

	label, ok := failureTexts[s.Step]
	if !ok {
		label = s.Step + " failed"
	}

	return fmt.Sprintf("%s:\n%s", label, text)
}

func (s *StepError) Unwrap() error {
	return s.Err
}

type Publisher struct {
	builder      Builder
	git          Git
	conf         configs.Publish
	metrics      *metrics.Metrics
	logger       *zap.Logger
	buildTimeout time.Duration
	pushTimeout  time.Duration
}

func NewPublisher(conf configs.Publish, builder Builder, git Git, m *metrics.Metrics, logger *zap.Logger) *Publisher {
	return &Publisher{
		builder:      builder,
		git:          git,
		conf:         conf,
		metrics:      m,
		logger:       logger,
		buildTimeout: conf.BuildTimeout,
		pushTimeout:  conf.PushTimeout,
	}
}

// Publish runs the four steps in order and returns their progress report.
// The first failing step ends the run: the report is then that step's failure
// text alone and the error is a *StepError.
func (p *Publisher) Publish(ctx context.Context) (string, error) {
	var report []string

	step := func(n int, text string) {
		line := fmt.Sprintf("Step %d/%d: %s", n, stepCount, text)
		if n > 1 {
			line = "\n" + line
		}

		report = append(report, line)
	}

	step(1, "Running build-all...")

	output, err := p.build(ctx)
	if err != nil {
		return p.fail(&StepError{Step: StepBuild, Output: output, Err: err})
	}

	report = append(report, "Build completed successfully")

	step(2, "Adding files to git...")

	if err = p.git.StageAll(ctx); err != nil {
		return p.fail(&StepError{Step: StepStage, Err: err})
	}

	report = append(report, "Files added to git")

	step(3, fmt.Sprintf("Committing with message: '%s'", p.conf.CommitMessage))

	hash, err := p.git.Commit(ctx, p.conf.CommitMessage)

	switch {
	case errors.Is(err, ErrNothingToCommit):
		report = append(report, "Nothing new to commit")
	case err != nil:
		return p.fail(&StepError{Step: StepCommit, Err: err})
	default:
		report = append(report, "Commit created successfully")
		p.logger.Info("committed site", zap.String("hash", shortHash(hash)))
	}

	step(4, "Pushing to remote...")

	if err = p.push(ctx); err != nil {
		return p.fail(&StepError{Step: StepPush, Err: err})
	}

	report = append(report, "Pushed to remote successfully", "\n✅ Successfully synced to git!")

	p.metrics.Published("ok")
	p.logger.Info("published site", zap.String("remote", p.conf.Remote))

	return strings.Join(report, "\n"), nil
}

func (p *Publisher) build(ctx context.Context) (string, error) {
	if p.buildTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, p.buildTimeout)
		defer cancel()
	}

	return p.builder.Build(ctx)
}

func (p *Publisher) push(ctx context.Context) error {
	if p.pushTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, p.pushTimeout)
		defer cancel()
	}

	return p.git.Push(ctx, p.conf.Remote)
}

func (p *Publisher) fail(err *StepError) (string, error) {
	p.metrics.Published(strings.ToLower(err.Step))
	p.logger.Error("publish failed", zap.String("step", err.Step), zap.Error(err.Err))

	return err.Error(), err
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}

	return hash
}
