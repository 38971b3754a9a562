package publish_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"droscher.com/BeerLog/configs"
	"droscher.com/BeerLog/pkg/metrics"
	"droscher.com/BeerLog/pkg/publish"
)

type fakeBuilder struct {
	mock.Mock
}

func (f *fakeBuilder) Build(ctx context.Context) (string, error) {
	args := f.Called(ctx)

	return args.String(0), args.Error(1)
}

type fakeGit struct {
	mock.Mock
}

func (f *fakeGit) StageAll(ctx context.Context) error {
	return f.Called(ctx).Error(0)
}

func (f *fakeGit) Commit(ctx context.Context, message string) (string, error) {
	args := f.Called(ctx, message)

	return args.String(0), args.Error(1)
}

func (f *fakeGit) Push(ctx context.Context, remote string) error {
	return f.Called(ctx, remote).Error(0)
}

type PublisherTestSuite struct {
	suite.Suite
	conf      configs.Publish
	builder   *fakeBuilder
	git       *fakeGit
	metrics   *metrics.Metrics
	publisher *publish.Publisher
}

func TestPublisherTestSuite(t *testing.T) {
	suite.Run(t, new(PublisherTestSuite))
}

func (suite *PublisherTestSuite) SetupTest() {
	suite.conf = configs.Publish{
		BuildTimeout:  time.Minute,
		PushTimeout:   30 * time.Second,
		CommitMessage: "new beer",
		Remote:        "origin",
	}
	suite.builder = &fakeBuilder{}
	suite.builder.Test(suite.T())
	suite.git = &fakeGit{}
	suite.git.Test(suite.T())
	suite.metrics = metrics.New()
	suite.publisher = publish.NewPublisher(suite.conf, suite.builder, suite.git, suite.metrics, zaptest.NewLogger(suite.T()))
}

func (suite *PublisherTestSuite) TearDownTest() {
	suite.builder.AssertExpectations(suite.T())
	suite.git.AssertExpectations(suite.T())
}

func (suite *PublisherTestSuite) TestPublish_AllSteps() {
	suite.builder.On("Build", mock.Anything).Return("done", nil).Once()
	suite.git.On("StageAll", mock.Anything).Return(nil).Once()
	suite.git.On("Commit", mock.Anything, "new beer").Return("0123456789abcdef", nil).Once()
	suite.git.On("Push", mock.Anything, "origin").Return(nil).Once()

	report, err := suite.publisher.Publish(context.Background())
	suite.Require().NoError(err)

	suite.Equal("Step 1/4: Running build-all...\n"+
		"Build completed successfully\n"+
		"\nStep 2/4: Adding files to git...\n"+
		"Files added to git\n"+
		"\nStep 3/4: Committing with message: 'new beer'\n"+
		"Commit created successfully\n"+
		"\nStep 4/4: Pushing to remote...\n"+
		"Pushed to remote successfully\n"+
		"\n✅ Successfully synced to git!", report)
}

func (suite *PublisherTestSuite) TestPublish_BuildFailureHaltsEverything() {
	suite.builder.On("Build", mock.Anything).Return("npm ERR! missing script: build-all", errors.New("exit status 1")).Once()

	report, err := suite.publisher.Publish(context.Background())

	var stepErr *publish.StepError

	suite.Require().ErrorAs(err, &stepErr)
	suite.Equal(publish.StepBuild, stepErr.Step)
	suite.Equal("Build failed:\nnpm ERR! missing script: build-all", err.Error())
	suite.Equal("Build failed:\nnpm ERR! missing script: build-all", report)

	suite.git.AssertNotCalled(suite.T(), "StageAll", mock.Anything)
	suite.git.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.git.AssertNotCalled(suite.T(), "Push", mock.Anything, mock.Anything)

	expected := `
# HELP beerlog_publishes_total Publish runs by outcome (the failed step name, or ok).
# TYPE beerlog_publishes_total counter
beerlog_publishes_total{outcome="build"} 1
`
	suite.NoError(testutil.GatherAndCompare(suite.metrics.Registry, strings.NewReader(expected), "beerlog_publishes_total"))
}

func (suite *PublisherTestSuite) TestPublish_NothingToCommitIsInformational() {
	suite.builder.On("Build", mock.Anything).Return("", nil).Once()
	suite.git.On("StageAll", mock.Anything).Return(nil).Once()
	suite.git.On("Commit", mock.Anything, "new beer").Return("", publish.ErrNothingToCommit).Once()
	suite.git.On("Push", mock.Anything, "origin").Return(nil).Once()

	report, err := suite.publisher.Publish(context.Background())
	suite.Require().NoError(err)
	suite.Contains(report, "\nStep 3/4: Committing with message: 'new beer'\nNothing new to commit\n")
}

func (suite *PublisherTestSuite) TestPublish_PushFailureReported() {
	suite.builder.On("Build", mock.Anything).Return("", nil).Once()
	suite.git.On("StageAll", mock.Anything).Return(nil).Once()
	suite.git.On("Commit", mock.Anything, "new beer").Return("abc", nil).Once()
	suite.git.On("Push", mock.Anything, "origin").Return(errors.New("authentication required")).Once()

	report, err := suite.publisher.Publish(context.Background())
	suite.Require().Error(err)
	suite.Equal("Git push failed:\nauthentication required", err.Error())
	suite.Equal(err.Error(), report)
}

func (suite *PublisherTestSuite) TestPublish_StageFailureReported() {
	suite.builder.On("Build", mock.Anything).Return("", nil).Once()
	suite.git.On("StageAll", mock.Anything).Return(errors.New("index.lock exists")).Once()

	report, err := suite.publisher.Publish(context.Background())
	suite.Require().Error(err)
	suite.Equal("Git add failed:\nindex.lock exists", report)
	suite.git.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *PublisherTestSuite) TestPublish_BuildIsBounded() {
	suite.conf.BuildTimeout = 10 * time.Millisecond
	publisher := publish.NewPublisher(suite.conf, suite.builder, suite.git, nil, zaptest.NewLogger(suite.T()))

	suite.builder.On("Build", mock.Anything).Return("", context.DeadlineExceeded).Once().
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context) //nolint:forcetypeassert
			_, hasDeadline := ctx.Deadline()
			suite.True(hasDeadline)
		})

	report, err := publisher.Publish(context.Background())
	suite.Require().ErrorIs(err, context.DeadlineExceeded)
	suite.Equal("Error: Operation timed out", report)
}

func (suite *PublisherTestSuite) TestPublish_PushIsBounded() {
	suite.conf.PushTimeout = 20 * time.Millisecond
	publisher := publish.NewPublisher(suite.conf, suite.builder, suite.git, nil, zaptest.NewLogger(suite.T()))

	suite.builder.On("Build", mock.Anything).Return("", nil).Once()
	suite.git.On("StageAll", mock.Anything).Return(nil).Once()
	suite.git.On("Commit", mock.Anything, "new beer").Return("abc", nil).Once()
	suite.git.On("Push", mock.Anything, "origin").Return(context.DeadlineExceeded).Once().
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context) //nolint:forcetypeassert

			select {
			case <-ctx.Done():
			case <-time.After(5 * time.Second):
				suite.Fail("push was not cancelled")
			}
		})

	started := time.Now()
	report, err := publisher.Publish(context.Background())

	suite.Require().ErrorIs(err, context.DeadlineExceeded)
	suite.Less(time.Since(started), 5*time.Second)
	suite.Equal("Error: Operation timed out", report)

	var stepErr *publish.StepError

	suite.Require().ErrorAs(err, &stepErr)
	suite.Equal(publish.StepPush, stepErr.Step)
}

func TestCommandBuilder(t *testing.T) {
	dir := t.TempDir()
	builder := publish.NewCommandBuilder("echo built > marker && echo ok", dir, zaptest.NewLogger(t))

	output, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if output != "ok" {
		t.Errorf("output = %q", output)
	}

	if _, err = os.Stat(filepath.Join(dir, "marker")); err != nil {
		t.Errorf("command did not run in %s: %v", dir, err)
	}

	output, err = publish.NewCommandBuilder("echo broken >&2; exit 3", dir, zaptest.NewLogger(t)).Build(context.Background())
	if err == nil || output != "broken" {
		t.Errorf("expected failure with output, got %q, %v", output, err)
	}
}

func TestCommandBuilder_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := publish.NewCommandBuilder("sleep 5", t.TempDir(), zaptest.NewLogger(t)).Build(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestSelectBuilder(t *testing.T) {
	native := &fakeBuilder{}
	conf := &configs.Config{Root: t.TempDir()}

	if publish.SelectBuilder(conf, native, zaptest.NewLogger(t)) != native {
		t.Error("empty build command should select the native builder")
	}

	conf.Publish.BuildCommand = "make"
	if _, ok := publish.SelectBuilder(conf, native, zaptest.NewLogger(t)).(*publish.CommandBuilder); !ok {
		t.Error("build command should select the command builder")
	}
}

func TestGoGit_StageCommitAndNothingToCommit(t *testing.T) {
	dir := t.TempDir()

	if _, err := git.PlainInit(dir, false); err != nil {
		t.Fatalf("init: %v", err)
	}

	conf := &configs.Config{
		Root:    dir,
		Publish: configs.Publish{AuthorName: "Beer Log", AuthorEmail: "beerlog@localhost"},
	}
	repo := publish.NewGoGit(conf, zaptest.NewLogger(t))
	ctx := context.Background()

	if _, err := repo.Commit(ctx, "new beer"); !errors.Is(err, publish.ErrNothingToCommit) {
		t.Fatalf("empty repo commit: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "beer.jsonl"), []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := repo.StageAll(ctx); err != nil {
		t.Fatalf("stage: %v", err)
	}

	hash, err := repo.Commit(ctx, "new beer")
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	if len(hash) != 40 {
		t.Errorf("hash = %q", hash)
	}

	if err = repo.StageAll(ctx); err != nil {
		t.Fatalf("stage: %v", err)
	}

	if _, err = repo.Commit(ctx, "new beer"); !errors.Is(err, publish.ErrNothingToCommit) {
		t.Errorf("second commit: %v", err)
	}

	if err = repo.Push(ctx, "origin"); err == nil {
		t.Error("push without a remote should fail")
	}
}
