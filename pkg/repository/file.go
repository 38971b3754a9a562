package repository

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"droscher.com/BeerLog/configs"
	"droscher.com/BeerLog/pkg/model"
)

const (
	lockRetryDelay = 50 * time.Millisecond
	maxLineSize    = 1 << 20
)

// FileRepository keeps one JSON encoded beer per line. Appends hold an
// advisory lock on <file>.lock so the duplicate check and the write cannot
// interleave with another local writer.
type FileRepository struct {
	path   string
	lock   *flock.Flock
	logger *zap.Logger
}

func NewFileRepository(conf *configs.Config, logger *zap.Logger) (*FileRepository, error) {
	path := conf.Path(conf.Store.DataFile)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &FileRepository{path: path, lock: flock.New(path + ".lock"), logger: logger}, nil
}

func (r *FileRepository) Path() string {
	return r.path
}

func (r *FileRepository) Exists(ctx context.Context, id string) (bool, error) {
	beers, err := r.ReadAll(ctx)
	if err != nil {
		return false, err
	}

	for _, beer := range beers {
		if beer.ID == id {
			return true, nil
		}
	}

	return false, nil
}

func (r *FileRepository) Append(ctx context.Context, beer model.Beer) error {
	locked, err := r.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("locking %s: %w", r.path, err)
	}

	if !locked {
		return fmt.Errorf("could not lock %s", r.path)
	}

	defer r.lock.Unlock() //nolint:errcheck // nothing useful to do if unlock fails

	exists, err := r.Exists(ctx, beer.ID)
	if err != nil {
		return err
	}

	if exists {
		r.logger.Warn("rejected duplicate beer", zap.String("id", beer.ID))

		return fmt.Errorf("%w: %q", ErrDuplicateIdentifier, beer.ID)
	}

	line, err := json.Marshal(beer)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	prefix, err := r.missingNewline()
	if err != nil {
		_ = file.Close()

		return err
	}

	_, err = file.Write(append(append(prefix, line...), '\n'))
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("appending to %s: %w", r.path, err)
	}

	r.logger.Info("appended beer", zap.String("id", beer.ID), zap.String("file", r.path))

	return nil
}

// missingNewline returns a newline when the file was edited by hand and no longer ends with one.
func (r *FileRepository) missingNewline() ([]byte, error) {
	file, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil || info.Size() == 0 {
		return nil, err
	}

	last := make([]byte, 1)
	if _, err = file.ReadAt(last, info.Size()-1); err != nil {
		return nil, err
	}

	if last[0] == '\n' {
		return nil, nil
	}

	return []byte{'\n'}, nil
}

func (r *FileRepository) ReadAll(ctx context.Context) ([]model.Beer, error) {
	file, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []model.Beer{}, nil
	}

	if err != nil {
		return nil, err
	}
	defer file.Close()

	return decodeLines(ctx, file)
}

func (r *FileRepository) ListSortedByDateDescending(ctx context.Context) ([]model.Beer, error) {
	return sortedByDateDescending(r.ReadAll(ctx))
}

func decodeLines(ctx context.Context, reader io.Reader) ([]model.Beer, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	beers := []model.Beer{}

	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var beer model.Beer
		if err := json.Unmarshal(line, &beer); err != nil {
			return nil, fmt.Errorf("%w on line %d: %w", ErrCorruptRecord, lineNumber, err)
		}

		beers = append(beers, beer)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return beers, nil
}
