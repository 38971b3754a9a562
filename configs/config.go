package configs

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kkyr/fig"
	"go.uber.org/zap"
)

const (
	BackendFile     = "jsonl"
	BackendPostgres = "postgres"

	FormatPNG  = "png"
	FormatJPEG = "jpeg"
)

type Store struct {
	Backend  string `default:"jsonl"`
	DataFile string `default:"data/beer.jsonl"`
}

type Images struct {
	Dir     string `default:"assets/images/beers"`
	Size    int    `default:"1200"`
	Format  string `default:"jpeg"`
	Quality int    `default:"95"`
	Fill    string `default:"#f0f0f0"`
}

type DB struct {
	Host               string
	Port               int    `default:"5432"`
	User               string `default:"postgres"`
	Password           string
	Database           string `default:"postgres"`
	MaxIdleConnections int    `default:"10"`
	MaxOpenConnections int    `default:"10"`
}

type Server struct {
	Port int `default:"7860"`
}

type Publish struct {
	BuildCommand  string
	BuildTimeout  time.Duration `default:"60s"`
	PushTimeout   time.Duration `default:"30s"`
	CommitMessage string        `default:"new beer"`
	Remote        string        `default:"origin"`
	AuthorName    string        `default:"Beer Log"`
	AuthorEmail   string        `default:"beerlog@localhost"`
}

type Site struct {
	Output   string `default:"js/beer.js"`
	Template string `default:"js/beer-template.js"`
}

type Integrations struct {
	Beer []string
}

type Config struct {
	Root         string `default:"."`
	Store        Store
	Images       Images
	DB           DB
	Server       Server
	Publish      Publish
	Site         Site
	Integrations Integrations
}

const envPrefix = "BEERLOG" // env prefix for env vars

var ErrConfiguration = errors.New("configuration error")

func GetConfig(configFileName string, logger *zap.Logger) (*Config, error) {
	config := Config{}
	homeDir, _ := os.UserHomeDir()

	logger.Info("Loading config", zap.String("file", configFileName))

	dirs := []string{".", homeDir}
	if filepath.IsAbs(configFileName) {
		dirs = []string{filepath.Dir(configFileName)}
		configFileName = filepath.Base(configFileName)
	}

	err := fig.Load(&config, fig.File(configFileName), fig.Dirs(dirs...), fig.UseEnv(envPrefix))
	if err != nil {
		if strings.Contains(err.Error(), "file not found") {
			logger.Warn("Could not find config file", zap.String("file", configFileName))

			err = fig.Load(&config, fig.IgnoreFile(), fig.UseEnv(envPrefix))
			if err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	if err = config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile:
	case BackendPostgres:
		if c.DB.Host == "" {
			return fmt.Errorf("%w: DB.Host is required for the %s backend", ErrConfiguration, BackendPostgres)
		}
	default:
		return fmt.Errorf("%w: unknown store backend %q", ErrConfiguration, c.Store.Backend)
	}

	switch c.Images.Format {
	case FormatPNG, FormatJPEG:
	default:
		return fmt.Errorf("%w: unsupported image format %q", ErrConfiguration, c.Images.Format)
	}

	if c.Images.Size <= 0 {
		return fmt.Errorf("%w: image size must be positive, got %d", ErrConfiguration, c.Images.Size)
	}

	if c.Images.Quality < 1 || c.Images.Quality > 100 {
		return fmt.Errorf("%w: image quality must be between 1 and 100, got %d", ErrConfiguration, c.Images.Quality)
	}

	if _, err := c.Images.FillColor(); err != nil {
		return err
	}

	if c.Publish.BuildTimeout <= 0 || c.Publish.PushTimeout <= 0 {
		return fmt.Errorf("%w: publish timeouts must be positive", ErrConfiguration)
	}

	return nil
}

// FillColor parses the #rrggbb canvas color.
func (i Images) FillColor() (color.RGBA, error) {
	var fill color.RGBA

	if len(i.Fill) != 7 || i.Fill[0] != '#' {
		return fill, fmt.Errorf("%w: fill color must look like #rrggbb, got %q", ErrConfiguration, i.Fill)
	}

	if _, err := fmt.Sscanf(i.Fill, "#%02x%02x%02x", &fill.R, &fill.G, &fill.B); err != nil {
		return fill, fmt.Errorf("%w: invalid fill color %q: %w", ErrConfiguration, i.Fill, err)
	}

	fill.A = 0xff

	return fill, nil
}

func (i Images) Extension() string {
	if i.Format == FormatPNG {
		return "png"
	}

	return "jpg"
}

// Path resolves a root-relative (slash separated) path against Root.
func (c *Config) Path(relative string) string {
	if filepath.IsAbs(relative) {
		return relative
	}

	return filepath.Join(c.Root, filepath.FromSlash(relative))
}
