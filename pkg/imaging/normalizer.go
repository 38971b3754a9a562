// Package imaging turns uploaded beer photos into fixed-size square images.
//
// A photo is decoded, flattened to opaque RGB, shrunk (never enlarged) so
// that it fits inside a Size x Size box, centered on a canvas filled with the
// configured color and staged next to <slug>.<ext> below the images
// directory. The staged file only takes its final name on Commit, so a caller
// can keep an existing photo intact until the record that owns it is stored.
package imaging

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // registers the GIF decoder
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp" // registers the BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // registers the WebP decoder

	"droscher.com/BeerLog/configs"
)

var (
	ErrDecode      = errors.New("could not decode image")
	ErrInvalidSlug = errors.New("image name is empty")
)

type Normalizer struct {
	root    string
	dir     string
	size    int
	format  string
	quality int
	fill    color.RGBA
	logger  *zap.Logger
}

func NewNormalizer(conf *configs.Config, logger *zap.Logger) (*Normalizer, error) {
	fill, err := conf.Images.FillColor()
	if err != nil {
		return nil, err
	}

	return &Normalizer{
		root:    conf.Root,
		dir:     conf.Images.Dir,
		size:    conf.Images.Size,
		format:  conf.Images.Format,
		quality: conf.Images.Quality,
		fill:    fill,
		logger:  logger,
	}, nil
}

// Staged is an encoded image waiting in the images directory under a temporary name.
type Staged struct {
	// Path is the final location relative to the asset root.
	Path   string
	Temp   string
	Target string
}

// Commit moves the staged file onto its final name, replacing any file already there.
func (s *Staged) Commit() error {
	return os.Rename(s.Temp, s.Target)
}

// Discard removes the staged file. It is a no-op after Commit.
func (s *Staged) Discard() {
	_ = os.Remove(s.Temp)
}

// Normalize encodes the normalized image for slug into a staged file.
// Nothing at the final path changes until the returned Staged is committed.
func (n *Normalizer) Normalize(ctx context.Context, source io.Reader, slug string) (*Staged, error) {
	if slug == "" {
		return nil, ErrInvalidSlug
	}

	decoded, format, err := image.Decode(source)
	if err != nil {
		n.logger.Warn("failed to decode image", zap.String("slug", slug), zap.Error(err))

		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	canvas := n.Square(decoded)

	relative := path.Join(filepath.ToSlash(n.dir), slug+"."+n.extension())
	target := filepath.Join(n.root, filepath.FromSlash(relative))

	if err = os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, err
	}

	temp, err := n.write(filepath.Dir(target), slug, canvas)
	if err != nil {
		return nil, err
	}

	n.logger.Info("normalized image",
		zap.String("slug", slug),
		zap.String("source_format", format),
		zap.Int("source_width", decoded.Bounds().Dx()),
		zap.Int("source_height", decoded.Bounds().Dy()),
		zap.String("path", relative))

	return &Staged{Path: relative, Temp: temp, Target: target}, nil
}

// Square letterboxes img into the configured square canvas without encoding it.
func (n *Normalizer) Square(img image.Image) *image.RGBA {
	flat := flatten(img)
	width, height := fit(flat.Bounds().Dx(), flat.Bounds().Dy(), n.size)

	var resized image.Image = flat

	if width != flat.Bounds().Dx() || height != flat.Bounds().Dy() {
		scaled := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), flat, flat.Bounds(), draw.Src, nil)
		resized = scaled
	}

	canvas := image.NewRGBA(image.Rect(0, 0, n.size, n.size))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(n.fill), image.Point{}, draw.Src)

	offset := image.Pt((n.size-width)/2, (n.size-height)/2)
	draw.Draw(canvas, image.Rectangle{Min: offset, Max: offset.Add(image.Pt(width, height))}, resized, resized.Bounds().Min, draw.Src)

	return canvas
}

func (n *Normalizer) extension() string {
	return configs.Images{Format: n.format}.Extension()
}

func (n *Normalizer) write(dir, slug string, img image.Image) (string, error) {
	file, err := os.CreateTemp(dir, "."+slug+"-*."+n.extension())
	if err != nil {
		return "", err
	}

	if n.format == configs.FormatPNG {
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		err = encoder.Encode(file, img)
	} else {
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: n.quality})
	}

	if closeErr := file.Close(); err == nil {
		err = closeErr
	}

	if err == nil {
		err = os.Chmod(file.Name(), 0o644)
	}

	if err != nil {
		_ = os.Remove(file.Name())

		return "", fmt.Errorf("encoding %s: %w", slug, err)
	}

	return file.Name(), nil
}

// flatten drops the alpha channel, keeping the straight (non-premultiplied) color of every pixel.
func flatten(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	flat := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA) //nolint:forcetypeassert // NRGBAModel always returns NRGBA
			flat.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}

	return flat
}

// fit shrinks width x height to fit inside limit x limit, keeping the aspect ratio.
func fit(width, height, limit int) (int, int) {
	if width <= limit && height <= limit {
		return width, height
	}

	scale := math.Min(float64(limit)/float64(width), float64(limit)/float64(height))

	return clamp(int(math.Round(float64(width)*scale)), limit), clamp(int(math.Round(float64(height)*scale)), limit)
}

func clamp(value, limit int) int {
	if value < 1 {
		return 1
	}

	if value > limit {
		return limit
	}

	return value
}
