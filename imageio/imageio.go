// Package imageio loads images into pixel buffers and writes them back out.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"pixfx/pixbuf"
)

// ErrNoImage means no image was selected at all.
var ErrNoImage = errors.New("no image selected")

var imageExts = []string{".png", ".jpg", ".jpeg", ".bmp", ".webp", ".tif", ".tiff"}

// webp can be read but not written
var encodeExts = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff"}

// ErrNoEncoder is returned by Save for formats that can only be decoded.
var ErrNoEncoder = errors.New("format can not be encoded")

// Decode reads any registered format from path. format is the decoder name.
func Decode(path string) (img image.Image, format string, err error) {
	if strings.TrimSpace(path) == "" {
		return nil, "", ErrNoImage
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("input %q could not be opened: %w", path, err)
	}
	defer file.Close()

	img, format, err = image.Decode(file)
	if err != nil {
		return nil, "", fmt.Errorf("input %q could not be decoded: %w", path, err)
	}
	return img, format, nil
}

// Load decodes path into a new buffer.
func Load(path string) (*pixbuf.Buffer, error) {
	img, _, err := Decode(path)
	if err != nil {
		return nil, err
	}
	return pixbuf.FromImage(img), nil
}

// Save writes b to path in the format its extension names: JPEG (quality 100),
// BMP or TIFF. PNG is used for .png and for paths without an extension.
func Save(path string, b *pixbuf.Buffer) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("no output path given")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" && !CanEncode(path) {
		return fmt.Errorf("%w: %q", ErrNoEncoder, path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create output file %q: %w", path, err)
	}

	/// spit the result out
	switch ext {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, b.Image(), &jpeg.Options{Quality: 100})
	case ".bmp":
		err = bmp.Encode(f, b.Image())
	case ".tif", ".tiff":
		err = tiff.Encode(f, b.Image(), &tiff.Options{Compression: tiff.Deflate})
	default:
		pngcoder := png.Encoder{CompressionLevel: png.BestSpeed}
		err = pngcoder.Encode(f, b.Image())
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("could not encode %q: %w", path, err)
	}
	return f.Close()
}

// CanEncode reports whether Save can write name in the format its extension names.
func CanEncode(name string) bool {
	return slices.Contains(encodeExts, strings.ToLower(filepath.Ext(name)))
}

// IsImage reports whether name has an extension Load understands.
func IsImage(name string) bool {
	return slices.Contains(imageExts, strings.ToLower(filepath.Ext(name)))
}

// FindImages lists the image files directly inside dir, sorted by name so
// frames keep their order.
func FindImages(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("couldn't read input dir %q: %w", dir, err)
	}
	inputs := make([]string, 0, len(files))
	for _, file := range files {
		if file.Type().IsRegular() && IsImage(file.Name()) {
			inputs = append(inputs, filepath.Join(dir, file.Name()))
		}
	}
	slices.Sort(inputs)
	return inputs, nil
}
