package imageio_test

import (
	"crypto/rand"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"pixfx/imageio"
	"pixfx/pixbuf"
)

func genTestPic(w, h int, t *testing.T) *pixbuf.Buffer {
	input := pixbuf.New(w, h)
	if _, err := rand.Read(input.Pix); err != nil {
		t.Fatalf("Error reading: %s", err)
	}
	return input
}

func TestSaveLoadPNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	input := genTestPic(6, 4, t)
	/// opaque pixels survive any colour model conversion on the way back in
	for i := 3; i < len(input.Pix); i += 4 {
		input.Pix[i] = 255
	}

	if err := imageio.Save(path, input); err != nil {
		t.Fatal(err)
	}
	got, err := imageio.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(input) {
		t.Errorf("png round trip changed pixels")
	}
}

func TestSaveJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	if err := imageio.Save(path, genTestPic(8, 8, t)); err != nil {
		t.Fatal(err)
	}
	_, format, err := imageio.Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg output, got %s", format)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := imageio.Load(""); !errors.Is(err, imageio.ErrNoImage) {
		t.Errorf("expected ErrNoImage, got %v", err)
	}
	if _, err := imageio.Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
	junk := filepath.Join(t.TempDir(), "junk.png")
	os.WriteFile(junk, []byte("not an image"), 0o644)
	if _, err := imageio.Load(junk); err == nil {
		t.Errorf("expected a decode error")
	}
}

func TestFindImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.JPG", "notes.txt", "c.bmp"} {
		os.WriteFile(filepath.Join(dir, name), nil, 0o644)
	}
	os.Mkdir(filepath.Join(dir, "sub.png"), 0o755)

	found, err := imageio.FindImages(dir)
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{filepath.Join(dir, "a.JPG"), filepath.Join(dir, "b.png"), filepath.Join(dir, "c.bmp")}
	if !slices.Equal(found, expected) {
		t.Errorf("expected %v, got %v", expected, found)
	}
}

func TestSaveByExtension(t *testing.T) {
	input := genTestPic(7, 5, t)
	for i := 3; i < len(input.Pix); i += 4 {
		input.Pix[i] = 255
	}
	tests := map[string]string{
		"out.bmp":  "bmp",
		"out.tif":  "tiff",
		"out.TIFF": "tiff",
		"out.png":  "png",
	}
	for name, expected := range tests {
		path := filepath.Join(t.TempDir(), name)
		if err := imageio.Save(path, input); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		got, format, err := imageio.Decode(path)
		if err != nil {
			t.Fatal(err)
		}
		if format != expected {
			t.Errorf("%s: expected %s data, got %s", name, expected, format)
		}
		if !pixbuf.FromImage(got).Equal(input) {
			t.Errorf("%s: round trip changed pixels", name)
		}
	}
}

func TestSaveWebPUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.webp")
	if err := imageio.Save(path, genTestPic(2, 2, t)); !errors.Is(err, imageio.ErrNoEncoder) {
		t.Errorf("expected ErrNoEncoder, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("no file should be created for an unsupported format")
	}
	if imageio.CanEncode("a.webp") || !imageio.CanEncode("a.BMP") {
		t.Errorf("unexpected CanEncode results")
	}
}
