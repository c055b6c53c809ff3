// Package imageio loads and saves the images the engines read and draw.
package imageio

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/affine/diffspace/encoding"
	"github.com/affine/diffspace/info"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

var extensions = map[string]bool{
	".png":  true,
	".gif":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// IsImage reports whether filename has the extension of a decodable image.
func IsImage(filename string) bool {
	return extensions[strings.ToLower(filepath.Ext(filename))]
}

// Load decodes any registered image format.
func Load(filename string) (image.Image, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to open %v", filename)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to decode %v", filename)
	}
	return img, nil
}

// LoadInfo decodes filename and reads it as rows of T. The information is named after the file's base name.
func LoadInfo[T info.Word](filename string) (info.Info[T], error) {
	img, err := Load(filename)
	if err != nil {
		return info.Info[T]{}, err
	}
	if w := img.Bounds().Dx(); w != info.WidthOf[T]() {
		return info.Info[T]{}, errors.Errorf("%v is %d pixels wide, expected %d", filename, w, info.WidthOf[T]())
	}
	return info.FromImage[T](img, filepath.Base(filename)), nil
}

// Images lists the image files in dir, sorted by name.
func Images(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to read %v", dir)
	}
	var retVal []string
	for _, e := range entries {
		if e.IsDir() || !IsImage(e.Name()) {
			continue
		}
		retVal = append(retVal, filepath.Join(dir, e.Name()))
	}
	sort.Strings(retVal)
	return retVal, nil
}

// LoadDir reads every image in dir as rows of T.
func LoadDir[T info.Word](dir string) ([]info.Info[T], error) {
	files, err := Images(dir)
	if err != nil {
		return nil, err
	}
	retVal := make([]info.Info[T], 0, len(files))
	for _, f := range files {
		i, err := LoadInfo[T](f)
		if err != nil {
			return nil, err
		}
		retVal = append(retVal, i)
	}
	return retVal, nil
}

// SavePNG writes img into filename, creating parent directories as needed.
func SavePNG(filename string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return errors.Wrapf(err, "Unable to create directory for %v", filename)
	}
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "Unable to create %v", filename)
	}
	if err = png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "Unable to encode %v", filename)
	}
	return errors.WithStack(f.Close())
}

// Resize scales img to w×h with nearest neighbour sampling, so binary images stay binary.
func Resize(img image.Image, w, h int) *image.Gray {
	retVal := image.NewGray(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(retVal, retVal.Bounds(), img, img.Bounds(), draw.Src, nil)
	return retVal
}

// ResizeDir writes a w×h PNG into dst for every image in src. Files that cannot be decoded are skipped and returned.
func ResizeDir(src, dst string, w, h int) (skipped []string, err error) {
	files, err := Images(src)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		img, err := Load(f)
		if err != nil {
			skipped = append(skipped, f)
			continue
		}
		name := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f)) + ".png"
		if err := SavePNG(filepath.Join(dst, name), Resize(img, w, h)); err != nil {
			return skipped, err
		}
	}
	return skipped, nil
}

// DirEncoder writes every frame's state image as a PNG into Dir.
type DirEncoder struct {
	Dir string
	n   int
}

// Encode saves the state image of ms as <name>_<epoch>_<step>.png.
func (enc *DirEncoder) Encode(ms encoding.MetaState) error {
	name := fmt.Sprintf("%s_%d_%d.png", sanitize(ms.Name()), ms.Epoch(), ms.Step())
	if err := SavePNG(filepath.Join(enc.Dir, name), ms.Image()); err != nil {
		return err
	}
	enc.n++
	return nil
}

// Written is the number of files written so far.
func (enc *DirEncoder) Written() int { return enc.n }

// Flush is a no-op; every frame is written as it comes.
func (enc *DirEncoder) Flush() error { return nil }

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, name)
}
