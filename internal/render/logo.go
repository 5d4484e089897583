package render

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"

	"github.com/fogleman/gg"
)

// LoadLogo reads the logo image. A missing file is not an error: the logo
// is simply omitted.
func LoadLogo(path string) (image.Image, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	img, err := gg.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("load logo %s: %w", path, err)
	}
	return img, nil
}
