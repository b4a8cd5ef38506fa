// ABOUTME: Random image selection for post attachments.
// ABOUTME: Picks a size-capped image file from a folder and base64-encodes it.
package content

import (
	"encoding/base64"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// PickRandomImage picks a random image from dir that fits under maxSize
// bytes and returns its path and base64 payload. A missing or empty folder
// yields empty strings with no error; attaching an image is always optional.
func PickRandomImage(dir string, maxSize int64, rng *rand.Rand) (path string, b64 string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", nil
		}
		return "", "", err
	}

	var candidates []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			candidates = append(candidates, filepath.Join(dir, e.Name()))
		}
	}
	if len(candidates) == 0 {
		return "", "", nil
	}

	chosen := candidates[rng.Intn(len(candidates))]
	info, err := os.Stat(chosen)
	if err != nil {
		return "", "", err
	}
	if info.Size() > maxSize {
		return "", "", nil
	}

	data, err := os.ReadFile(chosen)
	if err != nil {
		return "", "", err
	}
	return chosen, base64.StdEncoding.EncodeToString(data), nil
}
