// Package acquire turns whatever the user handed over (a picked file, piped
// bytes, shared text) into a search input.
package acquire

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"saucenao/models"
)

// ErrEmptyInput is returned when there is nothing to search for
var ErrEmptyInput = errors.New("nothing to search for")

// FromFile returns an image handle for an existing file
func FromFile(path string) (models.SearchInput, error) {
	path = cleanPath(path)
	if path == "" {
		return models.SearchInput{}, ErrEmptyInput
	}
	info, err := os.Stat(path)
	if err != nil {
		return models.SearchInput{}, fmt.Errorf("image not found: %w", err)
	}
	if info.IsDir() {
		return models.SearchInput{}, fmt.Errorf("%s is a directory", path)
	}
	return models.NewImageHandle(path), nil
}

// FromShared handles text shared with the application: a local file path or
// file:// URI becomes an image handle, anything else is sent as a URL.
func FromShared(text string) (models.SearchInput, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.SearchInput{}, ErrEmptyInput
	}

	if u, err := url.Parse(text); err == nil && u.Scheme == "file" {
		return FromFile(u.Path)
	}
	if !looksLikeURL(text) {
		if in, err := FromFile(text); err == nil {
			return in, nil
		}
	}
	return models.NewURL(text), nil
}

// FromBytes wraps encoded image data held in memory
func FromBytes(data []byte) (models.SearchInput, error) {
	if len(data) == 0 {
		return models.SearchInput{}, ErrEmptyInput
	}
	return models.NewImageBytes(data), nil
}

// FromReader spools r into a temporary file, the way a camera capture lands
// on disk before it is searched. The returned input is marked Temporary and
// should be passed to Cleanup when done.
func FromReader(r io.Reader) (models.SearchInput, error) {
	f, err := os.CreateTemp("", "capture-*.img")
	if err != nil {
		return models.SearchInput{}, fmt.Errorf("failed to create temporary file: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return models.SearchInput{}, fmt.Errorf("failed to store captured image: %w", err)
	}
	if n == 0 {
		os.Remove(f.Name())
		return models.SearchInput{}, ErrEmptyInput
	}

	in := models.NewImageHandle(f.Name())
	in.Temporary = true
	return in, nil
}

// Cleanup removes the temporary file behind in, if any
func Cleanup(in models.SearchInput) error {
	if !in.Temporary || in.Path == "" {
		return nil
	}
	if err := os.Remove(in.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func looksLikeURL(text string) bool {
	u, err := url.Parse(text)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// cleanPath strips quotes that file managers add when copying paths
func cleanPath(path string) string {
	path = strings.Trim(strings.TrimSpace(path), `"'`)
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}
