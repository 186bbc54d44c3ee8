// Package assets downloads remote image files into local storage.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"shopsync/internal/logger"
)

// RootFolder is the top-level folder every downloaded asset lives under.
const RootFolder = "shopify"

type Store struct {
	fs         billy.Filesystem
	httpClient *http.Client
	logger     *logger.Logger
}

func New(fs billy.Filesystem, httpClient *http.Client, logger *logger.Logger) *Store {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Store{fs: fs, httpClient: httpClient, logger: logger}
}

// NewOS stores assets below dir on the local disk.
func NewOS(dir string, logger *logger.Logger) *Store {
	return New(osfs.New(dir), nil, logger)
}

// Fetch downloads src to shopify/<folder>/<file name> and returns the stored path.
func (s *Store) Fetch(ctx context.Context, src, folder string) (string, error) {
	src = normalizeURL(src)
	name, err := fileName(src)
	if err != nil {
		return "", err
	}
	target := path.Join(RootFolder, folder, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download %s: status %d", src, resp.StatusCode)
	}

	partial := target + ".part"
	f, err := s.fs.Create(partial)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", partial, err)
	}
	n, err := io.Copy(f, resp.Body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		s.fs.Remove(partial)
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}

	if err := s.fs.Rename(partial, target); err != nil {
		s.fs.Remove(partial)
		return "", fmt.Errorf("failed to store %s: %w", target, err)
	}

	s.logger.Debug("[%s] Downloaded %d bytes to %s", folder, n, target)
	return target, nil
}

// Remove deletes a stored asset. Missing files are not an error.
func (s *Store) Remove(p string) error {
	if p == "" {
		return nil
	}
	if err := s.fs.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) Exists(p string) bool {
	_, err := s.fs.Stat(p)
	return err == nil
}

func normalizeURL(src string) string {
	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	return src
}

// fileName is the last path element of src without its query string.
func fileName(src string) (string, error) {
	u, err := url.Parse(src)
	if err != nil {
		return "", fmt.Errorf("invalid asset url %q: %w", src, err)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("asset url %q has no file name", src)
	}
	return name, nil
}
