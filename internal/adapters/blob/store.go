// Package blob stores uploaded images in a directory-backed bucket and hands
// back their public download URLs.
package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"palmnazi/internal/adapters/observability"
)

type FSStore struct {
	root    string
	baseURL string
}

func NewFS(root, publicBaseURL string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir bucket: %w", err)
	}
	return &FSStore{root: root, baseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// Root is the directory served under the public base URL.
func (s *FSStore) Root() string { return s.root }

func (s *FSStore) Put(ctx context.Context, key string, r io.Reader, _ string) (string, error) {
	clean := path.Clean("/" + key)[1:]
	if clean == "" || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	start := time.Now()
	full := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create object: %w", err)
	}
	_, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	observability.ObserveExternal("blob", "put", observability.StatusOf(err), time.Since(start))
	if err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("write object: %w", err)
	}
	return s.baseURL + "/" + escapePath(clean), nil
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}
