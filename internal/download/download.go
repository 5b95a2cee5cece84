package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Options controls a single fetch.
type Options struct {
	// Client overrides the HTTP client. A nil client gets a default with the
	// configured timeout.
	Client *http.Client
	// Timeout bounds the whole transfer when Client is nil.
	Timeout time.Duration
	// Progress renders a terminal progress bar while downloading.
	Progress bool
	// ExpectedSHA256, when set, is verified against the downloaded bytes and
	// a mismatch removes the artifact.
	ExpectedSHA256 string
}

// Fetch downloads url into dest. The transfer streams through dest+".partial"
// and renames on success so dest never holds a truncated artifact.
func Fetch(ctx context.Context, url, dest string, opts Options) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("download: url required")
	}
	if strings.TrimSpace(dest) == "" {
		return fmt.Errorf("download: destination required")
	}

	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Minute
		}
		client = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("download: build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %d", url, resp.StatusCode)
	}

	if dir := filepath.Dir(dest); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("download: create destination directory: %w", err)
		}
	}

	partial := dest + ".partial"
	out, err := os.OpenFile(partial, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("download: create partial file: %w", err)
	}

	hasher := sha256.New()
	writer := io.MultiWriter(out, hasher)
	if opts.Progress {
		bar := progressbar.DefaultBytes(resp.ContentLength, filepath.Base(dest))
		writer = io.MultiWriter(out, hasher, bar)
	}

	if _, err := io.Copy(writer, resp.Body); err != nil {
		out.Close()
		os.Remove(partial)
		return fmt.Errorf("download %s: %w", url, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(partial)
		return fmt.Errorf("download: close partial file: %w", err)
	}

	if expected := strings.ToLower(strings.TrimSpace(opts.ExpectedSHA256)); expected != "" {
		actual := hex.EncodeToString(hasher.Sum(nil))
		if actual != expected {
			os.Remove(partial)
			return fmt.Errorf("download %s: sha256 mismatch (expected %s, got %s)", url, expected, actual)
		}
	}

	if err := os.Rename(partial, dest); err != nil {
		os.Remove(partial)
		return fmt.Errorf("download: finalize artifact: %w", err)
	}
	return nil
}
