// Package ollama wraps the ollama command-line tool, which downloads and
// serves models locally. Pulls are idempotent: ollama treats an already
// present model as a no-op.
package ollama
