// Package uvtool wraps the uv package manager and its uvx execution shim,
// which serve the web front end without a dedicated installer.
package uvtool
