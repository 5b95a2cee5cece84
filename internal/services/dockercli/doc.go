// Package dockercli wraps the docker command-line tool for the container
// deployment mode, where the web front end runs as a managed container
// instead of through the uv shim.
package dockercli
