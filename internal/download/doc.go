// Package download fetches installer artifacts over HTTP.
//
// Fetches stream to a partial file that is atomically renamed on success, so
// a cached artifact on disk is always complete. Callers wrap Fetch in the
// retry runner; this package performs exactly one attempt per call.
package download
