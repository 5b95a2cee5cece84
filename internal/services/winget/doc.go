// Package winget wraps the Windows package manager used as the secondary
// install channel when a direct installer download exhausts its retries.
package winget
