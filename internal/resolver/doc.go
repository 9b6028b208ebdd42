// Package resolver finds a Node.js executable for the language server,
// installing one from the runtime's release index when none is available.
//
// Resolution prefers a user-managed node on PATH, then a previously resolved
// binary that still exists, and only then looks up the latest stable release,
// downloads the asset for the current platform into a version-scoped
// directory and remembers the resulting path.
package resolver
