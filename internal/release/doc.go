// Package release queries a release index for the latest published version of
// a runtime and the downloadable assets attached to it. The default index is
// the GitHub Releases API; a mirror can take over the asset downloads, and an
// alternative API base URL can serve the listing itself. Listings are checked
// against an embedded JSON schema before they are decoded.
package release
