// Package fetch downloads a release archive and unpacks it into a directory.
// Zip archives and compressed tarballs (gzip or xz, detected from the stream)
// are supported. A node-* wrapper directory at the top of the archive is
// stripped, so node-v20.10.0-linux-x64/bin/node unpacks to <dest>/bin/node
// while an archive rooted at bin/ keeps its layout.
package fetch
