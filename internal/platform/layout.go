package platform

import (
	"fmt"
	"path"
)

// ArchiveKind selects how a downloaded release archive is unpacked.
type ArchiveKind int

const (
	// Zip is a zip archive.
	Zip ArchiveKind = iota
	// GzipTar is a compressed tarball. The extractor detects whether the
	// stream is gzip or xz compressed.
	GzipTar
)

func (k ArchiveKind) String() string {
	switch k {
	case Zip:
		return "zip"
	case GzipTar:
		return "gzip-tar"
	default:
		return fmt.Sprintf("ArchiveKind(%d)", int(k))
	}
}

// Layout is everything derived from a Key when naming and unpacking a release.
type Layout struct {
	OSTag     string      // "darwin", "linux" or "win"
	ArchTag   string      // "arm64", "x64" or "x86"
	Extension string      // archive extension without the leading dot
	Kind      ArchiveKind // how the archive is unpacked
	Binary    string      // slash-separated binary path inside the version dir
}

// RuntimeName is the conventional prefix of release assets and version dirs.
const RuntimeName = "node"

type osLayout struct {
	tag    string
	ext    string
	kind   ArchiveKind
	binary string
}

var osLayouts = map[OS]osLayout{
	Mac:     {tag: "darwin", ext: "tar.gz", kind: GzipTar, binary: "bin/node"},
	Linux:   {tag: "linux", ext: "tar.xz", kind: GzipTar, binary: "bin/node"},
	Windows: {tag: "win", ext: "zip", kind: Zip, binary: "node.exe"},
}

var archTags = map[Arch]string{
	Aarch64: "arm64",
	X86_64:  "x64",
	X86:     "x86",
}

// LayoutFor returns the layout of k.
func LayoutFor(k Key) (Layout, error) {
	ol, ok := osLayouts[k.OS]
	if !ok {
		return Layout{}, fmt.Errorf("no release layout for operating system %s", k.OS)
	}
	arch, ok := archTags[k.Arch]
	if !ok {
		return Layout{}, fmt.Errorf("no release layout for architecture %s", k.Arch)
	}
	return Layout{
		OSTag:     ol.tag,
		ArchTag:   arch,
		Extension: ol.ext,
		Kind:      ol.kind,
		Binary:    ol.binary,
	}, nil
}

// AssetName returns the release asset name for version on this layout,
// e.g. "node-20.10.0-linux-x64.tar.xz".
func (l Layout) AssetName(version string) string {
	return fmt.Sprintf("%s-%s-%s-%s.%s", RuntimeName, version, l.OSTag, l.ArchTag, l.Extension)
}

// BinaryPath returns the slash-separated path of the binary relative to the
// working directory, e.g. "node-20.10.0/bin/node".
func (l Layout) BinaryPath(version string) string {
	return path.Join(VersionDir(version), l.Binary)
}

// VersionDir returns the name of the directory a version is installed into.
func VersionDir(version string) string {
	return RuntimeName + "-" + version
}
