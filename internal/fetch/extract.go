package fetch

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/yii2-navigation/yii2-ls/internal/platform"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// Extract unpacks the archive at archivePath into destDir.
func Extract(archivePath, destDir string, kind platform.ArchiveKind) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("creating destination %s: %w", destDir, err)
	}
	switch kind {
	case platform.Zip:
		return extractZip(archivePath, destDir)
	case platform.GzipTar:
		return extractTar(archivePath, destDir)
	default:
		return fmt.Errorf("unsupported archive kind %s", kind)
	}
}

// entry is the part of an archive header needed to find a shared root.
type entry struct {
	name  string
	isDir bool
}

// commonRoot returns the release wrapper directory shared by every entry, or
// "" if entries live at the top level, under different roots, or under a
// root that is not a node-* wrapper. Other roots such as bin/ are part of the
// installed layout and are kept.
func commonRoot(entries []entry) string {
	root := ""
	for _, e := range entries {
		name := cleanName(e.name)
		if name == "" {
			continue
		}
		top, _, nested := strings.Cut(name, "/")
		if !nested && !e.isDir {
			return ""
		}
		if root == "" {
			root = top
		} else if top != root {
			return ""
		}
	}
	if !isWrapper(root) {
		return ""
	}
	return root
}

// isWrapper reports whether dir names a release wrapper directory.
func isWrapper(dir string) bool {
	return strings.HasPrefix(dir, platform.RuntimeName+"-")
}

// cleanName normalizes an archive entry name to a slash-separated relative path.
func cleanName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if name == "." {
		return ""
	}
	return name
}

// stripRoot removes root from name. The root entry itself maps to "".
func stripRoot(name, root string) string {
	name = cleanName(name)
	if root == "" {
		return name
	}
	if name == root {
		return ""
	}
	return strings.TrimPrefix(name, root+"/")
}

// safeJoin joins rel onto destDir and rejects results outside destDir.
func safeJoin(destDir, rel string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(rel))
	if !within(destDir, target) {
		return "", fmt.Errorf("archive entry %q escapes destination", rel)
	}
	return target, nil
}

// within reports whether target is base or lies below it.
func within(base, target string) bool {
	base = filepath.Clean(base)
	target = filepath.Clean(target)
	return target == base || strings.HasPrefix(target, base+string(os.PathSeparator))
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	perm := mode.Perm()
	if perm == 0 {
		perm = 0644
	}
	// Replace whatever a previous extraction left behind, symlinks included.
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return platform.Chmod(target, perm)
}

func writeSymlink(destDir, target, linkname string) error {
	if filepath.IsAbs(linkname) || strings.HasPrefix(linkname, "/") {
		return fmt.Errorf("symlink %s has absolute target %q", target, linkname)
	}
	resolved := filepath.Join(filepath.Dir(target), filepath.FromSlash(linkname))
	if !within(destDir, resolved) {
		return fmt.Errorf("symlink %s points outside destination", target)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return platform.Symlink(filepath.FromSlash(linkname), target)
}

func extractZip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening zip archive: %w", err)
	}
	defer r.Close()

	entries := make([]entry, 0, len(r.File))
	for _, f := range r.File {
		entries = append(entries, entry{name: f.Name, isDir: f.FileInfo().IsDir()})
	}
	root := commonRoot(entries)

	for _, f := range r.File {
		rel := stripRoot(f.Name, root)
		if rel == "" {
			continue
		}
		target, err := safeJoin(destDir, rel)
		if err != nil {
			return err
		}

		mode := f.Mode()
		switch {
		case mode.IsDir():
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", rel, err)
			}
		case mode&os.ModeSymlink != 0:
			linkname, err := readZipEntry(f)
			if err != nil {
				return err
			}
			if err := writeSymlink(destDir, target, linkname); err != nil {
				return fmt.Errorf("creating symlink %s: %w", rel, err)
			}
		default:
			rc, err := f.Open()
			if err != nil {
				return fmt.Errorf("opening zip entry %s: %w", f.Name, err)
			}
			err = writeFile(target, rc, mode)
			rc.Close()
			if err != nil {
				return fmt.Errorf("extracting %s: %w", rel, err)
			}
		}
	}
	return nil
}

func readZipEntry(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("opening zip entry %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("reading zip entry %s: %w", f.Name, err)
	}
	return string(data), nil
}

// openTar opens a gzip or xz compressed tarball, sniffing the compression
// from the first bytes of the file.
func openTar(archivePath string) (*tar.Reader, io.Closer, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening archive: %w", err)
	}

	br := bufio.NewReader(f)
	head, err := br.Peek(len(xzMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		f.Close()
		return nil, nil, fmt.Errorf("reading archive header: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		return tar.NewReader(gz), f, nil
	case bytes.HasPrefix(head, xzMagic):
		xzr, err := xz.NewReader(br)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("creating xz reader: %w", err)
		}
		return tar.NewReader(xzr), f, nil
	default:
		f.Close()
		return nil, nil, fmt.Errorf("archive is neither gzip nor xz compressed")
	}
}

// extractTar unpacks a tarball in a single pass. The wrapper directory is
// taken from the first entry; entries outside it keep their names.
func extractTar(archivePath, destDir string) error {
	tr, c, err := openTar(archivePath)
	if err != nil {
		return err
	}
	defer c.Close()

	root, rootKnown := "", false
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}
		if hdr.Typeflag == tar.TypeXGlobalHeader {
			continue
		}
		if !rootKnown {
			root = commonRoot([]entry{{name: hdr.Name, isDir: hdr.Typeflag == tar.TypeDir}})
			rootKnown = true
		}

		rel := stripRoot(hdr.Name, root)
		if rel == "" {
			continue
		}
		target, err := safeJoin(destDir, rel)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", rel, err)
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, hdr.FileInfo().Mode()); err != nil {
				return fmt.Errorf("extracting %s: %w", rel, err)
			}
		case tar.TypeSymlink:
			if err := writeSymlink(destDir, target, hdr.Linkname); err != nil {
				return fmt.Errorf("creating symlink %s: %w", rel, err)
			}
		case tar.TypeLink:
			src, err := safeJoin(destDir, stripRoot(hdr.Linkname, root))
			if err != nil {
				return err
			}
			if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := os.Link(src, target); err != nil {
				return fmt.Errorf("creating hard link %s: %w", rel, err)
			}
		default:
			// Character devices, FIFOs and headers carry nothing a runtime needs.
		}
	}
}
