package fetch

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz"
)

// testFile is one entry of a generated archive. A non-empty link makes it a symlink.
type testFile struct {
	name string
	body string
	mode int64
	dir  bool
	link string
}

var nodeTree = []testFile{
	{name: "node-v20.10.0-linux-x64/", dir: true, mode: 0755},
	{name: "node-v20.10.0-linux-x64/bin/", dir: true, mode: 0755},
	{name: "node-v20.10.0-linux-x64/bin/node", body: "#!/bin/sh\necho node", mode: 0755},
	{name: "node-v20.10.0-linux-x64/lib/node_modules/npm/bin/npm-cli.js", body: "npm", mode: 0644},
	{name: "node-v20.10.0-linux-x64/bin/npm", link: "../lib/node_modules/npm/bin/npm-cli.js"},
	{name: "node-v20.10.0-linux-x64/README.md", body: "readme", mode: 0644},
}

func writeTar(t *testing.T, w io.Writer, files []testFile) {
	t.Helper()
	tw := tar.NewWriter(w)
	for _, f := range files {
		hdr := &tar.Header{Name: f.name, Mode: f.mode, Size: int64(len(f.body))}
		switch {
		case f.dir:
			hdr.Typeflag = tar.TypeDir
			hdr.Size = 0
		case f.link != "":
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = f.link
			hdr.Mode = 0777
			hdr.Size = 0
		default:
			hdr.Typeflag = tar.TypeReg
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(f.body)); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
}

// createTarGz returns a gzip-compressed tarball of files.
func createTarGz(t *testing.T, files []testFile) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	writeTar(t, gw, files)
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// createTarXz returns an xz-compressed tarball of files.
func createTarXz(t *testing.T, files []testFile) []byte {
	t.Helper()
	var buf bytes.Buffer
	xw, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	writeTar(t, xw, files)
	if err := xw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// createZip returns a zip archive of the regular files and directories in files.
func createZip(t *testing.T, files []testFile) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		if f.link != "" {
			continue
		}
		hdr := &zip.FileHeader{Name: f.name, Method: zip.Deflate}
		mode := os.FileMode(f.mode)
		if f.dir {
			mode |= os.ModeDir
		}
		hdr.SetMode(mode)
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			t.Fatal(err)
		}
		if !f.dir {
			if _, err := w.Write([]byte(f.body)); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func writeArchive(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0644); err != nil {
		t.Fatal(err)
	}
	return p
}
