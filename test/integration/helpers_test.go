//go:build integration

package integration_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ulikunitz/xz"

	"github.com/yii2-navigation/yii2-ls/internal/platform"
)

// fakeNode is a stand-in node executable: it prints its arguments and echoes stdin.
const fakeNode = "#!/bin/sh\necho \"args: $*\"\ncat\n"

// releaseServer serves a GitHub-style release listing and the node archive
// for one platform.
type releaseServer struct {
	*httptest.Server
	version   string
	asset     string
	listings  atomic.Int32
	downloads atomic.Int32
}

// newReleaseServer starts a server publishing version for key. A draft and a
// pre-release with a newer version are listed first and must be skipped.
func newReleaseServer(t *testing.T, version string, key platform.Key) *releaseServer {
	t.Helper()

	layout, err := platform.LayoutFor(key)
	if err != nil {
		t.Fatal(err)
	}
	rs := &releaseServer{version: version, asset: layout.AssetName(version)}
	archive := buildArchive(t, "node-"+version+"-"+layout.OSTag+"-"+layout.ArchTag, layout)

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/nodejs/node/releases", func(w http.ResponseWriter, r *http.Request) {
		rs.listings.Add(1)
		base := rs.URL
		listing := []map[string]any{
			{"tag_name": "v99.0.0", "draft": true, "prerelease": false, "assets": []any{}},
			{"tag_name": "v98.0.0-rc.1", "draft": false, "prerelease": false, "assets": []map[string]any{
				{"name": "node-v98.0.0-rc.1-linux-x64.tar.xz", "browser_download_url": base + "/rc"},
			}},
			{"tag_name": version, "draft": false, "prerelease": false, "assets": []map[string]any{
				{"name": rs.asset, "browser_download_url": base + "/download/" + rs.asset, "size": len(archive)},
				{"name": "SHASUMS256.txt", "browser_download_url": base + "/download/SHASUMS256.txt"},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(listing)
	})
	mux.HandleFunc("/download/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/"+rs.asset) {
			http.NotFound(w, r)
			return
		}
		rs.downloads.Add(1)
		w.Header().Set("Content-Length", fmt.Sprint(len(archive)))
		_, _ = w.Write(archive)
	})

	rs.Server = httptest.NewServer(mux)
	t.Cleanup(rs.Close)
	return rs
}

// buildArchive packs a node release tree under root in the archive format
// of layout.
func buildArchive(t *testing.T, root string, layout platform.Layout) []byte {
	t.Helper()

	var tarBuf bytes.Buffer
	tw := tar.NewWriter(&tarBuf)
	entries := []struct {
		name string
		body string
		mode int64
		dir  bool
	}{
		{name: root + "/", dir: true, mode: 0755},
		{name: root + "/bin/", dir: true, mode: 0755},
		{name: root + "/bin/node", body: fakeNode, mode: 0755},
		{name: root + "/LICENSE", body: "MIT", mode: 0644},
	}
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: e.mode, Size: int64(len(e.body)), Typeflag: tar.TypeReg}
		if e.dir {
			hdr.Typeflag, hdr.Size = tar.TypeDir, 0
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if !e.dir {
			if _, err := tw.Write([]byte(e.body)); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	switch layout.Extension {
	case "tar.xz":
		xw, err := xz.NewWriter(&out)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := xw.Write(tarBuf.Bytes()); err != nil {
			t.Fatal(err)
		}
		if err := xw.Close(); err != nil {
			t.Fatal(err)
		}
	case "tar.gz":
		gw := gzip.NewWriter(&out)
		if _, err := gw.Write(tarBuf.Bytes()); err != nil {
			t.Fatal(err)
		}
		if err := gw.Close(); err != nil {
			t.Fatal(err)
		}
	default:
		t.Fatalf("no fixture for %s archives", layout.Extension)
	}
	return out.Bytes()
}

// hostPlatform returns the running platform, skipping where the shell
// script fixture cannot run.
func hostPlatform(t *testing.T) platform.Key {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fixture node is a shell script")
	}
	key, err := platform.Current()
	if err != nil {
		t.Skipf("unsupported host: %v", err)
	}
	return key
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}
