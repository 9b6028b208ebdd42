package fetch

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/yii2-navigation/yii2-ls/internal/platform"
)

func assertNodeTree(t *testing.T, dest string) {
	t.Helper()
	bin := filepath.Join(dest, "bin", "node")
	data, err := os.ReadFile(bin)
	if err != nil {
		t.Fatalf("reading extracted binary: %v", err)
	}
	if !strings.Contains(string(data), "echo node") {
		t.Errorf("extracted content mismatch: %q", data)
	}
	if runtime.GOOS != "windows" {
		info, _ := os.Stat(bin)
		if info.Mode().Perm()&0111 == 0 {
			t.Error("extracted binary is not executable")
		}
	}
	if _, err := os.Stat(filepath.Join(dest, "README.md")); err != nil {
		t.Errorf("README.md missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "node-v20.10.0-linux-x64")); err == nil {
		t.Error("top-level directory was not stripped")
	}
}

func TestExtract_TarGz(t *testing.T) {
	archive := writeArchive(t, "node.tar.gz", createTarGz(t, nodeTree))
	dest := filepath.Join(t.TempDir(), "node-v20.10.0")

	if err := Extract(archive, dest, platform.GzipTar); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	assertNodeTree(t, dest)

	data, err := os.ReadFile(filepath.Join(dest, "bin", "npm"))
	if err != nil {
		t.Fatalf("reading through npm symlink: %v", err)
	}
	if string(data) != "npm" {
		t.Errorf("npm symlink content = %q", data)
	}
}

func TestExtract_TarXzUnderGzipTarKind(t *testing.T) {
	archive := writeArchive(t, "node.tar.xz", createTarXz(t, nodeTree))
	dest := filepath.Join(t.TempDir(), "node-v20.10.0")

	if err := Extract(archive, dest, platform.GzipTar); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	assertNodeTree(t, dest)
}

func TestExtract_Zip(t *testing.T) {
	archive := writeArchive(t, "node.zip", createZip(t, nodeTree))
	dest := filepath.Join(t.TempDir(), "node-v20.10.0")

	if err := Extract(archive, dest, platform.Zip); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	assertNodeTree(t, dest)
}

func TestExtract_Twice(t *testing.T) {
	archive := writeArchive(t, "node.tar.gz", createTarGz(t, nodeTree))
	dest := filepath.Join(t.TempDir(), "node-v20.10.0")

	for i := 0; i < 2; i++ {
		if err := Extract(archive, dest, platform.GzipTar); err != nil {
			t.Fatalf("Extract #%d: %v", i+1, err)
		}
	}
	assertNodeTree(t, dest)
}

func TestExtract_NoSharedRoot(t *testing.T) {
	files := []testFile{
		{name: "node.exe", body: "exe", mode: 0755},
		{name: "npm.cmd", body: "cmd", mode: 0644},
	}
	archive := writeArchive(t, "flat.zip", createZip(t, files))
	dest := t.TempDir()

	if err := Extract(archive, dest, platform.Zip); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "node.exe")); err != nil {
		t.Errorf("node.exe missing: %v", err)
	}
}

func TestExtract_KeepsLayoutRoot(t *testing.T) {
	files := []testFile{
		{name: "bin/", dir: true, mode: 0755},
		{name: "bin/node", body: "#!/bin/sh\necho node", mode: 0755},
	}
	tests := []struct {
		name    string
		archive []byte
		kind    platform.ArchiveKind
	}{
		{"tar.gz", createTarGz(t, files), platform.GzipTar},
		{"tar.xz", createTarXz(t, files), platform.GzipTar},
		{"zip", createZip(t, files), platform.Zip},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive := writeArchive(t, "bin-rooted."+tt.name, tt.archive)
			dest := filepath.Join(t.TempDir(), "node-v20.10.0")

			if err := Extract(archive, dest, tt.kind); err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if _, err := os.Stat(filepath.Join(dest, "bin", "node")); err != nil {
				t.Errorf("bin/node missing: %v", err)
			}
			if _, err := os.Stat(filepath.Join(dest, "node")); err == nil {
				t.Error("bin/ was stripped")
			}
		})
	}
}

func TestExtract_TarEntriesOutsideWrapper(t *testing.T) {
	files := []testFile{
		{name: "node-v20.10.0-linux-x64/", dir: true, mode: 0755},
		{name: "node-v20.10.0-linux-x64/bin/node", body: "#!/bin/sh\necho node", mode: 0755},
		{name: "NOTICE", body: "notice", mode: 0644},
	}
	archive := writeArchive(t, "mixed.tar.gz", createTarGz(t, files))
	dest := filepath.Join(t.TempDir(), "node-v20.10.0")

	if err := Extract(archive, dest, platform.GzipTar); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "bin", "node")); err != nil {
		t.Errorf("wrapper was not stripped: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "NOTICE")); err != nil {
		t.Errorf("entry outside the wrapper missing: %v", err)
	}
}

func TestExtract_ContainsTraversal(t *testing.T) {
	files := []testFile{
		{name: "../evil", body: "x", mode: 0644},
		{name: "ok", body: "y", mode: 0644},
	}
	archive := writeArchive(t, "evil.tar.gz", createTarGz(t, files))
	dest := filepath.Join(t.TempDir(), "dest")

	// cleanName anchors names at the root, so ../evil lands inside dest.
	if err := Extract(archive, dest, platform.GzipTar); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dest), "evil")); err == nil {
		t.Error("entry escaped the destination directory")
	}
}

func TestExtract_RejectsEscapingSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need developer mode on Windows")
	}
	files := []testFile{
		{name: "pkg/", dir: true, mode: 0755},
		{name: "pkg/link", link: "../../../etc/passwd"},
	}
	archive := writeArchive(t, "link.tar.gz", createTarGz(t, files))

	if err := Extract(archive, t.TempDir(), platform.GzipTar); err == nil {
		t.Fatal("expected error for symlink escaping destination")
	}
}

func TestExtract_NotCompressed(t *testing.T) {
	archive := writeArchive(t, "plain.tar", []byte("definitely not an archive"))
	err := Extract(archive, t.TempDir(), platform.GzipTar)
	if err == nil {
		t.Fatal("expected error for uncompressed input")
	}
}

func TestCommonRoot(t *testing.T) {
	tests := []struct {
		name     string
		entries  []entry
		expected string
	}{
		{"single root", []entry{{name: "node-v1/", isDir: true}, {name: "node-v1/bin/node"}}, "node-v1"},
		{"implicit root", []entry{{name: "node-v1/bin/node"}, {name: "node-v1/README.md"}}, "node-v1"},
		{"dot prefix", []entry{{name: "./node-v1/bin/node"}}, "node-v1"},
		{"top-level file", []entry{{name: "node-v1/bin/node"}, {name: "LICENSE"}}, ""},
		{"two roots", []entry{{name: "a/x"}, {name: "b/y"}}, ""},
		{"layout root", []entry{{name: "bin/", isDir: true}, {name: "bin/node"}}, ""},
		{"non-node wrapper", []entry{{name: "dist/bin/node"}}, ""},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := commonRoot(tt.entries); got != tt.expected {
				t.Errorf("commonRoot = %q, want %q", got, tt.expected)
			}
		})
	}
}
