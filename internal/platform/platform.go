package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// OS identifies an operating system family a runtime can be installed on.
type OS int

const (
	Mac OS = iota
	Linux
	Windows
)

func (o OS) String() string {
	switch o {
	case Mac:
		return "mac"
	case Linux:
		return "linux"
	case Windows:
		return "windows"
	default:
		return fmt.Sprintf("OS(%d)", int(o))
	}
}

// Arch identifies a CPU architecture.
type Arch int

const (
	Aarch64 Arch = iota
	X86_64
	X86
)

func (a Arch) String() string {
	switch a {
	case Aarch64:
		return "aarch64"
	case X86_64:
		return "x86_64"
	case X86:
		return "x86"
	default:
		return fmt.Sprintf("Arch(%d)", int(a))
	}
}

// Key is the (OS, Arch) pair a runtime is resolved for. It is fixed for the
// lifetime of a process.
type Key struct {
	OS   OS
	Arch Arch
}

func (k Key) String() string {
	return k.OS.String() + "/" + k.Arch.String()
}

// Current returns the Key of the running process.
func Current() (Key, error) {
	return Parse(runtime.GOOS, runtime.GOARCH)
}

// Parse builds a Key from an OS and an architecture name. Go spellings
// (darwin, amd64, 386), release asset tags (win, x64, x86) and the names
// printed by String are all accepted, case-insensitively.
func Parse(osName, archName string) (Key, error) {
	var k Key

	switch strings.ToLower(strings.TrimSpace(osName)) {
	case "darwin", "mac", "macos", "osx":
		k.OS = Mac
	case "linux":
		k.OS = Linux
	case "windows", "win":
		k.OS = Windows
	default:
		return Key{}, fmt.Errorf("unsupported operating system %q", osName)
	}

	switch strings.ToLower(strings.TrimSpace(archName)) {
	case "arm64", "aarch64":
		k.Arch = Aarch64
	case "amd64", "x64", "x86_64":
		k.Arch = X86_64
	case "386", "x86", "i386", "ia32":
		k.Arch = X86
	default:
		return Key{}, fmt.Errorf("unsupported architecture %q", archName)
	}

	return k, nil
}

// ParsePair parses the "os/arch" form used on the command line.
func ParsePair(s string) (Key, error) {
	osName, archName, ok := strings.Cut(s, "/")
	if !ok {
		return Key{}, fmt.Errorf("invalid platform %q: expected <os>/<arch>", s)
	}
	return Parse(osName, archName)
}

// IsWindows returns true if the current OS is Windows.
func IsWindows() bool {
	return runtime.GOOS == "windows"
}
