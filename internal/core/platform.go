package core

import "runtime"

// ArchLabel is the normalized CPU architecture identifier used to pick
// the correct release artifact variant.
type ArchLabel string

const (
	ArchAMD64 ArchLabel = "amd64"
	ArchARM64 ArchLabel = "arm64"
)

// Platform describes the host the tool is remediating. Computed once at
// startup and read-only for the rest of the run.
type Platform struct {
	OS   string
	Arch ArchLabel
}

// ExeName returns the installed plugin filename for this platform.
func (p Platform) ExeName() string {
	if p.OS == "windows" {
		return "docker-scout.exe"
	}
	return "docker-scout"
}

// ArchiveExt returns the release artifact extension for this platform.
func (p Platform) ArchiveExt() string {
	if p.OS == "windows" {
		return ".zip"
	}
	return ".tar.gz"
}

// Probe inspects the running host. The plugin is only remediated on
// Windows amd64 and arm64, so anything else is rejected before any
// network or filesystem activity happens.
func Probe() (Platform, error) {
	return probe(runtime.GOOS, runtime.GOARCH)
}

func probe(goos, goarch string) (Platform, error) {
	if goos != "windows" {
		return Platform{}, &UnsupportedPlatformError{OS: goos}
	}
	switch goarch {
	case "amd64":
		return Platform{OS: goos, Arch: ArchAMD64}, nil
	case "arm64":
		return Platform{OS: goos, Arch: ArchARM64}, nil
	default:
		return Platform{}, &UnsupportedPlatformError{OS: goos, Arch: goarch}
	}
}
