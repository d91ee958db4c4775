package core

import (
	"errors"
	"fmt"
)

// ErrDeclined is returned when the user answers "no" at a confirmation
// gate. It is not a failure: callers treat it as a graceful early exit.
var ErrDeclined = errors.New("declined by user")

// UnsupportedPlatformError means the host cannot run the plugin this
// tool installs. Raised before any network or filesystem activity.
type UnsupportedPlatformError struct {
	OS   string
	Arch string
}

func (e *UnsupportedPlatformError) Error() string {
	if e.Arch != "" {
		return fmt.Sprintf("unsupported platform: %s/%s", e.OS, e.Arch)
	}
	return fmt.Sprintf("unsupported platform: %s", e.OS)
}

// ResolutionError means the latest release version could not be
// determined from the release host.
type ResolutionError struct {
	URL    string
	Reason string
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolving latest release from %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("resolving latest release from %s: %s", e.URL, e.Reason)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// DownloadError means the release artifact could not be fetched.
type DownloadError struct {
	URL    string
	Status int
	Err    error
}

func (e *DownloadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("downloading %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("downloading %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// ExtractionError means the downloaded archive could not be unpacked.
type ExtractionError struct {
	Archive string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.Archive, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// PayloadNotFoundError means the extracted archive contained no file
// matching the expected executable name pattern.
type PayloadNotFoundError struct {
	Dir     string
	Pattern string
}

func (e *PayloadNotFoundError) Error() string {
	return fmt.Sprintf("no file matching %q found under %s", e.Pattern, e.Dir)
}

// ConfigParseError means the configuration file exists but is not
// valid JSON, and the user did not consent to rebuilding it.
type ConfigParseError struct {
	Path string
	Err  error
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v (rerun and consent to rebuild, or fix the file by hand)", e.Path, e.Err)
}

func (e *ConfigParseError) Unwrap() error { return e.Err }
