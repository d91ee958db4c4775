package core

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const workspaceTimeFormat = "20060102T150405"

// Installer downloads a versioned release artifact into an isolated
// temp workspace, extracts it, and copies the executable payload into
// the destination directory. The destination is only written after a
// complete extraction, so a failure at any earlier step leaves it
// untouched.
type Installer struct {
	BaseURL string
	Client  *http.Client

	// Warn receives non-fatal problems (e.g. workspace cleanup
	// failures). Nil means they are only logged at debug level.
	Warn func(format string, args ...any)

	// removeAll deletes the temp workspace; swapped in tests.
	removeAll func(path string) error
}

// NewInstaller creates an Installer fetching artifacts from the given
// release base URL.
func NewInstaller(baseURL string) *Installer {
	return &Installer{
		BaseURL:   baseURL,
		Client:    newHTTPClient(),
		removeAll: os.RemoveAll,
	}
}

// ArtifactURL builds the download URL for a version and platform from
// the release host's fixed naming template.
func (i *Installer) ArtifactURL(v Version, platform Platform) string {
	return fmt.Sprintf("%s/releases/download/%s/%s",
		i.BaseURL, v.Tag(), artifactName(v, platform))
}

func artifactName(v Version, platform Platform) string {
	return fmt.Sprintf("docker-scout_%s_%s_%s%s", v, platform.OS, platform.Arch, platform.ArchiveExt())
}

// payloadPattern is the executable name pattern searched for after
// extraction.
func payloadPattern(platform Platform) string {
	if platform.OS == "windows" {
		return "docker-scout*.exe"
	}
	return "docker-scout*"
}

// Install carries out the plan: download, extract, locate the payload,
// and copy it to destDir under the platform's fixed executable name.
// Returns the installed executable path.
func (i *Installer) Install(ctx context.Context, plan InstallPlan, platform Platform, destDir string) (string, error) {
	workspace := filepath.Join(os.TempDir(),
		fmt.Sprintf("scoutstrap-%s-%s", time.Now().Format(workspaceTimeFormat), randomToken(4)))
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return "", fmt.Errorf("creating workspace: %w", err)
	}
	defer i.cleanup(workspace)

	url := i.ArtifactURL(plan.Target, platform)
	archivePath := filepath.Join(workspace, artifactName(plan.Target, platform))
	if err := i.download(ctx, url, archivePath); err != nil {
		return "", err
	}

	extractDir := filepath.Join(workspace, "extracted")
	if err := Extract(archivePath, extractDir); err != nil {
		return "", err
	}

	payload, err := findPayload(extractDir, payloadPattern(platform))
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating install directory: %w", err)
	}
	dest := filepath.Join(destDir, platform.ExeName())
	if err := copyFile(payload, dest); err != nil {
		return "", fmt.Errorf("installing %s: %w", dest, err)
	}
	log.Debug().Str("payload", payload).Str("dest", dest).Msg("payload installed")
	return dest, nil
}

// download fetches url into path. Content is streamed straight into
// the workspace file; a bad status never touches the filesystem.
func (i *Installer) download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &DownloadError{URL: url, Err: err}
	}
	resp, err := i.Client.Do(req)
	if err != nil {
		return &DownloadError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &DownloadError{URL: url, Status: resp.StatusCode}
	}

	out, err := os.Create(path)
	if err != nil {
		return &DownloadError{URL: url, Err: err}
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return &DownloadError{URL: url, Err: err}
	}
	return nil
}

// findPayload searches dir recursively for the first regular file whose
// base name matches pattern, in lexical walk order.
func findPayload(dir, pattern string) (string, error) {
	var found string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || found != "" {
			return nil
		}
		ok, matchErr := filepath.Match(pattern, strings.ToLower(d.Name()))
		if matchErr != nil {
			return matchErr
		}
		if ok {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("searching for payload: %w", err)
	}
	if found == "" {
		return "", &PayloadNotFoundError{Dir: dir, Pattern: pattern}
	}
	return found, nil
}

// cleanup removes the temp workspace. Failure is a warning, never an
// error: the install already succeeded or failed on its own merits.
func (i *Installer) cleanup(workspace string) {
	remove := i.removeAll
	if remove == nil {
		remove = os.RemoveAll
	}
	if err := remove(workspace); err != nil {
		log.Debug().Str("workspace", workspace).Err(err).Msg("workspace cleanup failed")
		if i.Warn != nil {
			i.Warn("could not remove temp workspace %s: %v", workspace, err)
		}
	}
}
