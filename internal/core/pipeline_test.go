package core

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// recordReporter captures leveled output lines for assertions.
type recordReporter struct {
	lines []string
}

func (r *recordReporter) Infof(format string, args ...any)  { r.add("INFO", format, args...) }
func (r *recordReporter) Warnf(format string, args ...any)  { r.add("WARN", format, args...) }
func (r *recordReporter) Okf(format string, args ...any)    { r.add("OK", format, args...) }
func (r *recordReporter) Errorf(format string, args ...any) { r.add("ERROR", format, args...) }

func (r *recordReporter) add(level, format string, args ...any) {
	r.lines = append(r.lines, level+" "+fmt.Sprintf(format, args...))
}

func (r *recordReporter) contains(substr string) bool {
	for _, l := range r.lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

// stubProbe is an InstalledProbe test double.
type stubProbe struct {
	v  Version
	ok bool
}

func (s stubProbe) InstalledVersion() (Version, bool) { return s.v, s.ok }

// fullHost serves the latest-release redirect and one artifact, and
// counts artifact downloads.
func fullHost(t *testing.T, version Version, archive string) (*httptest.Server, *int) {
	t.Helper()
	downloads := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/releases/tag/"+version.Tag(), http.StatusFound)
	})
	mux.HandleFunc("/releases/tag/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/releases/download/", func(w http.ResponseWriter, r *http.Request) {
		downloads++
		http.ServeFile(w, r, archive)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &downloads
}

func testPipeline(t *testing.T, baseURL string, probe InstalledProbe, confirm Confirmer) (*Pipeline, *recordReporter) {
	t.Helper()
	tmp := t.TempDir()
	settings := Settings{
		ReleaseBaseURL: baseURL,
		InstallDir:     filepath.Join(tmp, "scout"),
		DockerConfig:   filepath.Join(tmp, "config.json"),
	}
	report := &recordReporter{}
	installer := NewInstaller(baseURL)
	installer.Warn = report.Warnf
	patcher := NewPatcher(settings.DockerConfig)
	patcher.Now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }
	return &Pipeline{
		Settings:  settings,
		Platform:  testPlatform,
		Resolver:  NewResolver(baseURL),
		Probe:     probe,
		Installer: installer,
		Patcher:   patcher,
		Confirm:   confirm,
		Report:    report,
	}, report
}

func TestPipelineRun_FreshInstall(t *testing.T) {
	version := Version{1, 18, 2}
	archive := makeZip(t, map[string]string{"docker-scout.exe": "payload"})
	srv, downloads := fullHost(t, version, archive)

	p, _ := testPipeline(t, srv.URL, stubProbe{}, AutoConfirm{})
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, err := os.Stat(p.Settings.ExePath(testPlatform)); err != nil {
		t.Errorf("plugin not installed: %v", err)
	}
	if dirs := pluginDirs(t, p.Settings.DockerConfig); len(dirs) != 1 || dirs[0] != p.Settings.InstallDir {
		t.Errorf("plugin dirs = %v, want [%s]", dirs, p.Settings.InstallDir)
	}
	if *downloads != 1 {
		t.Errorf("downloads = %d, want 1", *downloads)
	}
}

func TestPipelineRun_SkipMatchingVersion(t *testing.T) {
	version := Version{1, 18, 2}
	archive := makeZip(t, map[string]string{"docker-scout.exe": "payload"})
	srv, downloads := fullHost(t, version, archive)

	p, report := testPipeline(t, srv.URL, stubProbe{v: version, ok: true}, AutoConfirm{})
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if *downloads != 0 {
		t.Errorf("downloads = %d, want 0 when versions match", *downloads)
	}
	if !report.contains("skipping download") {
		t.Errorf("missing skip message in %v", report.lines)
	}
	// The config is still remediated even when the binary is current.
	if dirs := pluginDirs(t, p.Settings.DockerConfig); len(dirs) != 1 {
		t.Errorf("plugin dirs = %v", dirs)
	}
}

func TestPipelineRun_DeclinedInstall(t *testing.T) {
	version := Version{1, 18, 2}
	archive := makeZip(t, map[string]string{"docker-scout.exe": "payload"})
	srv, downloads := fullHost(t, version, archive)

	p, report := testPipeline(t, srv.URL, stubProbe{}, &scriptedConfirm{answer: false})
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v (a decline is not an error)", err)
	}

	if *downloads != 0 {
		t.Errorf("downloads = %d, want 0 after decline", *downloads)
	}
	if _, err := os.Stat(p.Settings.InstallDir); !os.IsNotExist(err) {
		t.Error("declined run must not create the install directory")
	}
	if _, err := os.Stat(p.Settings.DockerConfig); !os.IsNotExist(err) {
		t.Error("declined run must not touch the config")
	}
	if !report.contains("declined") {
		t.Errorf("missing decline warning in %v", report.lines)
	}
}

func TestPipelineRun_SecondRunIsNoop(t *testing.T) {
	version := Version{1, 18, 2}
	archive := makeZip(t, map[string]string{"docker-scout.exe": "payload"})
	srv, _ := fullHost(t, version, archive)

	p, _ := testPipeline(t, srv.URL, stubProbe{}, AutoConfirm{})
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	configAfterFirst, err := os.ReadFile(p.Settings.DockerConfig)
	if err != nil {
		t.Fatal(err)
	}

	// Second run: the plugin now reports the installed version.
	p.Probe = stubProbe{v: version, ok: true}
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	configAfterSecond, err := os.ReadFile(p.Settings.DockerConfig)
	if err != nil {
		t.Fatal(err)
	}
	if string(configAfterFirst) != string(configAfterSecond) {
		t.Error("second run must leave the config byte-identical")
	}
	if b := backups(t, p.Settings.DockerConfig); len(b) != 0 {
		t.Errorf("no backups expected (file was created, never overwritten), got %v", b)
	}
}

func TestPipelineRun_CheckOnly(t *testing.T) {
	version := Version{1, 18, 2}
	archive := makeZip(t, map[string]string{"docker-scout.exe": "payload"})
	srv, downloads := fullHost(t, version, archive)

	p, report := testPipeline(t, srv.URL, stubProbe{}, &scriptedConfirm{answer: true})
	p.CheckOnly = true
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if *downloads != 0 {
		t.Errorf("downloads = %d, want 0 in check mode", *downloads)
	}
	if _, err := os.Stat(p.Settings.DockerConfig); !os.IsNotExist(err) {
		t.Error("check mode must not write the config")
	}
	if !report.contains("Would install") || !report.contains("Would add") {
		t.Errorf("missing check report in %v", report.lines)
	}
}

func TestPipelineRun_ResolutionFailureAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK) // no redirect
	}))
	defer srv.Close()

	p, _ := testPipeline(t, srv.URL, stubProbe{}, AutoConfirm{})
	if err := p.Run(context.Background()); err == nil {
		t.Fatal("expected a resolution error")
	}
	if _, err := os.Stat(p.Settings.DockerConfig); !os.IsNotExist(err) {
		t.Error("failed resolution must not touch the config")
	}
}
