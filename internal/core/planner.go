package core

import (
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog/log"
)

const versionProbeTimeout = 15 * time.Second

// Action is the install decision for a single run.
type Action string

const (
	// ActionSkip means the installed plugin already matches the latest
	// release and no download is needed.
	ActionSkip Action = "skip"
	// ActionInstall means no plugin is currently installed.
	ActionInstall Action = "install"
	// ActionUpgrade means an installed plugin differs from the latest
	// release. A numerically older "latest" (retracted release) is
	// treated the same way: proceed if confirmed.
	ActionUpgrade Action = "upgrade"
)

// InstallPlan is the decision produced by Plan. It lives for a single
// pipeline pass and is consumed immediately by the installer.
type InstallPlan struct {
	Action    Action
	Installed *Version // nil when nothing is installed
	Target    Version
	Arch      ArchLabel
}

// InstalledProbe reports the currently installed plugin version.
// Probing scrapes process output and is inherently fragile, so it sits
// behind this narrow interface and the planner never sees the details.
type InstalledProbe interface {
	// InstalledVersion returns the installed version, or false when the
	// plugin is absent or its output is unparsable.
	InstalledVersion() (Version, bool)
}

// ExecProbe probes by running the installed executable with a "version"
// argument and scanning its combined output for a version triple.
type ExecProbe struct {
	Path string // Absolute path to the installed executable.
}

func (p ExecProbe) InstalledVersion() (Version, bool) {
	if _, err := os.Stat(p.Path); err != nil {
		return Version{}, false
	}
	cmd := exec.Command(p.Path, "version")
	output, err := runWithTimeout(cmd, versionProbeTimeout)
	if err != nil && output == "" {
		log.Debug().Str("path", p.Path).Err(err).Msg("version probe failed")
		return Version{}, false
	}
	v, ok := FindVersion(output)
	if !ok {
		log.Debug().Str("path", p.Path).Str("output", output).Msg("no version in probe output")
	}
	return v, ok
}

// Plan decides what this run should do, given the probed installed
// version and the resolved latest release. Confirmation gates are the
// pipeline's job; the decision itself is pure.
func Plan(installed *Version, latest Version, arch ArchLabel) InstallPlan {
	plan := InstallPlan{Installed: installed, Target: latest, Arch: arch}
	switch {
	case installed == nil:
		plan.Action = ActionInstall
	case installed.Equal(latest):
		plan.Action = ActionSkip
	default:
		plan.Action = ActionUpgrade
	}
	return plan
}
