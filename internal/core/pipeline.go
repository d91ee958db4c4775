// Package core implements the remediation pipeline: probe the host,
// resolve the latest plugin release, install it if needed, and register
// its directory in the host application's configuration. It has zero UI
// dependencies and is independently testable.
package core

import (
	"context"
	"errors"
	"fmt"
)

// Reporter receives the leveled, human-readable progress lines the tool
// emits. Implemented by the styled console in internal/ui.
type Reporter interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Okf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Pipeline runs the guarded steps of one remediation pass, strictly top
// to bottom. Each stage completes, is skipped, or aborts the run; every
// mutating stage is gated on the Confirmer.
type Pipeline struct {
	Settings  Settings
	Platform  Platform
	Resolver  *Resolver
	Probe     InstalledProbe
	Installer *Installer
	Patcher   *Patcher
	Confirm   Confirmer
	Report    Reporter

	// CheckOnly reports what a run would do without mutating anything.
	CheckOnly bool
}

// NewPipeline wires a pipeline from settings with the production
// resolver, installer, probe, and patcher.
func NewPipeline(settings Settings, platform Platform, confirm Confirmer, report Reporter) *Pipeline {
	installer := NewInstaller(settings.ReleaseBaseURL)
	installer.Warn = report.Warnf
	return &Pipeline{
		Settings:  settings,
		Platform:  platform,
		Resolver:  NewResolver(settings.ReleaseBaseURL),
		Probe:     ExecProbe{Path: settings.ExePath(platform)},
		Installer: installer,
		Patcher:   NewPatcher(settings.DockerConfig),
		Confirm:   confirm,
		Report:    report,
	}
}

// Run executes one pass. A declined confirmation returns nil after a
// warning: the run ends gracefully with no further side effects.
func (p *Pipeline) Run(ctx context.Context) error {
	p.Report.Infof("Resolving latest docker-scout release from %s...", p.Settings.ReleaseBaseURL)
	latest, err := p.Resolver.Latest(ctx)
	if err != nil {
		return err
	}
	p.Report.Okf("Latest release: %s", latest.Tag())

	var installed *Version
	if v, ok := p.Probe.InstalledVersion(); ok {
		installed = &v
		p.Report.Infof("Installed plugin version: %s", v.Tag())
	} else {
		p.Report.Infof("No installed docker-scout plugin detected.")
	}

	plan := Plan(installed, latest, p.Platform.Arch)

	if p.CheckOnly {
		return p.reportCheck(plan)
	}

	if plan.Action == ActionSkip {
		p.Report.Okf("docker-scout %s is already installed; skipping download.", latest.Tag())
	} else {
		ok, err := p.Confirm.Confirm(installPrompt(plan, p.Settings.InstallDir))
		if err != nil {
			return err
		}
		if !ok {
			p.Report.Warnf("Installation declined; nothing was changed.")
			return nil
		}
		dest, err := p.Installer.Install(ctx, plan, p.Platform, p.Settings.InstallDir)
		if err != nil {
			return err
		}
		p.Report.Okf("Installed %s", dest)
	}

	outcome, err := p.Patcher.EnsurePluginDir(p.Settings.InstallDir, p.Confirm)
	if errors.Is(err, ErrDeclined) {
		p.Report.Warnf("Configuration update declined; the plugin will not be discovered until %s lists %s.",
			p.Settings.DockerConfig, p.Settings.InstallDir)
		return nil
	}
	if err != nil {
		return err
	}

	switch {
	case outcome.Created:
		p.Report.Okf("Created %s with %s.", p.Settings.DockerConfig, PluginDirsField)
	case outcome.Rebuilt:
		p.Report.Warnf("Rebuilt %s; the previous content is at %s.", p.Settings.DockerConfig, outcome.BackupPath)
		p.Report.Okf("Registered %s in %s.", p.Settings.InstallDir, PluginDirsField)
	case outcome.Changed:
		p.Report.Okf("Registered %s in %s (backup at %s).", p.Settings.InstallDir, PluginDirsField, outcome.BackupPath)
	default:
		p.Report.Okf("%s already lists %s.", PluginDirsField, p.Settings.InstallDir)
	}

	p.Report.Okf("Done. Run \"docker scout\" to verify the plugin is picked up.")
	return nil
}

// reportCheck describes the pending work without touching anything.
func (p *Pipeline) reportCheck(plan InstallPlan) error {
	switch plan.Action {
	case ActionSkip:
		p.Report.Okf("docker-scout %s is up to date.", plan.Target.Tag())
	case ActionInstall:
		p.Report.Infof("Would install docker-scout %s to %s.", plan.Target.Tag(), p.Settings.InstallDir)
	case ActionUpgrade:
		p.Report.Infof("Would upgrade docker-scout %s -> %s.", plan.Installed.Tag(), plan.Target.Tag())
	}

	needs, err := p.Patcher.NeedsPatch(p.Settings.InstallDir)
	if err != nil {
		return err
	}
	if needs {
		p.Report.Infof("Would add %s to %s in %s.", p.Settings.InstallDir, PluginDirsField, p.Settings.DockerConfig)
	} else {
		p.Report.Okf("%s already lists %s.", PluginDirsField, p.Settings.InstallDir)
	}
	return nil
}

func installPrompt(plan InstallPlan, installDir string) string {
	if plan.Action == ActionUpgrade {
		return fmt.Sprintf("Upgrade docker-scout %s -> %s in %s?",
			plan.Installed.Tag(), plan.Target.Tag(), installDir)
	}
	return fmt.Sprintf("Install docker-scout %s to %s?", plan.Target.Tag(), installDir)
}
