package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tailscale/hujson"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	// PluginDirsField is the config field the host application reads
	// for additional plugin search directories.
	PluginDirsField = "cliPluginsExtraDirs"

	toolIdentifier   = "scoutstrap"
	backupTimeFormat = "20060102_150405"
)

// PatchOutcome describes what EnsurePluginDir did.
type PatchOutcome struct {
	Changed    bool
	Created    bool   // file did not exist and was created
	Rebuilt    bool   // file was unparsable and replaced with consent
	BackupPath string // non-empty only when an existing file was overwritten
}

// Patcher mutates the host application's JSON configuration so the
// plugin directory is discovered. All other document content is
// preserved untouched, at any nesting depth; mutation happens at most
// once per run, with a timestamped backup written immediately before.
type Patcher struct {
	ConfigPath string
	Now        func() time.Time // backup timestamps; swapped in tests
}

// NewPatcher creates a Patcher for the given configuration file.
func NewPatcher(configPath string) *Patcher {
	return &Patcher{ConfigPath: configPath, Now: time.Now}
}

// EnsurePluginDir leaves the config file in a state where PluginDirsField
// contains dir exactly once (case-insensitive path comparison).
//
// States: absent file is created with consent; an unparsable file is
// backed up and rebuilt with consent (ConfigParseError without it); a
// missing field is initialized; an already-present entry is a no-op
// with no write and no backup.
func (p *Patcher) EnsurePluginDir(dir string, confirm Confirmer) (PatchOutcome, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return PatchOutcome{}, fmt.Errorf("plugin directory must not be empty")
	}

	raw, err := os.ReadFile(p.ConfigPath)
	if errors.Is(err, fs.ErrNotExist) {
		return p.createMinimal(dir, confirm)
	}
	if err != nil {
		return PatchOutcome{}, fmt.Errorf("reading %s: %w", p.ConfigPath, err)
	}

	doc, parseErr := standardizeConfig(raw)
	if parseErr != nil {
		return p.rebuild(raw, dir, parseErr, confirm)
	}

	entries := pluginDirEntries(doc)
	for _, e := range entries {
		if samePath(e, dir) {
			log.Debug().Str("dir", dir).Msg("plugin directory already registered")
			return PatchOutcome{}, nil
		}
	}

	ok, err := confirm.Confirm(fmt.Sprintf("Add %s to %s in %s?", dir, PluginDirsField, p.ConfigPath))
	if err != nil {
		return PatchOutcome{}, err
	}
	if !ok {
		return PatchOutcome{}, ErrDeclined
	}

	backup, err := p.writeBackup()
	if err != nil {
		return PatchOutcome{}, err
	}

	updated, err := sjson.Set(doc, PluginDirsField, append(entries, dir))
	if err != nil {
		return PatchOutcome{}, fmt.Errorf("updating %s: %w", PluginDirsField, err)
	}
	if err := writeFileAtomic(p.ConfigPath, []byte(updated), 0o600); err != nil {
		return PatchOutcome{}, err
	}
	return PatchOutcome{Changed: true, BackupPath: backup}, nil
}

// NeedsPatch reports whether a run would have to mutate the config
// file, without touching it. Absent and unparsable files both count as
// needing a patch.
func (p *Patcher) NeedsPatch(dir string) (bool, error) {
	raw, err := os.ReadFile(p.ConfigPath)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", p.ConfigPath, err)
	}
	doc, parseErr := standardizeConfig(raw)
	if parseErr != nil {
		return true, nil
	}
	for _, e := range pluginDirEntries(doc) {
		if samePath(e, dir) {
			return false, nil
		}
	}
	return true, nil
}

// createMinimal handles the absent-file state.
func (p *Patcher) createMinimal(dir string, confirm Confirmer) (PatchOutcome, error) {
	ok, err := confirm.Confirm(fmt.Sprintf("%s does not exist. Create it?", p.ConfigPath))
	if err != nil {
		return PatchOutcome{}, err
	}
	if !ok {
		return PatchOutcome{}, ErrDeclined
	}
	doc, err := sjson.Set("{}", PluginDirsField, []string{dir})
	if err != nil {
		return PatchOutcome{}, fmt.Errorf("building minimal config: %w", err)
	}
	if err := writeFileAtomic(p.ConfigPath, []byte(doc), 0o600); err != nil {
		return PatchOutcome{}, err
	}
	return PatchOutcome{Changed: true, Created: true}, nil
}

// rebuild handles the unparsable-file state. Without consent the
// original is left untouched and the run aborts with ConfigParseError.
func (p *Patcher) rebuild(raw []byte, dir string, parseErr error, confirm Confirmer) (PatchOutcome, error) {
	ok, err := confirm.Confirm(fmt.Sprintf("%s is not valid JSON. Back it up and rebuild it?", p.ConfigPath))
	if err != nil {
		return PatchOutcome{}, err
	}
	if !ok {
		return PatchOutcome{}, &ConfigParseError{Path: p.ConfigPath, Err: parseErr}
	}

	backup, err := p.writeBackup()
	if err != nil {
		return PatchOutcome{}, err
	}
	doc, err := sjson.Set("{}", PluginDirsField, []string{dir})
	if err != nil {
		return PatchOutcome{}, fmt.Errorf("building minimal config: %w", err)
	}
	if err := writeFileAtomic(p.ConfigPath, []byte(doc), 0o600); err != nil {
		return PatchOutcome{}, err
	}
	return PatchOutcome{Changed: true, Rebuilt: true, BackupPath: backup}, nil
}

// writeBackup copies the current config next to itself under a
// timestamped name. Called only immediately before an actual overwrite.
func (p *Patcher) writeBackup() (string, error) {
	name := filepath.Base(p.ConfigPath)
	stamp := p.Now().Format(backupTimeFormat)
	backup := filepath.Join(filepath.Dir(p.ConfigPath),
		fmt.Sprintf("%s.backup-by-%s-%s.json", name, toolIdentifier, stamp))
	if err := copyFile(p.ConfigPath, backup); err != nil {
		return "", fmt.Errorf("backing up %s: %w", p.ConfigPath, err)
	}
	log.Debug().Str("backup", backup).Msg("config backed up")
	return backup, nil
}

// standardizeConfig turns the on-disk bytes into a strict JSON object
// string. Hand-edited configs with comments or trailing commas are
// accepted (JWCC), anything else is a parse error.
func standardizeConfig(raw []byte) (string, error) {
	std, err := hujson.Standardize(raw)
	if err != nil {
		return "", err
	}
	if !gjson.ValidBytes(std) {
		return "", fmt.Errorf("not a valid JSON document")
	}
	if !gjson.ParseBytes(std).IsObject() {
		return "", fmt.Errorf("top-level value is not an object")
	}
	return string(std), nil
}

// pluginDirEntries reads the current field value, coercing legacy
// shapes: a plain string becomes a one-element list, anything else
// non-array counts as absent. Entries are trimmed; empty ones drop.
func pluginDirEntries(doc string) []string {
	field := gjson.Get(doc, PluginDirsField)
	var out []string
	switch {
	case field.IsArray():
		for _, e := range field.Array() {
			if e.Type != gjson.String {
				continue
			}
			if s := strings.TrimSpace(e.String()); s != "" {
				out = append(out, s)
			}
		}
	case field.Type == gjson.String:
		if s := strings.TrimSpace(field.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// samePath compares two directory paths case-insensitively, ignoring
// separator style and trailing separators. Comparison only; stored
// entries keep their original spelling.
func samePath(a, b string) bool {
	return strings.EqualFold(normalizePath(a), normalizePath(b))
}

func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, "/", `\`)
	return strings.TrimRight(p, `\`)
}
