package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type GlobalConfig struct {
	CurrentWorkspace string `json:"currentWorkspace,omitempty"`

	// Workspaces is a registry of named workspace roots.
	Workspaces map[string]WorkspaceRef `json:"workspaces,omitempty"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Theme forces the palette: "light", "dark" or "auto".
	Theme string `json:"theme,omitempty"`
	// Glyphs selects the glyph set: "unicode" or "ascii".
	Glyphs string `json:"glyphs,omitempty"`
}

type WorkspaceRef struct {
	// Path is the workspace root directory.
	Path string `json:"path"`

	// LastOpened is an optional timestamp for MRU selection in UIs.
	LastOpened string `json:"lastOpened,omitempty"`
}

type WorkspaceEntry struct {
	Name    string       `json:"name"`
	Ref     WorkspaceRef `json:"ref"`
	Current bool         `json:"current,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.curio).
	if v := strings.TrimSpace(os.Getenv("CURIO_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".curio"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Best-effort safety net: keep a copy of the previous config to make recovery from
	// accidental overwrites easier. Ignore errors to avoid blocking normal usage.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.json.bak.*.tmp", path+".bak", prev, 0o644)
	}

	// Unique temp file name + rename avoids cross-process clobbering when multiple
	// curio processes write config concurrently (CLI + TUI + web).
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

func NormalizeWorkspaceName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("workspace name is empty")
	}
	return name, nil
}

// RegisterWorkspace adds or updates a named workspace root in the global registry.
func RegisterWorkspace(name, root string) error {
	name, err := NormalizeWorkspaceName(name)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(strings.TrimSpace(root))
	if err != nil {
		return err
	}
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	if cfg.Workspaces == nil {
		cfg.Workspaces = map[string]WorkspaceRef{}
	}
	cfg.Workspaces[name] = WorkspaceRef{Path: filepath.Clean(abs)}
	return SaveConfig(cfg)
}

// SetCurrentWorkspace switches the default workspace; the name must be registered.
func SetCurrentWorkspace(name string) error {
	name, err := NormalizeWorkspaceName(name)
	if err != nil {
		return err
	}
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	if _, ok := cfg.Workspaces[name]; !ok {
		return errors.New("unknown workspace: " + name)
	}
	cfg.CurrentWorkspace = name
	return SaveConfig(cfg)
}

// ListWorkspaceEntries returns the registered workspaces sorted by name.
func ListWorkspaceEntries() ([]WorkspaceEntry, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(cfg.Workspaces))
	for name := range cfg.Workspaces {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]WorkspaceEntry, 0, len(names))
	for _, name := range names {
		ref := cfg.Workspaces[name]
		ref.Path = filepath.Clean(strings.TrimSpace(ref.Path))
		out = append(out, WorkspaceEntry{
			Name:    name,
			Ref:     ref,
			Current: name == cfg.CurrentWorkspace,
		})
	}
	return out, nil
}

// WorkspaceDir resolves a registered workspace name to its root directory.
func WorkspaceDir(name string) (string, error) {
	name, err := NormalizeWorkspaceName(name)
	if err != nil {
		return "", err
	}
	cfg, err := LoadConfig()
	if err != nil {
		return "", err
	}
	ref, ok := cfg.Workspaces[name]
	if !ok {
		return "", errors.New("unknown workspace: " + name)
	}
	return filepath.Clean(strings.TrimSpace(ref.Path)), nil
}
