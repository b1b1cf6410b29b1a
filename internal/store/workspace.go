package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"curio-cli/internal/model"
)

const (
	curioDirName = ".curio"
	metaFileName = "workspace.json"
)

// Store is a handle on one workspace root. Pages are plain markdown files
// anywhere under Root; the .curio directory holds metadata and the index.
type Store struct {
	Root string
}

type WorkspaceMetaFile struct {
	Name        string    `json:"name"`
	WorkspaceID string    `json:"workspaceId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DiscoverRoot walks upward from start looking for a .curio directory.
func DiscoverRoot(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, curioDirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultRoot resolves the workspace for a bare invocation: the enclosing
// workspace of the cwd if any, else the registered current workspace.
func DefaultRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverRoot(cwd); ok {
		return found, nil
	}
	cfg, err := LoadConfig()
	if err != nil {
		return "", err
	}
	if name := strings.TrimSpace(cfg.CurrentWorkspace); name != "" {
		if ref, ok := cfg.Workspaces[name]; ok && strings.TrimSpace(ref.Path) != "" {
			return filepath.Clean(ref.Path), nil
		}
	}
	return "", errors.New("no workspace here (run `curio init` or `curio workspace use <name>`)")
}

func (s Store) curioDir() string {
	return filepath.Join(s.Root, curioDirName)
}

func (s Store) metaPath() string {
	return filepath.Join(s.curioDir(), metaFileName)
}

func (s Store) indexPath() string {
	return filepath.Join(s.curioDir(), "index.sqlite")
}

// IsWorkspace reports whether Root carries a .curio directory.
func (s Store) IsWorkspace() bool {
	st, err := os.Stat(s.curioDir())
	return err == nil && st.IsDir()
}

// Init marks Root as a workspace. Re-running on an existing workspace is a no-op.
func (s Store) Init(name string) (WorkspaceMetaFile, error) {
	if m, err := s.loadMeta(); err == nil {
		return m, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return WorkspaceMetaFile{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = filepath.Base(filepath.Clean(s.Root))
	}
	id, err := newRandomID("ws")
	if err != nil {
		return WorkspaceMetaFile{}, err
	}
	m := WorkspaceMetaFile{
		Name:        name,
		WorkspaceID: id,
		CreatedAt:   time.Now().UTC(),
	}
	if err := os.MkdirAll(s.curioDir(), 0o755); err != nil {
		return WorkspaceMetaFile{}, err
	}
	raw, _ := json.MarshalIndent(m, "", "  ")
	raw = append(raw, '\n')
	if err := os.WriteFile(s.metaPath(), raw, 0o644); err != nil {
		return WorkspaceMetaFile{}, err
	}
	return m, nil
}

func (s Store) loadMeta() (WorkspaceMetaFile, error) {
	b, err := os.ReadFile(s.metaPath())
	if err != nil {
		return WorkspaceMetaFile{}, err
	}
	var m WorkspaceMetaFile
	if err := json.Unmarshal(b, &m); err != nil {
		return WorkspaceMetaFile{}, err
	}
	if strings.TrimSpace(m.Name) == "" {
		m.Name = filepath.Base(filepath.Clean(s.Root))
	}
	return m, nil
}

// Info describes the workspace for display and envelopes.
func (s Store) Info() (model.WorkspaceInfo, error) {
	m, err := s.loadMeta()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.WorkspaceInfo{}, errors.New("not a workspace: " + s.Root)
		}
		return model.WorkspaceInfo{}, err
	}
	abs, err := filepath.Abs(s.Root)
	if err != nil {
		abs = filepath.Clean(s.Root)
	}
	return model.WorkspaceInfo{
		Name:      m.Name,
		Root:      abs,
		CreatedAt: m.CreatedAt,
	}, nil
}
