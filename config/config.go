package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Flag globals shared across commands, bound in cmd/root.go.
var (
	DataDir        string
	JSONOutputFile string
	NoColor        bool
)

//go:embed config.example.toml
var exampleConf []byte

// File is the on-disk configuration, loaded from <data-dir>/config.toml.
// Empty values fall back to files under the data directory.
type File struct {
	DBPath    string `toml:"db_path"`
	PrefsPath string `toml:"prefs_path"`
	IndexDir  string `toml:"index_dir"`
}

// Paths holds the effective file locations for this run after the data
// directory, the config file, and the built-in defaults have been combined.
type Paths struct {
	DataDir   string
	DBPath    string
	PrefsPath string
	IndexDir  string
}

// DefaultDataDir returns ~/.ethbook, falling back to a relative .ethbook
// when the home directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ethbook"
	}
	return filepath.Join(home, ".ethbook")
}

// ConfigPath returns the config file location inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config.toml")
}

// LoadFile reads and parses a TOML configuration file from the specified path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &file, nil
}

// DefaultFile returns a File with the defaults from the embedded example
// config (all paths empty, so everything lands under the data directory).
func DefaultFile() *File {
	var file File
	if err := toml.Unmarshal(exampleConf, &file); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &file
}

// CreateConfigFile writes the embedded example config to path so users have a
// commented template to edit. It refuses to overwrite an existing file.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Resolve combines the --data-dir flag, the optional config.toml inside it,
// and the built-in defaults into the effective paths for this run. The data
// directory is created if missing so callers can open files directly.
func Resolve() (Paths, error) {
	dataDir := DataDir
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return Paths{}, fmt.Errorf("creating data dir %s: %w", dataDir, err)
	}

	file := &File{}
	if path := ConfigPath(dataDir); fileExists(path) {
		loaded, err := LoadFile(path)
		if err != nil {
			return Paths{}, err
		}
		file = loaded
	}

	p := Paths{
		DataDir:   dataDir,
		DBPath:    file.DBPath,
		PrefsPath: file.PrefsPath,
		IndexDir:  file.IndexDir,
	}
	if p.DBPath == "" {
		p.DBPath = filepath.Join(dataDir, "contacts.db")
	}
	if p.PrefsPath == "" {
		p.PrefsPath = filepath.Join(dataDir, "preferences.json")
	}
	if p.IndexDir == "" {
		p.IndexDir = filepath.Join(dataDir, "index")
	}
	return p, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
