package profiles

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Package profiles holds named API endpoint configs (YAML/JSON) so one
// binary can target several contacts deployments.

type Profile struct {
	ID      string         `json:"id" yaml:"id"`
	Name    string         `json:"name" yaml:"name"`
	BaseURL string         `json:"base_url" yaml:"base_url"`
	Default bool           `json:"default" yaml:"default"`
	Config  map[string]any `json:"config" yaml:"config"`
}

type registry struct {
	Profiles []Profile `json:"profiles" yaml:"profiles"`
}

var (
	regMu       sync.RWMutex
	currentReg  registry
	profilesIdx map[string]Profile
)

// Profiles returns a copy of the currently loaded profiles.
func Profiles() []Profile {
	regMu.RLock()
	defer regMu.RUnlock()

	if len(currentReg.Profiles) == 0 {
		return nil
	}

	out := make([]Profile, len(currentReg.Profiles))
	copy(out, currentReg.Profiles)
	return out
}

// ProfileByID returns the profile entry for the given id, if loaded.
func ProfileByID(id string) (Profile, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Profile{}, false
	}

	regMu.RLock()
	defer regMu.RUnlock()

	if profilesIdx == nil {
		return Profile{}, false
	}

	p, ok := profilesIdx[id]
	return p, ok
}

// DefaultProfile returns the profile flagged default, or the first one.
func DefaultProfile() (Profile, bool) {
	regMu.RLock()
	defer regMu.RUnlock()

	for _, p := range currentReg.Profiles {
		if p.Default {
			return p, true
		}
	}
	if len(currentReg.Profiles) > 0 {
		return currentReg.Profiles[0], true
	}
	return Profile{}, false
}

// LoadProfiles loads the profile registry from file.
func LoadProfiles(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("profiles file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open profiles file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read profiles file: %w", err)
	}

	reg, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return err
	}

	if len(reg.Profiles) == 0 {
		return errors.New("profiles file contains no profiles entries")
	}

	idx := make(map[string]Profile, len(reg.Profiles))
	defaults := 0
	for i := range reg.Profiles {
		p := sanitizeProfile(reg.Profiles[i])
		if err := validateProfile(p); err != nil {
			return fmt.Errorf("profile[%d]: %w", i, err)
		}
		if _, exists := idx[p.ID]; exists {
			return fmt.Errorf("duplicate profile id %q", p.ID)
		}
		if p.Default {
			defaults++
		}
		reg.Profiles[i] = p
		idx[p.ID] = p
	}
	if defaults > 1 {
		return errors.New("more than one profile is flagged default")
	}

	regMu.Lock()
	currentReg = reg
	profilesIdx = idx
	regMu.Unlock()

	return nil
}

func parseRegistry(data []byte, ext string) (registry, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if reg, err := unmarshalRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}

	return registry{}, errors.New("profiles file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalRegistry(name string, data []byte, fn unmarshalFn) (registry, error) {
	var reg registry
	if err := fn(data, &reg); err != nil {
		return registry{}, fmt.Errorf("decode %s profiles: %w", name, err)
	}
	return reg, nil
}

func sanitizeProfile(p Profile) Profile {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.BaseURL = strings.TrimRight(strings.TrimSpace(p.BaseURL), "/")

	if p.Config == nil {
		p.Config = map[string]any{}
	}

	return p
}

func validateProfile(p Profile) error {
	if p.ID == "" {
		return errors.New("id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required for profile %q", p.ID)
	}
	if p.BaseURL == "" {
		return fmt.Errorf("base_url is required for profile %q", p.ID)
	}
	if !strings.HasPrefix(p.BaseURL, "http://") && !strings.HasPrefix(p.BaseURL, "https://") {
		return fmt.Errorf("base_url must be http(s) for profile %q", p.ID)
	}
	return nil
}
