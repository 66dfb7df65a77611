package carve

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/MindPort-GmbH/Z-Anatomy-Sample/math"
)

// Sessions persist the captured stamps so a set of cuts survives a restart.
// Targets are not persisted; they are rediscovered through overlap as usual.

const sessionVersion = 1

type sessionFile struct {
	Version int         `json:"version"`
	Config  Config      `json:"config"`
	Stamps  []math.Mat4 `json:"stamps"`
}

// SaveSession writes the current stamp history and configuration to path.
func (e *Engine) SaveSession(path string) error {
	sf := sessionFile{
		Version: sessionVersion,
		Config:  e.cfg,
		Stamps:  e.history.Stamps(),
	}
	data, err := json.MarshalIndent(&sf, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// LoadSession replaces the stamp history with the one stored at path,
// keeping the newest stamps when the file holds more than the configured
// capacity, and republishes to all current targets. The stored config is
// informational only; the engine keeps its own.
func (e *Engine) LoadSession(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}
	var sf sessionFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}
	if sf.Version != sessionVersion {
		return fmt.Errorf("session version %d not supported", sf.Version)
	}

	e.history.Restore(sf.Stamps)
	e.publishAll()
	return nil
}
