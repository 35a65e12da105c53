// Package save persists game state to key/value stores and converts it to
// and from the shareable export string.
package save

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Version is written into every save.
const Version = 1

// InvalidNotice is the message shown when a save cannot be used.
const InvalidNotice = "Invalid save data!"

// ErrInvalidSave wraps every decode, schema and consistency failure.
var ErrInvalidSave = errors.New("invalid save data")

//go:embed schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("beehive-save.schema.json", schemaJSON)
	})
	return schema, schemaErr
}

// PlayerState is the saved player bee.
type PlayerState struct {
	Pollen   float64 `json:"pollen"`
	Capacity float64 `json:"capacity"`
	Speed    float64 `json:"speed"`
}

// HiveState is the saved hive.
type HiveState struct {
	Honey          float64 `json:"honey"`
	StoredPollen   float64 `json:"storedPollen"`
	ConversionRate float64 `json:"conversionRate"`
}

// UpgradeState is one saved upgrade.
type UpgradeState struct {
	Level int     `json:"level"`
	Cost  float64 `json:"cost"`
}

// State is the persisted game state. A nil section, or an upgrade kind
// missing from the map, leaves the corresponding game state untouched on load.
type State struct {
	Version  int                     `json:"version,omitempty"`
	Player   *PlayerState            `json:"player,omitempty"`
	Hive     *HiveState              `json:"hive,omitempty"`
	Upgrades map[string]UpgradeState `json:"upgrades,omitempty"`
}

// Check applies the rules the schema cannot express.
func (s *State) Check() error {
	if p := s.Player; p != nil && p.Pollen > p.Capacity {
		return fmt.Errorf("%w: player pollen %v exceeds capacity %v", ErrInvalidSave, p.Pollen, p.Capacity)
	}
	return nil
}

// Marshal encodes a state as JSON.
func Marshal(s *State) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding save: %w", err)
	}
	return data, nil
}

// Unmarshal decodes and validates JSON save data.
func Unmarshal(data []byte) (*State, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidSave)
	}

	sch, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling save schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}
	if err := s.Check(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Export encodes a state as the shareable base64 string.
func Export(s *State) (string, error) {
	data, err := Marshal(s)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Import decodes a string produced by Export.
func Import(str string) (*State, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidSave)
	}
	data, err := base64.StdEncoding.DecodeString(str)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}
	return Unmarshal(data)
}
