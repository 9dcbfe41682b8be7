package levels

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/milk9111/cityfps/common"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var LevelsFS embed.FS

// Dir is checked before the embedded levels.
var Dir = "levels"

var ErrUnknownFormat = errors.New("levels: unknown format")

type Format int

const (
	FormatYAML Format = iota
	FormatMsgpack
)

// FormatOf picks a codec from a file extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(name))
}

// Layout is the world a simulation starts from: static level volumes plus
// pre-placed vehicles and enemies.
type Layout struct {
	Name        string     `yaml:"name" msgpack:"name"`
	PlayerSpawn [3]float64 `yaml:"player_spawn" msgpack:"player_spawn"`
	PlayerYaw   float64    `yaml:"player_yaw,omitempty" msgpack:"player_yaw,omitempty"`
	Props       []PropSpec `yaml:"props" msgpack:"props"`
	Entities    []Entity   `yaml:"entities,omitempty" msgpack:"entities,omitempty"`
}

// PropSpec is one collidable volume. X/Z is the footprint center and Y the
// bottom of the box.
type PropSpec struct {
	ID    string     `yaml:"id,omitempty" msgpack:"id,omitempty"`
	Role  string     `yaml:"role" msgpack:"role"`
	X     float64    `yaml:"x" msgpack:"x"`
	Y     float64    `yaml:"y" msgpack:"y"`
	Z     float64    `yaml:"z" msgpack:"z"`
	Size  [3]float64 `yaml:"size" msgpack:"size"`
	Model string     `yaml:"model,omitempty" msgpack:"model,omitempty"`
}

func (p PropSpec) Position() common.Vec3 {
	return common.V(p.X, p.Y, p.Z)
}

func (p PropSpec) Box() common.Box {
	return common.BoxAt(p.Position(), p.Size[0]/2, p.Size[1], p.Size[2]/2)
}

// Entity is a pre-placed actor. Type is "enemy" or "vehicle"; Name is the
// enemy type or the vehicle model.
type Entity struct {
	Type string     `yaml:"type" msgpack:"type"`
	Name string     `yaml:"name" msgpack:"name"`
	X    float64    `yaml:"x" msgpack:"x"`
	Y    float64    `yaml:"y,omitempty" msgpack:"y,omitempty"`
	Z    float64    `yaml:"z" msgpack:"z"`
	Yaw  float64    `yaml:"yaw,omitempty" msgpack:"yaw,omitempty"`
	Size [3]float64 `yaml:"size,omitempty" msgpack:"size,omitempty"`
}

// Load reads a layout by file name, disk copy first.
func Load(name string) (*Layout, error) {
	format, err := FormatOf(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(Dir, filepath.Base(name)))
	if err != nil {
		data, err = LevelsFS.ReadFile(filepath.Base(name))
		if err != nil {
			return nil, fmt.Errorf("levels: read %s: %w", name, err)
		}
	}
	lvl, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("levels: decode %s: %w", name, err)
	}
	return lvl, nil
}

// LoadFile reads a layout from an explicit path.
func LoadFile(path string) (*Layout, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", path, err)
	}
	lvl, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("levels: decode %s: %w", path, err)
	}
	return lvl, nil
}

// LoadOrEmpty never fails: a broken or missing layout yields an empty world
// and the error for logging.
func LoadOrEmpty(name string) (*Layout, error) {
	lvl, err := Load(name)
	if err != nil {
		return &Layout{Name: "empty"}, err
	}
	return lvl, nil
}

func Decode(data []byte, format Format) (*Layout, error) {
	var lvl Layout
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &lvl); err != nil {
			return nil, err
		}
	case FormatMsgpack:
		if err := msgpack.Unmarshal(data, &lvl); err != nil {
			return nil, err
		}
	default:
		return nil, ErrUnknownFormat
	}
	return &lvl, nil
}

func Encode(lvl *Layout, format Format) ([]byte, error) {
	if lvl == nil {
		return nil, errors.New("levels: nil layout")
	}
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(lvl); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatMsgpack:
		return msgpack.Marshal(lvl)
	}
	return nil, ErrUnknownFormat
}
