package store

import (
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixture is the on-disk snapshot format:
//
//	keys:
//	  - path: 'HKEY_CLASSES_ROOT\*\shell\edit'
//	    values:
//	      "": Edit with Notepad
//	      LegacyDisable: ""
//
// Keys are created in listing order, so listing order is enumeration order.
// Integer values load as DWORDs.
type Fixture struct {
	Keys []FixtureKey `yaml:"keys"`
}

// FixtureKey is one node in a Fixture.
type FixtureKey struct {
	Path   string         `yaml:"path"`
	Values map[string]any `yaml:"values"`
}

// LoadFixture reads a YAML snapshot into a new MemStore.
func LoadFixture(r io.Reader) (*MemStore, error) {
	var fx Fixture
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&fx); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return fx.Build()
}

// LoadFixtureFile opens path and loads it with LoadFixture.
func LoadFixtureFile(path string) (*MemStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()
	return LoadFixture(f)
}

// Build materializes the fixture.
func (fx Fixture) Build() (*MemStore, error) {
	s := NewMemStore()
	for _, k := range fx.Keys {
		if err := s.CreateKey(k.Path); err != nil {
			return nil, err
		}
		for name, raw := range k.Values {
			v, err := fixtureValue(raw)
			if err != nil {
				return nil, fmt.Errorf("%s\\%s: %w", k.Path, name, err)
			}
			if err := s.SetValue(k.Path, name, v); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func fixtureValue(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return StringValue(""), nil
	case string:
		return StringValue(v), nil
	case int:
		if v < 0 {
			return Value{}, fmt.Errorf("negative dword %d", v)
		}
		if uint64(v) > math.MaxUint32 {
			return Value{}, fmt.Errorf("dword %d out of range", v)
		}
		return DWordValue(uint32(v)), nil
	case uint64:
		return Value{}, fmt.Errorf("dword %d out of range", v)
	case bool:
		if v {
			return DWordValue(1), nil
		}
		return DWordValue(0), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", raw)
	}
}
