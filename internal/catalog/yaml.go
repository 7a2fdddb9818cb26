package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/magefree/sbb-sim/internal/game/minion"
)

//go:embed data/minions.yaml
var defaultMinions []byte

type fileDef struct {
	Minions []templateDef `yaml:"minions"`
}

type templateDef struct {
	Name      string   `yaml:"name"`
	Attack    int      `yaml:"attack"`
	Health    int      `yaml:"health"`
	Alignment string   `yaml:"alignment"`
	Types     []string `yaml:"types"`
	Level     int      `yaml:"level"`
	Upgraded  bool     `yaml:"upgraded"`
	Ranged    bool     `yaml:"ranged"`
	Flying    bool     `yaml:"flying"`
	Slay      bool     `yaml:"slay"`
}

func (d templateDef) template() minion.Template {
	return minion.Template{
		Name:       d.Name,
		BaseAttack: d.Attack,
		BaseHealth: d.Health,
		Alignment:  minion.Alignment(d.Alignment),
		Types:      d.Types,
		Level:      d.Level,
		Upgraded:   d.Upgraded,
		Ranged:     d.Ranged,
		Flying:     d.Flying,
		Slay:       d.Slay,
	}
}

// LoadYAML reads a catalog document.
func LoadYAML(r io.Reader) (*Catalog, error) {
	var doc fileDef
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	templates := make([]minion.Template, 0, len(doc.Minions))
	for _, def := range doc.Minions {
		templates = append(templates, def.template())
	}
	return New(templates...)
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := LoadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return LoadYAML(bytes.NewReader(defaultMinions))
}
