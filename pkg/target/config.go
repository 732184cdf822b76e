package target

import (
	"io/ioutil"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type targetSpec struct {
	Triple string   `yaml:"triple"`
	Setup  []string `yaml:"setup,omitempty"`
	Tool   string   `yaml:"tool,omitempty"`
}

type targetConfig struct {
	Targets map[string]targetSpec `yaml:"targets"`
}

// LoadConfig reads extra target declarations from the given YAML file.
// A missing file simply means there are no extra targets.
func LoadConfig(path string) (Table, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		if eris.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, eris.Wrapf(err, "Could not open file %s.", path)
	}

	var cfg targetConfig
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, eris.Wrapf(err, "Failed to parse %s.", path)
	}

	extra := make(Table, len(cfg.Targets))
	for name, spec := range cfg.Targets {
		if name == "" {
			return nil, eris.Errorf("%s declares a target with an empty mnemonic", path)
		}

		if spec.Triple == "" {
			return nil, eris.Errorf("target %s declares no triple", name)
		}

		extra[name] = Target{
			Triple: spec.Triple,
			Setup:  spec.Setup,
			Tool:   spec.Tool,
		}
	}

	return extra, nil
}

// Merge overlays the extra entries onto the base table. Built-in mnemonics
// can't be redefined; a config entry that shadows one is rejected rather than
// silently repointing an established board name.
func Merge(base, extra Table) (Table, error) {
	merged := make(Table, len(base)+len(extra))
	for name, tgt := range base {
		merged[name] = tgt
	}

	for name, tgt := range extra {
		if _, exists := base[name]; exists {
			return nil, eris.Errorf("target %s is built in and can't be redefined", name)
		}

		merged[name] = tgt
	}

	return merged, nil
}
