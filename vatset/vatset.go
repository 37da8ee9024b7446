// Package vatset loads a vat topology from a config file and wires it into
// a *kernel.Kernel. It is ambient infrastructure around the core: the
// kernel itself knows nothing about config files or YAML, only about
// vats, objects, and import/export pairs.
package vatset

import (
	"fmt"
	"sort"

	"github.com/spf13/viper"

	"github.com/vatkernel/vatkernel/kernel"
)

// VatSpec names one vat to register and the factory kind that builds its
// Dispatch implementation.
type VatSpec struct {
	Name string `mapstructure:"name"`
	Kind string `mapstructure:"kind"`
}

// ImportSpec wires fromVat's importID (a negative VatObjectId) to toVat's
// exportID (a non-negative VatObjectId it already owns), before boot.
type ImportSpec struct {
	From     string `mapstructure:"from"`
	ImportID int32  `mapstructure:"importId"`
	To       string `mapstructure:"to"`
	ExportID int32  `mapstructure:"exportId"`
}

// Config is the on-disk shape of a vat topology: which vats exist, how
// they're pre-wired to each other, and which one receives the bootstrap
// delivery.
type Config struct {
	Vats      []VatSpec    `mapstructure:"vats"`
	Imports   []ImportSpec `mapstructure:"imports"`
	Bootstrap string       `mapstructure:"bootstrap"`
}

// Load reads and decodes a vat topology file. The format is inferred from
// path's extension by viper (yaml, json, toml, ...); this project only
// ships YAML examples.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("vatset: reading %s: %w", path, err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("vatset: decoding %s: %w", path, err)
	}
	return cfg, nil
}

// Factories maps a VatSpec's Kind to a constructor for its Dispatch, given
// the vat's own name. The core has no notion of vat "kinds" -- this is
// purely how the ambient config front-end decides what behavior to
// instantiate for each registered vat.
type Factories map[string]func(name string) kernel.Dispatch

// Build registers every vat named in cfg against k, wires the declared
// imports, and returns the bootstrap vat's id. Vats are registered in the
// order they appear in cfg.Vats, since VatId assignment is
// order-dependent and the config's own order is the only sensible
// contract to expose to the operator.
func Build(k *kernel.Kernel, cfg Config, factories Factories) (kernel.VatId, error) {
	for _, vs := range cfg.Vats {
		factory, ok := factories[vs.Kind]
		if !ok {
			return 0, fmt.Errorf("vatset: no factory registered for vat kind %q (vat %q)", vs.Kind, vs.Name)
		}
		k.AddVat(vs.Name, factory(vs.Name))
	}

	for _, is := range cfg.Imports {
		fromID, ok := k.VatByName(is.From)
		if !ok {
			return 0, fmt.Errorf("vatset: import references unknown vat %q", is.From)
		}
		toID, ok := k.VatByName(is.To)
		if !ok {
			return 0, fmt.Errorf("vatset: import references unknown vat %q", is.To)
		}
		err := k.AddImportExport(fromID, kernel.VatObjectId(is.ImportID), toID, kernel.VatObjectId(is.ExportID))
		if err != nil {
			return 0, fmt.Errorf("vatset: wiring %s->%s: %w", is.From, is.To, err)
		}
	}

	bootstrapID, ok := k.VatByName(cfg.Bootstrap)
	if !ok {
		return 0, fmt.Errorf("vatset: bootstrap vat %q not registered", cfg.Bootstrap)
	}
	return bootstrapID, nil
}

// Names returns every vat name in cfg, sorted, for operators inspecting a
// loaded topology (e.g. the CLI's "topology loaded" log line).
func (c Config) Names() []string {
	out := make([]string, 0, len(c.Vats))
	for _, vs := range c.Vats {
		out = append(out, vs.Name)
	}
	sort.Strings(out)
	return out
}
