// Package source selects a front-end by format and turns input files into
// syntax nodes.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/reoring/ioschema"
	jsonsrc "github.com/reoring/ioschema/source/json"
	yamlsrc "github.com/reoring/ioschema/source/yaml"
)

// Driver converts input bytes into syntax nodes.
type Driver interface {
	Name() string
	Parse(data []byte, opt ioschema.ParseOpt) (ioschema.Node, error)
	ParseRecords(data []byte, opt ioschema.ParseOpt) ([]ioschema.Node, error)
}

type jsonDriver struct{}

func (jsonDriver) Name() string { return "json" }
func (jsonDriver) Parse(b []byte, opt ioschema.ParseOpt) (ioschema.Node, error) {
	return jsonsrc.Parse(b, opt)
}
func (jsonDriver) ParseRecords(b []byte, opt ioschema.ParseOpt) ([]ioschema.Node, error) {
	return jsonsrc.ParseRecords(b, opt)
}

type yamlDriver struct{}

func (yamlDriver) Name() string { return "yaml" }
func (yamlDriver) Parse(b []byte, opt ioschema.ParseOpt) (ioschema.Node, error) {
	return yamlsrc.Parse(b, opt)
}
func (yamlDriver) ParseRecords(b []byte, opt ioschema.ParseOpt) ([]ioschema.Node, error) {
	return yamlsrc.ParseRecords(b, opt)
}

// JSON returns the goccy/go-json backed driver.
func JSON() Driver { return jsonDriver{} }

// YAML returns the yaml.v3 backed driver.
func YAML() Driver { return yamlDriver{} }

var (
	driversMu sync.RWMutex
	drivers   = map[string]Driver{
		".json":  jsonDriver{},
		".jsonl": jsonDriver{},
		".yaml":  yamlDriver{},
		".yml":   yamlDriver{},
	}
)

// SetDriver binds a file extension (".json") to d; nil removes the binding.
func SetDriver(ext string, d Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	ext = strings.ToLower(ext)
	if d == nil {
		delete(drivers, ext)
		return
	}
	drivers[ext] = d
}

// Extensions lists the bound file extensions.
func Extensions() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	out := make([]string, 0, len(drivers))
	for ext := range drivers {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// ForPath picks the driver by the extension of path.
func ForPath(path string) (Driver, error) {
	ext := strings.ToLower(filepath.Ext(path))
	driversMu.RLock()
	d, ok := drivers[ext]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("source: no driver for %q (known: %s)", path, strings.Join(Extensions(), ", "))
	}
	return d, nil
}

// ReadRecords reads path and splits it into records with the matching driver.
func ReadRecords(path string, opt ioschema.ParseOpt) ([]ioschema.Node, error) {
	d, err := ForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	nodes, err := d.ParseRecords(data, opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nodes, nil
}
