package volume

import "sort"

// RewriteFunc replaces the source of a volume whose name matches an alias
type RewriteFunc func(original Volume) Source

// AliasTable maps conventional volume names to debug-safe replacements.
// A table is built once at startup and only read afterwards.
type AliasTable struct {
	rules map[string]RewriteFunc
}

// DeviceAlias describes a host device or directory passed through by name
type DeviceAlias struct {
	Path string
	Type string
}

var defaultDeviceAliases = map[string]DeviceAlias{
	"coral-device": {Path: "/dev/apex_0", Type: "CharDevice"},
	"qsv-device":   {Path: "/dev/dri", Type: "Directory"},
}

var defaultCacheVolumes = []string{"cache-volume"}

// NewAliasTable builds a table from device and cache aliases. A device
// alias wins over a cache entry with the same name.
func NewAliasTable(devices map[string]DeviceAlias, caches []string) *AliasTable {
	t := &AliasTable{rules: make(map[string]RewriteFunc, len(devices)+len(caches))}
	for _, name := range caches {
		t.rules[name] = func(Volume) Source {
			return EmptyDir{Medium: "Memory"}
		}
	}
	for name, dev := range devices {
		dev := dev
		t.rules[name] = func(Volume) Source {
			return HostPath{Path: dev.Path, Type: dev.Type}
		}
	}
	return t
}

// DefaultAliasTable returns the built-in aliases, extended by the given
// device and cache entries (typically read from the config file).
func DefaultAliasTable(extraDevices map[string]DeviceAlias, extraCaches []string) *AliasTable {
	devices := make(map[string]DeviceAlias, len(defaultDeviceAliases)+len(extraDevices))
	for k, v := range defaultDeviceAliases {
		devices[k] = v
	}
	for k, v := range extraDevices {
		devices[k] = v
	}
	caches := append(append([]string{}, defaultCacheVolumes...), extraCaches...)
	return NewAliasTable(devices, caches)
}

// Lookup returns the rewrite registered for name
func (t *AliasTable) Lookup(name string) (RewriteFunc, bool) {
	if t == nil {
		return nil, false
	}
	r, ok := t.rules[name]
	return r, ok
}

// Names lists the aliased volume names in sorted order
func (t *AliasTable) Names() []string {
	names := make([]string, 0, len(t.rules))
	for name := range t.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
