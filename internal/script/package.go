package script

import (
	"fmt"
	"sort"
	"strings"
)

// PackageKind selects how an additional package is installed
type PackageKind string

const (
	KindSystem    PackageKind = "system"
	KindUV        PackageKind = "uv"
	KindInstaller PackageKind = "i"
	KindGH        PackageKind = "gh"
	KindCurlSh    PackageKind = "curlsh"
	KindCurlBash  PackageKind = "curlbash"
	KindBrew      PackageKind = "brew"
	KindCargo     PackageKind = "cargo"
	KindPipx      PackageKind = "pipx"
	KindNPM       PackageKind = "npm"
	KindGo        PackageKind = "go"
)

var kindAliases = map[string]PackageKind{
	"installer": KindInstaller,
}

var supportedKinds = map[PackageKind]bool{
	KindSystem: true, KindUV: true, KindInstaller: true, KindGH: true,
	KindCurlSh: true, KindCurlBash: true, KindBrew: true, KindCargo: true,
	KindPipx: true, KindNPM: true, KindGo: true,
}

// Package is an extra tool to install in the inspector, written as
// "kind:value" or just "value" for the system package manager
type Package struct {
	Kind  PackageKind
	Value string
}

// ParsePackage parses a raw package reference such as "uv:copier"
func ParsePackage(raw string) (Package, error) {
	kind, value, found := strings.Cut(raw, ":")
	if !found {
		return Package{Kind: KindSystem, Value: strings.TrimSpace(raw)}, nil
	}

	k := PackageKind(strings.TrimSpace(kind))
	if alias, ok := kindAliases[string(k)]; ok {
		k = alias
	}
	if !supportedKinds[k] {
		return Package{}, fmt.Errorf("unknown installer kind %q (supported: %s)", kind, strings.Join(SupportedKinds(), ", "))
	}
	return Package{Kind: k, Value: strings.TrimSpace(value)}, nil
}

// ParsePackages parses every raw reference, failing on the first bad one
func ParsePackages(raw []string) ([]Package, error) {
	pkgs := make([]Package, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		p, err := ParsePackage(r)
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, p)
	}
	return pkgs, nil
}

// SupportedKinds lists the accepted kind prefixes
func SupportedKinds() []string {
	kinds := make([]string, 0, len(supportedKinds)+len(kindAliases))
	for k := range supportedKinds {
		kinds = append(kinds, string(k))
	}
	for k := range kindAliases {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func (p Package) String() string {
	if p.Kind == KindSystem {
		return p.Value
	}
	return string(p.Kind) + ":" + p.Value
}

// Dependencies returns the system packages needed before p can install
func (p Package) Dependencies() []Package {
	sys := func(names ...string) []Package {
		out := make([]Package, 0, len(names))
		for _, n := range names {
			out = append(out, Package{Kind: KindSystem, Value: n})
		}
		return out
	}

	switch p.Kind {
	case KindUV, KindInstaller, KindGH, KindCurlSh, KindCurlBash:
		return sys("curl")
	case KindBrew:
		return sys("brew", "git")
	case KindCargo:
		return sys("cargo")
	case KindPipx:
		return sys("pipx")
	case KindNPM:
		return sys("npm")
	case KindGo:
		return sys("go")
	}
	return nil
}

// InstallCommand renders the shell command installing p
func (p Package) InstallCommand() string {
	switch p.Kind {
	case KindUV:
		return "uv tool install " + p.Value
	case KindInstaller, KindGH:
		return "curl -fsSL https://i.jpillora.com/" + p.Value + " | sh"
	case KindCurlSh:
		return "curl -fsSL " + p.Value + " | sh"
	case KindCurlBash:
		return "curl -fsSL " + p.Value + " | bash"
	case KindBrew:
		return "brew install " + p.Value
	case KindCargo:
		return "cargo install " + p.Value
	case KindPipx:
		return "pipx install " + p.Value
	case KindNPM:
		return "npm install -g " + p.Value
	case KindGo:
		return "go install " + p.Value + "@latest"
	default:
		return "apk add " + p.Value
	}
}

// InstallCommands renders dependencies first, then the packages, keeping
// only the first occurrence of each command
func InstallCommands(pkgs []Package) []string {
	var cmds []string
	for _, p := range pkgs {
		for _, dep := range p.Dependencies() {
			cmds = append(cmds, dep.InstallCommand())
		}
	}
	for _, p := range pkgs {
		cmds = append(cmds, p.InstallCommand())
	}

	seen := make(map[string]bool, len(cmds))
	out := make([]string, 0, len(cmds))
	for _, c := range cmds {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
