package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePackage(t *testing.T) {
	tests := []struct {
		raw  string
		want Package
	}{
		{"curl", Package{Kind: KindSystem, Value: "curl"}},
		{"uv:copier", Package{Kind: KindUV, Value: "copier"}},
		{"i:sharkdp/fd", Package{Kind: KindInstaller, Value: "sharkdp/fd"}},
		{"installer:sharkdp/bat", Package{Kind: KindInstaller, Value: "sharkdp/bat"}},
		{"curlsh:https://example.com/install.sh", Package{Kind: KindCurlSh, Value: "https://example.com/install.sh"}},
		{" brew : bat ", Package{Kind: KindBrew, Value: "bat"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParsePackage(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParsePackage("apt:vim")
	assert.ErrorContains(t, err, `unknown installer kind "apt"`)
}

func TestInstallCommands(t *testing.T) {
	pkgs, err := ParsePackages([]string{"curl", "wget", "uv:copier", "i:sharkdp/fd", "curlsh:https://example.com/install.sh", "brew:bat", ""})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"apk add curl",
		"apk add brew",
		"apk add git",
		"apk add wget",
		"uv tool install copier",
		"curl -fsSL https://i.jpillora.com/sharkdp/fd | sh",
		"curl -fsSL https://example.com/install.sh | sh",
		"brew install bat",
	}, InstallCommands(pkgs))
}

func TestPackageString(t *testing.T) {
	assert.Equal(t, "vim", Package{Kind: KindSystem, Value: "vim"}.String())
	assert.Equal(t, "go:golang.org/x/tools/gopls", Package{Kind: KindGo, Value: "golang.org/x/tools/gopls"}.String())
	assert.Equal(t, "go install golang.org/x/tools/gopls@latest", Package{Kind: KindGo, Value: "golang.org/x/tools/gopls"}.InstallCommand())
}
