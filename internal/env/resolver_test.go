package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lookupFrom(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestProxy(t *testing.T) {
	r := NewResolver(lookupFrom(map[string]string{
		"no_proxy":    ".svc,.cluster.local",
		"HTTPS_PROXY": "http://proxy:3128",
		"HOME":        "/root",
	}))

	got := r.Proxy()
	assert.Equal(t, []Var{
		{Name: "HTTPS_PROXY", Value: "http://proxy:3128"},
		{Name: "no_proxy", Value: ".svc,.cluster.local"},
	}, got)
	assert.Equal(t, []string{"HTTPS_PROXY", "no_proxy"}, Names(got))
}

func TestProxyNoneSet(t *testing.T) {
	r := NewResolver(lookupFrom(nil))
	assert.Empty(t, r.Proxy())
}

func TestProxyProcessEnvironment(t *testing.T) {
	t.Setenv("HTTP_PROXY", "http://corp:8080")

	got := NewResolver(nil).Proxy()
	assert.Contains(t, got, Var{Name: "HTTP_PROXY", Value: "http://corp:8080"})
}
