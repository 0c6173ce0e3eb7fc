package guard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsProtected(t *testing.T) {
	assert.True(t, IsProtected("kube-system"))
	assert.True(t, IsProtected("argocd"))
	assert.False(t, IsProtected("apps"))
	assert.False(t, IsProtected(""))
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(""))
	assert.NoError(t, Check("apps"))

	err := Check("kube-system")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProtectedNamespace))

	var pe *ProtectedNamespaceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "kube-system", pe.Namespace)
	assert.EqualError(t, err, "cannot operate on protected namespace kube-system")
}

func TestFilter(t *testing.T) {
	type job struct{ ns, name string }
	in := []job{{"apps", "a"}, {"kube-system", "b"}, {"monitoring", "c"}, {"data", "d"}}

	out := Filter(in, func(j job) string { return j.ns })
	assert.Equal(t, []job{{"apps", "a"}, {"data", "d"}}, out)
}
