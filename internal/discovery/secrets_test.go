package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/ginbear/krayt/internal/env"
	"github.com/ginbear/krayt/internal/k8s"
	"github.com/ginbear/krayt/internal/volume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	clientgotesting "k8s.io/client-go/testing"
)

func noEnv() *env.Resolver {
	return env.NewResolver(func(string) (string, bool) { return "", false })
}

func secret(name string, typ corev1.SecretType) *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "apps"},
		Type:       typ,
	}
}

func TestDiscoverSecrets(t *testing.T) {
	clientset := fake.NewClientset(
		secret("zeta", corev1.SecretTypeOpaque),
		secret("alpha", corev1.SecretTypeOpaque),
		secret("default-token-x8z2", corev1.SecretTypeOpaque),
		secret("registry", corev1.SecretTypeDockerConfigJson),
		secret("sa-token", corev1.SecretTypeServiceAccountToken),
		&corev1.Secret{ObjectMeta: metav1.ObjectMeta{Name: "elsewhere", Namespace: "other"}, Type: corev1.SecretTypeOpaque},
	)
	d := NewDiscoverer(k8s.NewClientFromInterfaces(clientset, nil, ""), noEnv())

	res := d.Discover(context.TODO(), "apps")
	require.NoError(t, res.Degraded)
	assert.Empty(t, res.Env)
	assert.Equal(t, []Binding{NewBinding("alpha"), NewBinding("zeta")}, res.Bindings)
}

func TestBinding(t *testing.T) {
	b := NewBinding("db-creds")
	assert.Equal(t, volume.Volume{Name: "secret-db-creds", Source: volume.Secret{SecretName: "db-creds"}}, b.Volume())
	assert.Equal(t, volume.Mount{Name: "secret-db-creds", Path: "/mnt/secrets/db-creds", ReadOnly: true}, b.Mount())
}

func TestDiscoverNotFoundIsEmpty(t *testing.T) {
	clientset := fake.NewClientset()
	clientset.PrependReactor("list", "secrets", func(action clientgotesting.Action) (bool, runtime.Object, error) {
		return true, nil, apierrors.NewNotFound(corev1.Resource("secrets"), "")
	})
	d := NewDiscoverer(k8s.NewClientFromInterfaces(clientset, nil, ""), noEnv())

	res := d.Discover(context.TODO(), "apps")
	assert.Empty(t, res.Env)
	assert.Empty(t, res.Bindings)
	assert.True(t, errors.Is(res.Degraded, ErrSecretDiscoveryDegraded))
}

func TestDiscoverOtherErrorDegrades(t *testing.T) {
	clientset := fake.NewClientset(secret("alpha", corev1.SecretTypeOpaque))
	clientset.PrependReactor("list", "secrets", func(action clientgotesting.Action) (bool, runtime.Object, error) {
		return true, nil, apierrors.NewForbidden(corev1.Resource("secrets"), "", errors.New("rbac"))
	})
	resolver := env.NewResolver(func(key string) (string, bool) {
		if key == "HTTP_PROXY" {
			return "http://proxy:3128", true
		}
		return "", false
	})
	d := NewDiscoverer(k8s.NewClientFromInterfaces(clientset, nil, ""), resolver)

	res := d.Discover(context.TODO(), "apps")
	assert.Empty(t, res.Bindings)
	assert.Equal(t, []env.Var{{Name: "HTTP_PROXY", Value: "http://proxy:3128"}}, res.Env)
	assert.ErrorIs(t, res.Degraded, ErrSecretDiscoveryDegraded)
}
