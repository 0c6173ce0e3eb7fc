package discovery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ginbear/krayt/internal/env"
	"github.com/ginbear/krayt/internal/volume"
	"github.com/sirupsen/logrus"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// ErrSecretDiscoveryDegraded marks a secret listing that failed and was
// replaced by an empty result
var ErrSecretDiscoveryDegraded = errors.New("secret discovery degraded")

// DefaultTokenPrefix is the name prefix of legacy service account token secrets
const DefaultTokenPrefix = "default-token-"

// SecretMountRoot is where discovered secrets are mounted in the inspector
const SecretMountRoot = "/mnt/secrets/"

// SecretLister lists the secrets of a namespace
type SecretLister interface {
	ListSecrets(ctx context.Context, namespace string) ([]corev1.Secret, error)
}

// Binding ties a discovered secret to the volume and mount that expose it
type Binding struct {
	SecretName string
	VolumeName string
	MountPath  string
	ReadOnly   bool
}

// NewBinding derives the binding for a secret name
func NewBinding(secretName string) Binding {
	return Binding{
		SecretName: secretName,
		VolumeName: "secret-" + secretName,
		MountPath:  SecretMountRoot + secretName,
		ReadOnly:   true,
	}
}

// Volume returns the secret-backed volume for the binding
func (b Binding) Volume() volume.Volume {
	return volume.Volume{Name: b.VolumeName, Source: volume.Secret{SecretName: b.SecretName}}
}

// Mount returns the read-only mount for the binding
func (b Binding) Mount() volume.Mount {
	return volume.Mount{Name: b.VolumeName, Path: b.MountPath, ReadOnly: b.ReadOnly}
}

// Result holds what discovery contributes to an inspector job. Degraded is
// set when the secret listing failed; Bindings is then empty.
type Result struct {
	Env      []env.Var
	Bindings []Binding
	Degraded error
}

// Discoverer finds credentials and environment the inspector needs
type Discoverer struct {
	secrets  SecretLister
	resolver *env.Resolver
}

// NewDiscoverer creates a discoverer. A nil resolver reads the process
// environment.
func NewDiscoverer(secrets SecretLister, resolver *env.Resolver) *Discoverer {
	if resolver == nil {
		resolver = env.NewResolver(nil)
	}
	return &Discoverer{secrets: secrets, resolver: resolver}
}

// Discover returns the proxy environment and a binding for every opaque,
// non-token secret in namespace. It never fails: listing errors degrade
// to an empty binding list.
func (d *Discoverer) Discover(ctx context.Context, namespace string) Result {
	result := Result{Env: d.resolver.Proxy()}

	secrets, err := d.secrets.ListSecrets(ctx, namespace)
	if err != nil {
		result.Degraded = fmt.Errorf("%w: %v", ErrSecretDiscoveryDegraded, err)
		if apierrors.IsNotFound(err) {
			logrus.Debugf("no secrets found in namespace %s", namespace)
		} else {
			logrus.Warnf("Failed to list secrets in namespace %s: %v", namespace, err)
		}
		return result
	}

	names := make([]string, 0, len(secrets))
	for _, s := range secrets {
		if !eligible(s) {
			continue
		}
		names = append(names, s.Name)
	}
	sort.Strings(names)

	for _, name := range names {
		result.Bindings = append(result.Bindings, NewBinding(name))
	}
	return result
}

func eligible(s corev1.Secret) bool {
	return s.Type == corev1.SecretTypeOpaque && !strings.HasPrefix(s.Name, DefaultTokenPrefix)
}
