// Package guard keeps destructive bulk operations away from namespaces
// that belong to the cluster platform rather than to workloads.
package guard

import (
	"errors"
	"fmt"
)

// ErrProtectedNamespace matches every ProtectedNamespaceError via errors.Is
var ErrProtectedNamespace = errors.New("protected namespace")

// ProtectedNamespaceError rejects an operation targeting a protected namespace
type ProtectedNamespaceError struct {
	Namespace string
}

func (e *ProtectedNamespaceError) Error() string {
	return fmt.Sprintf("cannot operate on protected namespace %s", e.Namespace)
}

func (e *ProtectedNamespaceError) Is(target error) bool {
	return target == ErrProtectedNamespace
}

var protected = map[string]struct{}{
	"kube-system":     {},
	"kube-public":     {},
	"kube-node-lease": {},
	"argo-events":     {},
	"argo-rollouts":   {},
	"argo-workflows":  {},
	"argocd":          {},
	"cert-manager":    {},
	"ingress-nginx":   {},
	"monitoring":      {},
	"prometheus":      {},
	"istio-system":    {},
	"linkerd":         {},
}

// IsProtected reports whether namespace is in the protected set
func IsProtected(namespace string) bool {
	_, ok := protected[namespace]
	return ok
}

// Check returns a ProtectedNamespaceError for an explicitly given protected
// namespace. An empty namespace (all namespaces) passes; callers filter
// results with Filter instead.
func Check(namespace string) error {
	if namespace != "" && IsProtected(namespace) {
		return &ProtectedNamespaceError{Namespace: namespace}
	}
	return nil
}

// Filter returns the items whose namespace is not protected
func Filter[T any](items []T, namespaceOf func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !IsProtected(namespaceOf(item)) {
			out = append(out, item)
		}
	}
	return out
}
