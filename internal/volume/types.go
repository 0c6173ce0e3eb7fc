package volume

import (
	"errors"

	corev1 "k8s.io/api/core/v1"
)

// ErrInvalidVolumeSource is reported for volumes that carry none of the
// recognized source kinds. Such volumes are excluded, never fatal.
var ErrInvalidVolumeSource = errors.New("volume has no recognized source")

// SourceKind names the populated variant of a Source
type SourceKind string

const (
	KindPersistentClaim SourceKind = "persistentVolumeClaim"
	KindConfigMap       SourceKind = "configMap"
	KindSecret          SourceKind = "secret"
	KindHostPath        SourceKind = "hostPath"
	KindEmptyDir        SourceKind = "emptyDir"
)

// Source is the backing mechanism of a volume. Exactly one concrete
// variant below implements it.
type Source interface {
	Kind() SourceKind
}

// PersistentClaim mounts a PersistentVolumeClaim
type PersistentClaim struct {
	ClaimName string
}

// ConfigMap mounts a ConfigMap
type ConfigMap struct {
	Name string
}

// Secret mounts a Secret
type Secret struct {
	SecretName string
}

// HostPath mounts a path (or device node) from the node
type HostPath struct {
	Path string
	Type string
}

// EmptyDir is node-local scratch space, optionally memory backed
type EmptyDir struct {
	Medium    string
	SizeLimit string
}

func (PersistentClaim) Kind() SourceKind { return KindPersistentClaim }
func (ConfigMap) Kind() SourceKind       { return KindConfigMap }
func (Secret) Kind() SourceKind          { return KindSecret }
func (HostPath) Kind() SourceKind        { return KindHostPath }
func (EmptyDir) Kind() SourceKind        { return KindEmptyDir }

// Volume is a named source. Name is unique within an assembled job.
type Volume struct {
	Name   string
	Source Source
}

// ClaimName returns the claim behind a PersistentClaim volume
func (v Volume) ClaimName() (string, bool) {
	pc, ok := v.Source.(PersistentClaim)
	if !ok {
		return "", false
	}
	return pc.ClaimName, true
}

// Mount places a volume at an absolute path inside the container
type Mount struct {
	Name     string
	Path     string
	ReadOnly bool
}

// FromCore converts a pod volume into a Volume. Source is nil when the
// pod volume uses a kind this tool does not copy (projected, csi, ...).
func FromCore(v corev1.Volume) Volume {
	out := Volume{Name: v.Name}

	// Order matches the precedence used when more than one field is set
	switch {
	case v.PersistentVolumeClaim != nil:
		out.Source = PersistentClaim{ClaimName: v.PersistentVolumeClaim.ClaimName}
	case v.ConfigMap != nil:
		out.Source = ConfigMap{Name: v.ConfigMap.Name}
	case v.Secret != nil:
		out.Source = Secret{SecretName: v.Secret.SecretName}
	case v.HostPath != nil:
		hp := HostPath{Path: v.HostPath.Path}
		if v.HostPath.Type != nil {
			hp.Type = string(*v.HostPath.Type)
		}
		out.Source = hp
	case v.EmptyDir != nil:
		ed := EmptyDir{Medium: string(v.EmptyDir.Medium)}
		if v.EmptyDir.SizeLimit != nil && !v.EmptyDir.SizeLimit.IsZero() {
			ed.SizeLimit = v.EmptyDir.SizeLimit.String()
		}
		out.Source = ed
	}

	return out
}

// MountFromCore converts a container volume mount
func MountFromCore(vm corev1.VolumeMount) Mount {
	return Mount{
		Name:     vm.Name,
		Path:     vm.MountPath,
		ReadOnly: vm.ReadOnly,
	}
}
