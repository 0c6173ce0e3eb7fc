package volume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(DefaultAliasTable(nil, nil))

	tests := []struct {
		name   string
		in     Volume
		action Action
		want   Source
	}{
		{
			name:   "service account token volume",
			in:     Volume{Name: "kube-api-access-xyz", Source: Secret{SecretName: "token"}},
			action: Omit,
		},
		{
			name:   "claim passes through",
			in:     Volume{Name: "data", Source: PersistentClaim{ClaimName: "data"}},
			action: Keep,
			want:   PersistentClaim{ClaimName: "data"},
		},
		{
			name:   "coral device rewritten regardless of source",
			in:     Volume{Name: "coral-device", Source: ConfigMap{Name: "whatever"}},
			action: Rewrite,
			want:   HostPath{Path: "/dev/apex_0", Type: "CharDevice"},
		},
		{
			name:   "qsv device rewritten",
			in:     Volume{Name: "qsv-device"},
			action: Rewrite,
			want:   HostPath{Path: "/dev/dri", Type: "Directory"},
		},
		{
			name:   "cache volume becomes memory scratch",
			in:     Volume{Name: "cache-volume", Source: PersistentClaim{ClaimName: "cache"}},
			action: Rewrite,
			want:   EmptyDir{Medium: "Memory"},
		},
		{
			name:   "no source",
			in:     Volume{Name: "projected"},
			action: Omit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := c.Classify(tt.in)
			assert.Equal(t, tt.action, d.Action)
			if tt.action != Omit {
				assert.Equal(t, tt.in.Name, d.Volume.Name)
				assert.Equal(t, tt.want, d.Volume.Source)
			}
		})
	}
}

func TestClassifyNoSourceReason(t *testing.T) {
	d := NewClassifier(nil).Classify(Volume{Name: "odd"})
	assert.Equal(t, Omit, d.Action)
	assert.ErrorIs(t, d.Reason, ErrInvalidVolumeSource)
}

func TestClassifyCustomAlias(t *testing.T) {
	table := DefaultAliasTable(map[string]DeviceAlias{
		"gpu": {Path: "/dev/nvidia0", Type: "CharDevice"},
	}, []string{"scratch"})
	c := NewClassifier(table)

	d := c.Classify(Volume{Name: "gpu", Source: EmptyDir{}})
	assert.Equal(t, Rewrite, d.Action)
	assert.Equal(t, HostPath{Path: "/dev/nvidia0", Type: "CharDevice"}, d.Volume.Source)

	d = c.Classify(Volume{Name: "scratch"})
	assert.Equal(t, Rewrite, d.Action)
	assert.Equal(t, EmptyDir{Medium: "Memory"}, d.Volume.Source)

	// built-ins survive extension
	assert.Contains(t, table.Names(), "coral-device")
	assert.Contains(t, table.Names(), "cache-volume")
}

func TestFilterDropsOmittedAndDuplicates(t *testing.T) {
	c := NewClassifier(DefaultAliasTable(nil, nil))

	out := c.Filter([]Volume{
		{Name: "kube-api-access-abc", Source: Secret{SecretName: "x"}},
		{Name: "data", Source: PersistentClaim{ClaimName: "data-0"}},
		{Name: "empty"},
		{Name: "data", Source: ConfigMap{Name: "other"}},
		{Name: "conf", Source: ConfigMap{Name: "app-config"}},
	})

	require.Len(t, out, 2)
	assert.Equal(t, "data", out[0].Name)
	assert.Equal(t, PersistentClaim{ClaimName: "data-0"}, out[0].Source)
	assert.Equal(t, "conf", out[1].Name)
}

func TestFilterMount(t *testing.T) {
	_, ok := FilterMount(Mount{Name: "kube-api-access-abc", Path: "/var/run/secrets/kubernetes.io/serviceaccount", ReadOnly: true})
	assert.False(t, ok)

	m, ok := FilterMount(Mount{Name: "data", Path: "/data"})
	require.True(t, ok)
	assert.Equal(t, Mount{Name: "data", Path: "/data"}, m)

	m, ok = FilterMount(Mount{Name: "conf", Path: "/etc/app", ReadOnly: true})
	require.True(t, ok)
	assert.True(t, m.ReadOnly)
}

func TestFromCore(t *testing.T) {
	charDev := corev1.HostPathCharDev
	size := resource.MustParse("1Gi")

	tests := []struct {
		name string
		in   corev1.Volume
		want Source
	}{
		{
			name: "claim",
			in: corev1.Volume{Name: "a", VolumeSource: corev1.VolumeSource{
				PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{ClaimName: "c"},
			}},
			want: PersistentClaim{ClaimName: "c"},
		},
		{
			name: "configmap",
			in: corev1.Volume{Name: "a", VolumeSource: corev1.VolumeSource{
				ConfigMap: &corev1.ConfigMapVolumeSource{LocalObjectReference: corev1.LocalObjectReference{Name: "cm"}},
			}},
			want: ConfigMap{Name: "cm"},
		},
		{
			name: "secret",
			in: corev1.Volume{Name: "a", VolumeSource: corev1.VolumeSource{
				Secret: &corev1.SecretVolumeSource{SecretName: "s"},
			}},
			want: Secret{SecretName: "s"},
		},
		{
			name: "host path with type",
			in: corev1.Volume{Name: "a", VolumeSource: corev1.VolumeSource{
				HostPath: &corev1.HostPathVolumeSource{Path: "/dev/x", Type: &charDev},
			}},
			want: HostPath{Path: "/dev/x", Type: "CharDevice"},
		},
		{
			name: "empty dir with limit",
			in: corev1.Volume{Name: "a", VolumeSource: corev1.VolumeSource{
				EmptyDir: &corev1.EmptyDirVolumeSource{Medium: corev1.StorageMediumMemory, SizeLimit: &size},
			}},
			want: EmptyDir{Medium: "Memory", SizeLimit: "1Gi"},
		},
		{
			name: "projected is not copied",
			in: corev1.Volume{Name: "a", VolumeSource: corev1.VolumeSource{
				Projected: &corev1.ProjectedVolumeSource{},
			}},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromCore(tt.in).Source)
		})
	}
}

func TestClaimName(t *testing.T) {
	name, ok := Volume{Name: "d", Source: PersistentClaim{ClaimName: "claim"}}.ClaimName()
	assert.True(t, ok)
	assert.Equal(t, "claim", name)

	_, ok = Volume{Name: "d", Source: EmptyDir{}}.ClaimName()
	assert.False(t, ok)
}
