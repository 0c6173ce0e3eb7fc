package manifest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ginbear/krayt/internal/discovery"
	"github.com/ginbear/krayt/internal/env"
	"github.com/ginbear/krayt/internal/script"
	"github.com/ginbear/krayt/internal/volume"
	"github.com/sirupsen/logrus"
	corev1 "k8s.io/api/core/v1"
)

const (
	// JobSuffix separates the target pod name from the timestamp
	JobSuffix = "krayt"
	// LabelKey and LabelValue mark inspector workloads
	LabelKey   = "app"
	LabelValue = "krayt"
	// Selector finds inspector jobs
	Selector = LabelKey + "=" + LabelValue
	// ClaimsAnnotation lists the claims an inspector mounts
	ClaimsAnnotation = "pvcs"
	ContainerName    = "krayt"
	DefaultImage     = "alpine:latest"
)

// ErrDanglingMount marks a mount whose volume did not survive filtering.
// Such mounts are dropped silently.
var ErrDanglingMount = errors.New("mount references a missing volume")

// Assembler turns a target pod's volumes and mounts into an InspectorJob
type Assembler struct {
	discoverer  *discovery.Discoverer
	classifier  *volume.Classifier
	composer    *script.Composer
	initScripts []script.InitScript
	image       string
	now         func() time.Time
}

// Option configures an Assembler
type Option func(*Assembler)

// WithImage overrides the inspector image
func WithImage(image string) Option {
	return func(a *Assembler) {
		if image != "" {
			a.image = image
		}
	}
}

// WithClock sets the time source used for job names
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		a.now = now
	}
}

// WithInitScripts adds scripts run at container start
func WithInitScripts(scripts []script.InitScript) Option {
	return func(a *Assembler) {
		a.initScripts = scripts
	}
}

// NewAssembler creates an assembler
func NewAssembler(d *discovery.Discoverer, c *volume.Classifier, comp *script.Composer, opts ...Option) *Assembler {
	a := &Assembler{
		discoverer: d,
		classifier: c,
		composer:   comp,
		image:      DefaultImage,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FromPod collects the volume mounts of every regular container and the
// pod's volumes
func FromPod(pod *corev1.Pod) ([]corev1.VolumeMount, []corev1.Volume) {
	var mounts []corev1.VolumeMount
	for _, c := range pod.Spec.Containers {
		mounts = append(mounts, c.VolumeMounts...)
	}
	return mounts, pod.Spec.Volumes
}

// JobName returns {pod}-krayt-{unix seconds}. Two calls within the same
// second for the same pod collide.
func JobName(podName string, t time.Time) string {
	return fmt.Sprintf("%s-%s-%d", podName, JobSuffix, t.Unix())
}

// Assemble builds the inspector job for podName in namespace. Secret
// discovery problems never fail assembly.
func (a *Assembler) Assemble(ctx context.Context, namespace, podName string, mounts []corev1.VolumeMount, volumes []corev1.Volume) *InspectorJob {
	found := a.discoverer.Discover(ctx, namespace)
	if found.Degraded != nil {
		logrus.Debugf("continuing without secrets: %v", found.Degraded)
	}

	vols := make([]volume.Volume, 0, len(volumes)+len(found.Bindings))
	taken := make(map[string]bool, len(volumes))
	for _, v := range volumes {
		vols = append(vols, volume.FromCore(v))
		taken[v.Name] = true
	}
	ms := make([]volume.Mount, 0, len(mounts)+len(found.Bindings))
	for _, m := range mounts {
		ms = append(ms, volume.MountFromCore(m))
	}
	for _, b := range found.Bindings {
		// the pod's own volume keeps the name; its mount must not move
		if taken[b.VolumeName] {
			logrus.Debugf("skipping secret %s: volume name %s already used by the pod", b.SecretName, b.VolumeName)
			continue
		}
		vols = append(vols, b.Volume())
		ms = append(ms, b.Mount())
	}

	kept := a.classifier.Filter(vols)
	keptMounts := filterMounts(ms, kept)

	mountSummary := make([]string, 0, len(keptMounts))
	for _, m := range keptMounts {
		mountSummary = append(mountSummary, m.Name+":"+m.Path)
	}
	var claimSummary []string
	for _, v := range kept {
		if claim, ok := v.ClaimName(); ok {
			claimSummary = append(claimSummary, v.Name+":"+claim)
		}
	}

	claims := "none"
	if len(claimSummary) > 0 {
		claims = strings.Join(claimSummary, ",")
	}

	bootstrap := a.composer.Script(script.Input{
		Mounts:      mountSummary,
		Claims:      claimSummary,
		Env:         env.Names(found.Env),
		InitScripts: a.initScripts,
	})

	return &InspectorJob{
		Name:      JobName(podName, a.now()),
		Namespace: namespace,
		Labels:    map[string]string{LabelKey: LabelValue},
		Annotations: map[string]string{
			ClaimsAnnotation: claims,
		},
		Container: Container{
			Name:    ContainerName,
			Image:   a.image,
			Command: []string{"sh", "-c", bootstrap},
			Env:     found.Env,
			Mounts:  keptMounts,
		},
		Volumes:       kept,
		RestartPolicy: string(corev1.RestartPolicyNever),
	}
}

// filterMounts drops token mounts, mounts without a surviving volume,
// repeated mounts and mounts at an already used path
func filterMounts(mounts []volume.Mount, volumes []volume.Volume) []volume.Mount {
	names := make(map[string]bool, len(volumes))
	for _, v := range volumes {
		names[v.Name] = true
	}

	out := make([]volume.Mount, 0, len(mounts))
	paths := make(map[string]bool, len(mounts))
	for _, m := range mounts {
		kept, ok := volume.FilterMount(m)
		if !ok {
			continue
		}
		if !names[kept.Name] {
			logrus.Debugf("skipping mount %s at %s: %v", kept.Name, kept.Path, ErrDanglingMount)
			continue
		}
		if paths[kept.Path] {
			continue
		}
		paths[kept.Path] = true
		out = append(out, kept)
	}
	return out
}
