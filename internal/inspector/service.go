// Package inspector drives the create, exec and clean workflows on top of
// the cluster client and the manifest assembler.
package inspector

import (
	"context"

	"github.com/ginbear/krayt/internal/guard"
	"github.com/ginbear/krayt/internal/k8s"
	"github.com/ginbear/krayt/internal/manifest"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// ErrNoRunningInspector is returned when no inspector pod is Running
var ErrNoRunningInspector = errors.New("no running inspector pods found")

// Cluster is the subset of the cluster client the workflows need.
// *k8s.Client satisfies it.
type Cluster interface {
	ListPods(ctx context.Context, namespace string) ([]k8s.PodRef, error)
	GetPod(ctx context.Context, namespace, name string) (*corev1.Pod, error)
	ListJobs(ctx context.Context, namespace, selector string) ([]k8s.JobRef, error)
	ListJobPods(ctx context.Context, job k8s.JobRef) ([]corev1.Pod, error)
	DeleteJob(ctx context.Context, job k8s.JobRef) error
	CreateJob(ctx context.Context, obj *unstructured.Unstructured) (*unstructured.Unstructured, error)
}

// Service runs inspector workflows
type Service struct {
	cluster   Cluster
	assembler *manifest.Assembler
}

// NewService creates a service
func NewService(cluster Cluster, assembler *manifest.Assembler) *Service {
	return &Service{cluster: cluster, assembler: assembler}
}

// Targets lists the pods an inspector can be built for
func (s *Service) Targets(ctx context.Context, namespace string) ([]k8s.PodRef, error) {
	pods, err := s.cluster.ListPods(ctx, namespace)
	if err != nil {
		return nil, errors.Wrap(err, "cannot list target pods")
	}
	return pods, nil
}

// Build reads the target pod and assembles its inspector job
func (s *Service) Build(ctx context.Context, target k8s.PodRef) (*manifest.InspectorJob, error) {
	pod, err := s.cluster.GetPod(ctx, target.Namespace, target.Name)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read pod %s", target)
	}
	mounts, volumes := manifest.FromPod(pod)
	return s.assembler.Assemble(ctx, target.Namespace, target.Name, mounts, volumes), nil
}

// Apply creates the job in the cluster
func (s *Service) Apply(ctx context.Context, job *manifest.InspectorJob) (k8s.JobRef, error) {
	created, err := s.cluster.CreateJob(ctx, job.Unstructured())
	if err != nil {
		return k8s.JobRef{}, errors.Wrap(err, "cannot create inspector job")
	}
	ref := k8s.JobRef{Name: created.GetName(), Namespace: created.GetNamespace()}
	logrus.Infof("created inspector job %s", ref)
	return ref, nil
}

// Running returns the Running inspector pods. An explicitly given
// protected namespace is rejected; the all-namespaces listing is not
// filtered since nothing is modified.
func (s *Service) Running(ctx context.Context, namespace string) ([]k8s.PodRef, error) {
	if err := guard.Check(namespace); err != nil {
		return nil, err
	}

	jobs, err := s.cluster.ListJobs(ctx, namespace, manifest.Selector)
	if err != nil {
		return nil, errors.Wrap(err, "cannot list inspector jobs")
	}

	var running []k8s.PodRef
	for _, job := range jobs {
		pods, err := s.cluster.ListJobPods(ctx, job)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot list pods of job %s", job)
		}
		for _, p := range pods {
			if p.Status.Phase == corev1.PodRunning {
				running = append(running, k8s.PodRef{Name: p.Name, Namespace: p.Namespace})
			}
		}
	}
	if len(running) == 0 {
		return nil, ErrNoRunningInspector
	}
	return running, nil
}

// ShellCommand returns the kubectl invocation attaching to an inspector pod
func ShellCommand(pod k8s.PodRef) []string {
	return []string{
		"kubectl", "-n", pod.Namespace, "exec", "-it", pod.Name, "--",
		"/bin/sh", "-c", "cat /etc/motd; exec /bin/ash -l",
	}
}

// Stale lists the inspector jobs a cleanup would delete. Nothing is
// queried when namespace is protected.
func (s *Service) Stale(ctx context.Context, namespace string) ([]k8s.JobRef, error) {
	if err := guard.Check(namespace); err != nil {
		return nil, err
	}

	jobs, err := s.cluster.ListJobs(ctx, namespace, manifest.Selector)
	if err != nil {
		return nil, errors.Wrap(err, "cannot list inspector jobs")
	}
	return guard.Filter(jobs, func(j k8s.JobRef) string { return j.Namespace }), nil
}

// CleanReport is the outcome of a cleanup pass
type CleanReport struct {
	Deleted []k8s.JobRef
	Failed  []error
}

// Err summarizes failed deletions, or returns nil
func (r CleanReport) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return errors.Errorf("failed to delete %d of %d inspector jobs", len(r.Failed), len(r.Failed)+len(r.Deleted))
}

// Delete removes jobs one by one. A failed delete is logged and the pass
// continues.
func (s *Service) Delete(ctx context.Context, jobs []k8s.JobRef) CleanReport {
	var report CleanReport
	for _, job := range guard.Filter(jobs, func(j k8s.JobRef) string { return j.Namespace }) {
		if err := s.cluster.DeleteJob(ctx, job); err != nil {
			logrus.Warnf("Failed to delete job %s: %v", job, err)
			report.Failed = append(report.Failed, err)
			continue
		}
		logrus.Infof("deleted inspector job %s", job)
		report.Deleted = append(report.Deleted, job)
	}
	return report
}
