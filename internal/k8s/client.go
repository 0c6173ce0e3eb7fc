package k8s

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

// JobNameLabel is set by the job controller on every pod it creates
const JobNameLabel = "job-name"

// Client wraps Kubernetes client operations
type Client struct {
	clientset     kubernetes.Interface
	dynamicClient dynamic.Interface
	context       string
}

// NewClient creates a new Kubernetes client using kubeconfig
func NewClient() (*Client, error) {
	kubeconfig := os.Getenv("KUBECONFIG")
	if kubeconfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		kubeconfig = filepath.Join(home, ".kube", "config")
	}

	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	// Get current context name
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	loadingRules.ExplicitPath = kubeconfig
	configOverrides := &clientcmd.ConfigOverrides{}
	kubeConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, configOverrides)
	rawConfig, err := kubeConfig.RawConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get raw config: %w", err)
	}

	return NewClientFromInterfaces(clientset, dynamicClient, rawConfig.CurrentContext), nil
}

// NewClientFromInterfaces wraps already constructed clients
func NewClientFromInterfaces(clientset kubernetes.Interface, dynamicClient dynamic.Interface, contextName string) *Client {
	return &Client{
		clientset:     clientset,
		dynamicClient: dynamicClient,
		context:       contextName,
	}
}

// GetCurrentContext returns the current Kubernetes context name
func (c *Client) GetCurrentContext() string {
	return c.context
}

// ListPods returns the pods in namespace, or in every namespace when
// namespace is empty
func (c *Client) ListPods(ctx context.Context, namespace string) ([]PodRef, error) {
	podList, err := c.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, queryError("list pods", namespace, err)
	}

	pods := make([]PodRef, 0, len(podList.Items))
	for _, p := range podList.Items {
		pods = append(pods, PodRef{Name: p.Name, Namespace: p.Namespace})
	}
	return pods, nil
}

// GetPod returns a Pod by name
func (c *Client) GetPod(ctx context.Context, namespace, name string) (*corev1.Pod, error) {
	pod, err := c.clientset.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, queryError("get pod "+name, namespace, err)
	}
	return pod, nil
}

// ListSecrets returns every Secret in namespace
func (c *Client) ListSecrets(ctx context.Context, namespace string) ([]corev1.Secret, error) {
	secrets, err := c.clientset.CoreV1().Secrets(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, queryError("list secrets", namespace, err)
	}
	return secrets.Items, nil
}

// ListJobs returns the Jobs matching selector in namespace, or in every
// namespace when namespace is empty
func (c *Client) ListJobs(ctx context.Context, namespace, selector string) ([]JobRef, error) {
	jobs, err := c.clientset.BatchV1().Jobs(namespace).List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return nil, queryError("list jobs", namespace, err)
	}

	refs := make([]JobRef, 0, len(jobs.Items))
	for _, j := range jobs.Items {
		refs = append(refs, JobRef{Name: j.Name, Namespace: j.Namespace})
	}
	return refs, nil
}

// ListJobPods returns the pods created for a Job
func (c *Client) ListJobPods(ctx context.Context, job JobRef) ([]corev1.Pod, error) {
	pods, err := c.clientset.CoreV1().Pods(job.Namespace).List(ctx, metav1.ListOptions{
		LabelSelector: JobNameLabel + "=" + job.Name,
	})
	if err != nil {
		return nil, queryError("list pods of job "+job.Name, job.Namespace, err)
	}
	return pods.Items, nil
}

// DeleteJob deletes a Job and lets the garbage collector remove its pods
func (c *Client) DeleteJob(ctx context.Context, job JobRef) error {
	propagation := metav1.DeletePropagationBackground
	err := c.clientset.BatchV1().Jobs(job.Namespace).Delete(ctx, job.Name, metav1.DeleteOptions{
		PropagationPolicy: &propagation,
	})
	if err != nil {
		return queryError("delete job "+job.Name, job.Namespace, err)
	}
	return nil
}

// JobGVR is the GroupVersionResource for batch Jobs
var JobGVR = schema.GroupVersionResource{
	Group:    "batch",
	Version:  "v1",
	Resource: "jobs",
}

// CreateJob creates a Job from an unstructured manifest
func (c *Client) CreateJob(ctx context.Context, obj *unstructured.Unstructured) (*unstructured.Unstructured, error) {
	created, err := c.dynamicClient.Resource(JobGVR).Namespace(obj.GetNamespace()).Create(ctx, obj, metav1.CreateOptions{})
	if err != nil {
		return nil, queryError("create job "+obj.GetName(), obj.GetNamespace(), err)
	}
	return created, nil
}
