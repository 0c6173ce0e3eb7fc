package k8s

import "fmt"

// PodRef identifies a pod
type PodRef struct {
	Name      string
	Namespace string
}

// String renders the ref as namespace/name
func (p PodRef) String() string {
	return p.Namespace + "/" + p.Name
}

// JobRef identifies a Job
type JobRef struct {
	Name      string
	Namespace string
}

// String renders the ref as namespace/name
func (j JobRef) String() string {
	return j.Namespace + "/" + j.Name
}

// ClusterQueryError is returned when a read, list or write against the
// API server fails. The underlying API error stays reachable through
// errors.Is / errors.As and apierrors helpers.
type ClusterQueryError struct {
	Op        string
	Namespace string
	Err       error
}

func (e *ClusterQueryError) Error() string {
	if e.Namespace == "" {
		return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s in namespace %s: %v", e.Op, e.Namespace, e.Err)
}

func (e *ClusterQueryError) Unwrap() error {
	return e.Err
}

func queryError(op, namespace string, err error) error {
	return &ClusterQueryError{Op: op, Namespace: namespace, Err: err}
}
