package manifest

import (
	"github.com/ginbear/krayt/internal/env"
	"github.com/ginbear/krayt/internal/volume"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"
)

// Container is the single container of an inspector job
type Container struct {
	Name    string
	Image   string
	Command []string
	Env     []env.Var
	Mounts  []volume.Mount
}

// InspectorJob is an assembled debug Job. It is built once and not
// mutated afterwards.
type InspectorJob struct {
	Name          string
	Namespace     string
	Labels        map[string]string
	Annotations   map[string]string
	Container     Container
	Volumes       []volume.Volume
	RestartPolicy string
}

// Object renders the job as a pruned batch/v1 Job document
func (j *InspectorJob) Object() map[string]interface{} {
	containers := []interface{}{j.containerObject()}

	volumes := make([]interface{}, 0, len(j.Volumes))
	for _, v := range j.Volumes {
		if obj, ok := volumeObject(v); ok {
			volumes = append(volumes, obj)
		}
	}

	return PruneObject(map[string]interface{}{
		"apiVersion": "batch/v1",
		"kind":       "Job",
		"metadata": map[string]interface{}{
			"name":        j.Name,
			"namespace":   j.Namespace,
			"labels":      stringMap(j.Labels),
			"annotations": stringMap(j.Annotations),
		},
		"spec": map[string]interface{}{
			"template": map[string]interface{}{
				"metadata": map[string]interface{}{
					"labels": stringMap(j.Labels),
				},
				"spec": map[string]interface{}{
					"containers":    containers,
					"volumes":       volumes,
					"restartPolicy": j.RestartPolicy,
				},
			},
		},
	})
}

// YAML renders the pruned document as a manifest
func (j *InspectorJob) YAML() ([]byte, error) {
	return yaml.Marshal(j.Object())
}

// Unstructured wraps the pruned document for the dynamic client
func (j *InspectorJob) Unstructured() *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: j.Object()}
}

func (j *InspectorJob) containerObject() map[string]interface{} {
	c := j.Container

	command := make([]interface{}, 0, len(c.Command))
	for _, arg := range c.Command {
		command = append(command, arg)
	}

	envs := make([]interface{}, 0, len(c.Env))
	for _, e := range c.Env {
		envs = append(envs, map[string]interface{}{"name": e.Name, "value": e.Value})
	}

	mounts := make([]interface{}, 0, len(c.Mounts))
	for _, m := range c.Mounts {
		mounts = append(mounts, mountObject(m))
	}

	return map[string]interface{}{
		"name":         c.Name,
		"image":        c.Image,
		"command":      command,
		"env":          envs,
		"volumeMounts": mounts,
	}
}

func mountObject(m volume.Mount) map[string]interface{} {
	obj := map[string]interface{}{
		"name":      m.Name,
		"mountPath": m.Path,
	}
	if m.ReadOnly {
		obj["readOnly"] = true
	}
	return obj
}

func volumeObject(v volume.Volume) (map[string]interface{}, bool) {
	var key string
	var src map[string]interface{}

	switch s := v.Source.(type) {
	case volume.PersistentClaim:
		key, src = "persistentVolumeClaim", map[string]interface{}{"claimName": s.ClaimName}
	case volume.ConfigMap:
		key, src = "configMap", map[string]interface{}{"name": s.Name}
	case volume.Secret:
		key, src = "secret", map[string]interface{}{"secretName": s.SecretName}
	case volume.HostPath:
		key, src = "hostPath", map[string]interface{}{"path": s.Path, "type": s.Type}
	case volume.EmptyDir:
		key, src = "emptyDir", map[string]interface{}{"medium": s.Medium, "sizeLimit": s.SizeLimit}
	default:
		return nil, false
	}

	return map[string]interface{}{
		"name": v.Name,
		key:    src,
	}, true
}

func stringMap(m map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
