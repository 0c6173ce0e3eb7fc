package volume

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// ServiceAccountVolumePrefix is the name prefix of the token volume the
// control plane injects into every pod
const ServiceAccountVolumePrefix = "kube-api-access-"

// ServiceAccountMountPrefix is where that token volume is mounted
const ServiceAccountMountPrefix = "/var/run/secrets/kubernetes.io/"

// Action is the outcome of classifying a volume
type Action int

const (
	Omit Action = iota
	Rewrite
	Keep
)

func (a Action) String() string {
	switch a {
	case Rewrite:
		return "rewrite"
	case Keep:
		return "keep"
	default:
		return "omit"
	}
}

// Decision is the result of Classify. Volume is only meaningful when
// Action is not Omit.
type Decision struct {
	Action Action
	Volume Volume
	Reason error
}

// Classifier decides which pod volumes are copied into an inspector job
type Classifier struct {
	aliases *AliasTable
}

// NewClassifier creates a classifier backed by the given alias table
func NewClassifier(aliases *AliasTable) *Classifier {
	return &Classifier{aliases: aliases}
}

// Classify returns Omit, Rewrite or Keep for one volume
func (c *Classifier) Classify(v Volume) Decision {
	if strings.HasPrefix(v.Name, ServiceAccountVolumePrefix) {
		return Decision{Action: Omit}
	}

	action := Keep
	if rewrite, ok := c.aliases.Lookup(v.Name); ok {
		v = Volume{Name: v.Name, Source: rewrite(v)}
		action = Rewrite
	}

	if v.Source == nil {
		return Decision{Action: Omit, Reason: ErrInvalidVolumeSource}
	}

	return Decision{Action: action, Volume: v}
}

// Filter classifies every volume and returns the survivors in input
// order. A name that was already kept shadows later volumes of that name.
func (c *Classifier) Filter(volumes []Volume) []Volume {
	out := make([]Volume, 0, len(volumes))
	seen := make(map[string]bool, len(volumes))

	for _, v := range volumes {
		d := c.Classify(v)
		if d.Action == Omit {
			if d.Reason != nil {
				logrus.Debugf("skipping volume %s: %v", v.Name, d.Reason)
			}
			continue
		}
		if seen[d.Volume.Name] {
			logrus.Debugf("skipping duplicate volume %s", d.Volume.Name)
			continue
		}
		seen[d.Volume.Name] = true
		out = append(out, d.Volume)
	}

	return out
}

// FilterMount drops control-plane token mounts and keeps everything else
func FilterMount(m Mount) (Mount, bool) {
	if strings.HasPrefix(m.Path, ServiceAccountMountPrefix) {
		return Mount{}, false
	}
	return Mount{Name: m.Name, Path: m.Path, ReadOnly: m.ReadOnly}, true
}
