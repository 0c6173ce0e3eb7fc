package cli

import (
	"fmt"

	"github.com/ginbear/krayt/internal/discovery"
	"github.com/ginbear/krayt/internal/env"
	"github.com/ginbear/krayt/internal/inspector"
	"github.com/ginbear/krayt/internal/k8s"
	"github.com/ginbear/krayt/internal/manifest"
	"github.com/ginbear/krayt/internal/script"
	"github.com/ginbear/krayt/internal/volume"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type createFlags struct {
	namespace string
	pod       string
	image     string
	packages  []string
	apply     bool
}

func newCreateCmd(o *options) *cobra.Command {
	f := &createFlags{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Render an inspector job for a pod",
		Long: "Render an inspector job that mounts the volumes of a running pod.\n" +
			"The manifest is printed to stdout; pipe it to kubectl apply -f - or pass --apply.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, o, f)
		},
	}
	cmd.Flags().StringVarP(&f.namespace, "namespace", "n", "", "namespace of the target pod (default: all namespaces)")
	cmd.Flags().StringVar(&f.pod, "pod", "", "target pod name; skips the picker")
	cmd.Flags().StringVar(&f.image, "image", "", "inspector image (default "+manifest.DefaultImage+")")
	cmd.Flags().StringSliceVarP(&f.packages, "additional-packages", "p", nil, "extra packages as kind:value, e.g. uv:copier")
	cmd.Flags().BoolVar(&f.apply, "apply", false, "create the job in the cluster")
	return cmd
}

func runCreate(cmd *cobra.Command, o *options, f *createFlags) error {
	settings, err := o.loadSettings()
	if err != nil {
		return err
	}
	pkgs, err := script.ParsePackages(append(append([]string{}, settings.Config.AdditionalPackages...), f.packages...))
	if err != nil {
		return err
	}
	image := f.image
	if image == "" {
		image = settings.Config.Image
	}

	client, err := o.newClient()
	if err != nil {
		return errors.Wrap(err, "failed to initialize Kubernetes client")
	}
	aliases := settings.Config.AliasTable()
	logrus.Debugf("context %s, volume aliases %v", client.GetCurrentContext(), aliases.Names())
	assembler := manifest.NewAssembler(
		discovery.NewDiscoverer(client, env.NewResolver(nil)),
		volume.NewClassifier(aliases),
		script.NewComposer(pkgs),
		manifest.WithImage(image),
		manifest.WithInitScripts(settings.InitScripts),
		manifest.WithClock(o.now),
	)
	svc := inspector.NewService(client, assembler)

	target, err := selectTarget(cmd, o, svc, f, client.GetCurrentContext())
	if err != nil {
		return err
	}

	job, err := svc.Build(cmd.Context(), target)
	if err != nil {
		return err
	}
	out, err := job.YAML()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))

	if f.apply {
		ref, err := svc.Apply(cmd.Context(), job)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "job.batch/%s created in namespace %s\n", ref.Name, ref.Namespace)
	}
	return nil
}

// selectTarget resolves the pod to inspect from flags or the picker
func selectTarget(cmd *cobra.Command, o *options, svc *inspector.Service, f *createFlags, context string) (k8s.PodRef, error) {
	if f.pod != "" && f.namespace != "" {
		return k8s.PodRef{Name: f.pod, Namespace: f.namespace}, nil
	}

	pods, err := svc.Targets(cmd.Context(), f.namespace)
	if err != nil {
		return k8s.PodRef{}, err
	}
	if f.pod != "" {
		var named []k8s.PodRef
		for _, p := range pods {
			if p.Name == f.pod {
				named = append(named, p)
			}
		}
		pods = named
	}

	switch len(pods) {
	case 0:
		if f.pod != "" {
			return k8s.PodRef{}, errors.Errorf("pod %s not found", f.pod)
		}
		return k8s.PodRef{}, errors.New("no pods found")
	case 1:
		if f.pod != "" {
			return pods[0], nil
		}
	}

	items := make([]string, len(pods))
	for i, p := range pods {
		items[i] = p.String()
	}
	idx, err := o.pick(fmt.Sprintf("Select a pod to inspect (context: %s)", context), items)
	if err != nil {
		return k8s.PodRef{}, err
	}
	return pods[idx], nil
}
