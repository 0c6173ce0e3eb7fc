package cli

import (
	"fmt"

	"github.com/ginbear/krayt/internal/guard"
	"github.com/ginbear/krayt/internal/inspector"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newExecCmd(o *options) *cobra.Command {
	var namespace string
	cmd := &cobra.Command{
		Use:   "exec",
		Short: "Open a shell in a running inspector pod",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := guard.Check(namespace); err != nil {
				return err
			}
			client, err := o.newClient()
			if err != nil {
				return errors.Wrap(err, "failed to initialize Kubernetes client")
			}
			svc := inspector.NewService(client, nil)

			pods, err := svc.Running(cmd.Context(), namespace)
			if err != nil {
				return err
			}

			pod := pods[0]
			if len(pods) > 1 {
				items := make([]string, len(pods))
				for i, p := range pods {
					items[i] = p.String()
				}
				idx, err := o.pick(fmt.Sprintf("Select an inspector (context: %s)", client.GetCurrentContext()), items)
				if err != nil {
					return err
				}
				pod = pods[idx]
			}
			return o.exec(inspector.ShellCommand(pod))
		},
	}
	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "namespace to search (default: all namespaces)")
	return cmd
}
