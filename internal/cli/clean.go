package cli

import (
	"fmt"

	"github.com/ginbear/krayt/internal/guard"
	"github.com/ginbear/krayt/internal/inspector"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newCleanCmd(o *options) *cobra.Command {
	var (
		namespace string
		yes       bool
	)
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete inspector jobs",
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

			jobs, err := svc.Stale(cmd.Context(), namespace)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(jobs) == 0 {
				fmt.Fprintln(out, "No inspector jobs found")
				return nil
			}

			if !yes {
				if !o.isTerminal() {
					return errors.New("refusing to delete without confirmation; pass --yes")
				}
				lines := make([]string, len(jobs))
				for i, j := range jobs {
					lines[i] = j.String()
				}
				ok, err := o.confirm(fmt.Sprintf("Delete %d inspector job(s)?", len(jobs)), lines)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Aborted")
					return nil
				}
			}

			report := svc.Delete(cmd.Context(), jobs)
			for _, j := range report.Deleted {
				fmt.Fprintf(out, "deleted job %s\n", j)
			}
			return report.Err()
		},
	}
	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "namespace to clean (default: all non-protected namespaces)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
