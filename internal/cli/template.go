package cli

import (
	"fmt"
	"strings"

	"github.com/ginbear/krayt/internal/script"
	"github.com/spf13/cobra"
)

type templateFlags struct {
	volumes  []string
	claims   []string
	packages []string
}

func newTemplateCmd(o *options) *cobra.Command {
	f := &templateFlags{}
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"templates"},
		Short:   "Render the inspector shell snippets",
	}
	cmd.PersistentFlags().StringSliceVar(&f.volumes, "volume", nil, "mount summary entry as name:path")
	cmd.PersistentFlags().StringSliceVar(&f.claims, "pvc", nil, "claim summary entry as volume:claim")
	cmd.PersistentFlags().StringSliceVarP(&f.packages, "additional-packages", "p", nil, "extra packages as kind:value")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "base",
			Short: "Render the full container bootstrap script",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				pkgs, err := script.ParsePackages(f.packages)
				if err != nil {
					return err
				}
				settings, err := o.loadSettings()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), script.NewComposer(pkgs).Script(script.Input{
					Mounts:      f.volumes,
					Claims:      f.claims,
					InitScripts: settings.InitScripts,
				}))
				return nil
			},
		},
		&cobra.Command{
			Use:   "motd",
			Short: "Render the message-of-the-day statements",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(script.MOTDStatements(script.Input{
					Mounts: f.volumes,
					Claims: f.claims,
				}), "\n"))
				return nil
			},
		},
		&cobra.Command{
			Use:   "install",
			Short: "Render the install commands for additional packages",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				pkgs, err := script.ParsePackages(f.packages)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(script.InstallCommands(pkgs), "\n"))
				return nil
			},
		},
	)
	return cmd
}
