// Package cli wires the krayt command tree.
package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/ginbear/krayt/internal/config"
	"github.com/ginbear/krayt/internal/k8s"
	"github.com/ginbear/krayt/internal/script"
	"github.com/ginbear/krayt/internal/tui"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// version is set at build time with -ldflags "-X .../internal/cli.version=..."
var version = "dev"

// Settings is the user configuration plus the discovered init scripts
type Settings struct {
	Config      *config.Config
	InitScripts []script.InitScript
}

// options carries the collaborators commands depend on
type options struct {
	debug bool

	newClient    func() (*k8s.Client, error)
	loadSettings func() (*Settings, error)
	pick         func(title string, items []string) (int, error)
	confirm      func(title string, lines []string) (bool, error)
	isTerminal   func() bool
	exec         func(argv []string) error
	now          func() time.Time
}

func defaultOptions() *options {
	return &options{
		newClient:    k8s.NewClient,
		loadSettings: loadSettings,
		pick:         tui.Pick,
		confirm:      tui.Confirm,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
		},
		exec: execKubectl,
		now:  time.Now,
	}
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree with the real terminal and cluster
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultOptions())
}

func newRootCmd(o *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "krayt",
		Short:         "Inspect the volumes of a running pod from a throwaway debug job",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd.ErrOrStderr(), o.debug || os.Getenv("KRAYT_DEBUG") == "1")
		},
	}
	root.PersistentFlags().BoolVar(&o.debug, "debug", false, "enable debug logging (also KRAYT_DEBUG=1)")

	root.AddCommand(
		newCreateCmd(o),
		newExecCmd(o),
		newCleanCmd(o),
		newTemplateCmd(o),
		newVersionCmd(),
	)
	return root
}

func setupLogging(out io.Writer, debug bool) {
	logrus.SetOutput(out)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
		return
	}
	logrus.SetLevel(logrus.WarnLevel)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the krayt version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

// loadSettings reads the config file and the init.d scripts
func loadSettings() (*Settings, error) {
	path, err := config.Path()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	root, err := config.Dir()
	if err != nil {
		return nil, err
	}
	scripts, err := script.LoadInitScripts(config.InitScriptDir(root))
	if err != nil {
		return nil, err
	}
	return &Settings{Config: cfg, InitScripts: scripts}, nil
}

// execKubectl replaces the current process with kubectl
func execKubectl(argv []string) error {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return errors.Wrap(err, "kubectl is required for exec")
	}
	logrus.Debugf("exec %v", argv)
	return unix.Exec(path, argv, os.Environ())
}
