package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"simlaunch/internal/config"
	"simlaunch/internal/robot"
)

type globalFlags struct {
	configPath string
	statePath  string
	logLevel   string
	tty        bool
}

type launchFlags struct {
	env          string
	useTaskWorld bool
}

func addLaunchFlags(cmd *cobra.Command, flags *launchFlags) {
	cmd.Flags().StringVar(&flags.env, "env", "", "robot to launch ("+strings.Join(robot.Names(), ", ")+")")
	cmd.Flags().BoolVar(&flags.useTaskWorld, "use_task_world", false, "load the modulation_tasks world instead of the empty one")
}

func newRootCommand(out, errOut io.Writer, d deps) *cobra.Command {
	var global globalFlags
	var current *app

	var rootLaunch launchFlags
	root := &cobra.Command{
		Use:           programName,
		Short:         "start and stop the simulator and motion planner for a robot",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(config.Flags{
				ConfigPath: global.configPath,
				StatePath:  global.statePath,
				LogLevel:   global.logLevel,
				TTY:        global.tty,
				Set: map[string]bool{
					"config":    cmd.Flags().Changed("config"),
					"state":     cmd.Flags().Changed("state"),
					"log-level": cmd.Flags().Changed("log-level"),
					"tty":       cmd.Flags().Changed("tty"),
				},
			}, d.getenv)
			if err != nil {
				return err
			}
			current = newApp(out, errOut, d, settings)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return current.up(cmd.Context(), rootLaunch.env, rootLaunch.useTaskWorld)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return err
	})

	root.PersistentFlags().StringVar(&global.configPath, "config", "", "config file (yaml; env: "+config.EnvConfig+")")
	root.PersistentFlags().StringVar(&global.statePath, "state", "", "run record path (env: "+config.EnvState+")")
	root.PersistentFlags().StringVar(&global.logLevel, "log-level", "info", "debug, info, warning or error (env: "+config.EnvLogLevel+")")
	root.PersistentFlags().BoolVar(&global.tty, "tty", false, "attach subsystems to a pseudo-terminal; run only (env: "+config.EnvTTY+")")
	addLaunchFlags(root, &rootLaunch)

	var runLaunch launchFlags
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "start the subsystems and stop them again on interrupt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return current.hold(cmd.Context(), runLaunch.env, runLaunch.useTaskWorld)
		},
	}
	addLaunchFlags(runCmd, &runLaunch)

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "stop the recorded run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return current.stop(cmd.Context())
		},
	}

	var worldLaunch launchFlags
	worldCmd := &cobra.Command{
		Use:   "world",
		Short: "print the world a robot would be started with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return current.world(worldLaunch.env, worldLaunch.useTaskWorld)
		},
	}
	addLaunchFlags(worldCmd, &worldLaunch)

	robotsCmd := &cobra.Command{
		Use:   "robots",
		Short: "list robots and their commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return current.robots()
		},
	}

	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "kill all ROS nodes and gazebo processes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return current.purge(cmd.Context())
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print version and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current.printVersion()
			return nil
		},
	}

	root.AddCommand(runCmd, stopCmd, worldCmd, robotsCmd, purgeCmd, versionCmd)
	return root
}
