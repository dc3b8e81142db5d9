package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"qastore/config"

	"github.com/spf13/cobra"
)

const cliVersion = "1.0.0"

var exit = os.Exit

func main() {
	exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, in io.Reader, out, errOut io.Writer) int {
	root := newRootCmd(in, out)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	if err := root.ExecuteContext(context.Background()); err != nil {
		return 1
	}
	return 0
}

// portArg accepts exactly one positional argument that is an integer port.
func portArg(usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("please enter the correct number of arguments - this program should be run using %q", usage)
		}
		if _, err := strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("please ensure that the port number specified is an integer, got %q", args[0])
		}
		return nil
	}
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	var (
		configPath string
		cfg        config.Config
	)

	rootCmd := &cobra.Command{
		Use:     "qastore PORT",
		Short:   "Browse and contribute to a Q&A corpus stored in MongoDB",
		Long:    `Runs the interactive menu against the document store listening on PORT.`,
		Version: cliVersion,
		Args:    portArg("qastore PORT"),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _ := strconv.Atoi(args[0])
			return runInteractive(cmd.Context(), cfg, port, in, out)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "qastore.yaml", "Path to the YAML configuration file")

	loadCmd := &cobra.Command{
		Use:   "load PORT",
		Short: "Replace the Posts, Tags and Votes collections with the JSON files",
		Args:  portArg("qastore load PORT"),
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _ := strconv.Atoi(args[0])
			return runLoad(cmd.Context(), cfg, port, out)
		},
	}

	var addr string
	serveCmd := &cobra.Command{
		Use:   "serve PORT",
		Short: "Serve a read-only JSON API over the store",
		Args:  portArg("qastore serve PORT"),
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _ := strconv.Atoi(args[0])
			if addr != "" {
				cfg.API.Addr = addr
			}
			return runServe(cmd.Context(), cfg, port)
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to api.addr from the config)")

	embeddedCmd := &cobra.Command{
		Use:   "embedded",
		Short: "Maintain the embedded store",
	}
	var backupDir string
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Create a backup of the embedded store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackup(cfg, backupDir, out)
		},
	}
	backupCmd.Flags().StringVar(&backupDir, "dir", "data/backups", "Directory the backup is written to")
	restoreCmd := &cobra.Command{
		Use:   "restore FILE",
		Short: "Restore the embedded store from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cfg, args[0], in, out)
		},
	}
	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete the embedded store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cfg, in, out)
		},
	}

	rootCmd.AddCommand(loadCmd, serveCmd, embeddedCmd)
	embeddedCmd.AddCommand(backupCmd, restoreCmd, cleanCmd)
	return rootCmd
}
