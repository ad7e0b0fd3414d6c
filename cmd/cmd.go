/* flatfw - flat exact-match NDN forwarder
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/named-data/flatfw/core"
	"github.com/named-data/flatfw/fw"
	"github.com/named-data/flatfw/trace"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

var CmdFlatFw = &cobra.Command{
	Use:     "flatfw",
	Short:   "Flat exact-match NDN forwarder",
	Version: core.Version,
}

var cmdReplay = &cobra.Command{
	Use:   "replay CONFIG-FILE TRACE-FILE",
	Short: "Replay a packet trace through the forwarder on a simulated clock",
	Args:  cobra.ExactArgs(2),
	RunE:  replay,
}

var (
	printRoutes  bool
	printMetrics bool
	cpuProfile   string
	memProfile   string
)

var cmdVersion = &cobra.Command{
	Use:   "version",
	Short: "Print the flatfw version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "flatfw %s\n", core.Version)
	},
}

func init() {
	for _, c := range []*cobra.Command{cmdReplay, cmdPace} {
		c.Flags().BoolVar(&printRoutes, "routes", false, "Print the FIB after the run")
		c.Flags().BoolVar(&printMetrics, "metrics", false, "Print Prometheus metrics after the run")
		c.Flags().StringVar(&cpuProfile, "cpu-profile", "", "Write CPU profile to file")
		c.Flags().StringVar(&memProfile, "mem-profile", "", "Write memory profile to file")
	}
	CmdFlatFw.AddCommand(cmdReplay, cmdPace, cmdVersion)
}

// replayFunc drives a trace through a forwarder.
type replayFunc func(tr *trace.Trace, config *core.Config, out io.Writer, opts ...fw.Option) (*trace.Result, error)

func replay(cmd *cobra.Command, args []string) error {
	return runTrace(cmd, args, trace.Replay)
}

// runTrace loads the config and trace named by args, runs them with fn and
// prints the summary the flags ask for.
func runTrace(cmd *cobra.Command, args []string, fn replayFunc) error {
	config, err := core.ReadConfig(args[0])
	if err != nil {
		return err
	}
	if err = core.OpenLogger(config); err != nil {
		return err
	}
	defer core.CloseLogger()
	config.Core.CpuProfile = cpuProfile
	config.Core.MemProfile = memProfile

	tr, err := trace.Read(args[1])
	if err != nil {
		return err
	}

	profiler := NewProfiler(config)
	if err = profiler.Start(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	reg := prometheus.NewRegistry()
	result, err := fn(tr, config, out, fw.WithMetrics(fw.NewMetrics(reg)))
	if perr := profiler.Stop(); err == nil {
		err = perr
	}
	if err != nil {
		return err
	}

	c := result.Counters
	fmt.Fprintf(out, "\ndecisions=%d in-interests=%d in-objects=%d forwarded=%d overridden=%d no-route=%d loop=%d stale=%d unsupported=%d\n",
		result.Decisions, c.NInInterests, c.NInContentObjects, c.NForwarded, c.NOverridden,
		c.NNoRoute, c.NLoopDrops, c.NStaleDrops, c.NUnsupported)

	if printRoutes {
		for _, r := range result.Routes {
			fmt.Fprintf(out, "%s -> %d\n", r.Name, r.ConnId)
		}
	}

	if printMetrics {
		mfs, err := reg.Gather()
		if err != nil {
			return err
		}
		for _, mf := range mfs {
			if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
				return err
			}
		}
	}
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := CmdFlatFw.Execute(); err != nil {
		os.Exit(1)
	}
}
