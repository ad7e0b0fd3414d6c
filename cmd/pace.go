/* flatfw - flat exact-match NDN forwarder
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package cmd

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/named-data/flatfw/core"
	"github.com/named-data/flatfw/fw"
	"github.com/named-data/flatfw/trace"
	"github.com/spf13/cobra"
)

var cmdPace = &cobra.Command{
	Use:   "pace CONFIG-FILE TRACE-FILE",
	Short: "Replay a packet trace through the forwarder in wall-clock time",
	Long: `Replay a packet trace through the forwarder in wall-clock time.

Events fire when their offset from the start of the run has elapsed.
An interrupt stops the run early and prints what was decided so far.`,
	Args: cobra.ExactArgs(2),
	RunE: pace,
}

func pace(cmd *cobra.Command, args []string) error {
	// setup signals
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runTrace(cmd, args, func(tr *trace.Trace, config *core.Config, out io.Writer, opts ...fw.Option) (*trace.Result, error) {
		return trace.Pace(ctx, tr, config, out, clock.New(), opts...)
	})
}
