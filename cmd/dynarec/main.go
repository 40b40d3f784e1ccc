// dynarec is a developer tool for the ARM backend and the softfloat engine:
// it compiles uop listings, reports code size and evaluates float operations.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/colorfulnotion/dynarec/common"
	"github.com/colorfulnotion/dynarec/config"
	log "github.com/colorfulnotion/dynarec/log"
	"github.com/spf13/cobra"
)

type options struct {
	profile  string
	logLevel string
	debug    string
	otlp     string

	cfg      *config.Config
	shutdown func(context.Context) error
}

func newRootCmd() *cobra.Command {
	o := &options{}
	rootCmd := &cobra.Command{
		Use:           "dynarec",
		Short:         "x86 dynarec ARM backend and softfloat tools",
		Version:       fmt.Sprintf("%s (%s)", common.Version, common.GetCommitHash()),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.ReadConfig(o.profile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = o.logLevel
			}
			o.cfg = cfg
			log.InitLogger(cfg.LogLevel)
			for _, m := range cfg.LogModules {
				log.EnableModule(m)
			}
			if o.debug != "" {
				log.EnableModules(o.debug)
			}
			if o.otlp != "" {
				shutdown, err := initTracing(cmd.Context(), o.otlp)
				if err != nil {
					return err
				}
				o.shutdown = shutdown
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if o.shutdown == nil {
				return nil
			}
			return o.shutdown(cmd.Context())
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&o.profile, "config", "default", "configuration profile id or JSON path")
	pf.StringVar(&o.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	pf.StringVar(&o.debug, "debug", "", "comma separated log modules to enable (codegen,tramp,alloc,softfloat,console)")
	pf.StringVar(&o.otlp, "otlp", "", "OTLP/HTTP endpoint (host:port) to export traces to")

	rootCmd.AddCommand(
		newDumpCmd(o),
		newStatsCmd(o),
		newSoftfloatCmd(o),
		newConsoleCmd(o),
		newVersionCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
