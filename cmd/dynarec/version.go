package main

import (
	"fmt"
	"runtime"

	"github.com/colorfulnotion/dynarec/common"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version and source commit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dynarec %s commit %s %s/%s\n",
				common.Version, common.GetCommitHash(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
