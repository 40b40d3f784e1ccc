package main

import (
	"fmt"

	"github.com/colorfulnotion/dynarec/codeblock"
	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"
	"go.opentelemetry.io/otel/attribute"
)

func newDumpCmd(o *options) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "dump <listing.json|->",
		Short: "Compile a uop listing and print the native code of every uop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, span := tracer.Start(cmd.Context(), "dump")
			defer span.End()

			l, err := loadListing(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			c, err := newCompiler(o.cfg)
			if err != nil {
				return err
			}
			blk, spans, err := c.compile(l, top)
			if err != nil {
				return err
			}
			span.SetAttributes(
				attribute.Int("uops", len(l.Uops)),
				attribute.Int("bytes", blk.Size()),
				attribute.Int("pages", blk.Pages()),
				attribute.String("hash", blk.Hash()),
			)
			fmt.Fprint(cmd.OutOrStdout(), dumpTree(blk, spans).String())
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "fpu-top", -1, "compile as an x87 block entered with this TOP (0-7)")
	return cmd
}

func dumpTree(blk *codeblock.Block, spans []codeSpan) treeprint.Tree {
	tree := treeprint.NewWithRoot(fmt.Sprintf("block pc=%#x bytes=%d pages=%d hash=%s",
		blk.PC, blk.Size(), blk.Pages(), blk.Hash()))
	for _, s := range spans {
		br := tree.AddBranch(s.label)
		for _, line := range disassemble(blk, s.from, s.to) {
			br.AddNode(line)
		}
	}
	return tree
}
