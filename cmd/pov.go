package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/benchweight/weights"
)

var (
	// CLI flags for the pov command
	povMaxValues   uint32 // Declared max_values of the storage item
	povMaxSize     uint32 // Declared max_size of one value
	povKnownPrefix bool   // The item's prefix was already touched
)

// povCmd prints the worst-case proof contribution of one new key
var povCmd = &cobra.Command{
	Use:   "pov",
	Short: "Print the worst-case proof size of reading one new key of a storage item",
	Run: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("max-size") {
			logrus.Fatalf("--max-size not provided; an item without max_size has no proof bound")
		}
		info := weights.StorageInfo{MaxSize: &povMaxSize}
		if cmd.Flags().Changed("max-values") {
			info.MaxValues = &povMaxValues
		}
		pov, _ := info.WorstCaseProofSize(povKnownPrefix)
		fmt.Printf("%d (%s)\n", pov, humanize.IBytes(pov))
	},
}

func init() {
	povCmd.Flags().Uint32Var(&povMaxValues, "max-values", 0, "Declared max_values of the storage item (unset: unbounded)")
	povCmd.Flags().Uint32Var(&povMaxSize, "max-size", 0, "Declared max_size of one value in bytes")
	povCmd.Flags().BoolVar(&povKnownPrefix, "known-prefix", false, "The item's prefix was already read, so no trie path is charged")

	rootCmd.AddCommand(povCmd)
}
