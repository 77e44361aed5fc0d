package main

import (
	"encoding/hex"
	"strings"

	"github.com/showcontroller/oscroute/osc"
	"github.com/spf13/cobra"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode HEX",
	Short: "Decode a hex encoded OSC packet",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := hex.DecodeString(strings.Join(strings.Fields(strings.Join(args, "")), ""))
		checkErr(err)
		packet, err := osc.NewCodec(nil).Decode(data)
		checkErr(err)
		if packet == nil {
			bailf("not an OSC packet")
		}
		newPrinter(cmd.OutOrStdout(), nil).print(packet, 0)
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}
