package main

import (
	"net"
	"strconv"
	"time"

	"github.com/showcontroller/oscroute/osc"
	"github.com/spf13/cobra"
)

var (
	sendTCP   bool
	sendDelay time.Duration
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send ADDR PATH [ARG...]",
	Short: "Send a message to an OSC server",
	Long: `Send a message to the OSC server at ADDR (host:port).

Arguments are typed by prefix: i: int32, h: int64, f: float32, d: float64,
s: string, S: symbol, c: char and b: hex blob. T, F, N and I send true,
false, nil and impulse. Bare integers are sent as int32, bare decimals as
float32 and any other word as a string.`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		values, err := parseArgs(args[2:])
		checkErr(err)

		var packet osc.Packet = osc.NewMessage(args[1], values...)
		if sendDelay > 0 {
			packet = osc.NewBundle(osc.NewTimetag(time.Now().Add(sendDelay)), packet)
		}

		if sendTCP {
			client := osc.NewTCPClient(args[0], nil)
			client.Logger = logger
			checkErr(client.Connect())
			err := client.Send(packet)
			client.Close()
			checkErr(err)
			return
		}

		host, port, err := net.SplitHostPort(args[0])
		checkErr(err)
		portNum, err := strconv.Atoi(port)
		if err != nil {
			bailf("invalid port %q", port)
		}
		checkErr(osc.NewClient(host, portNum, nil).Send(packet))
		logger.Debug("sent packet", "remote", args[0], "packet", packet)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().BoolVarP(&sendTCP, "tcp", "", false, "send over SLIP framed TCP instead of UDP")
	sendCmd.Flags().DurationVarP(&sendDelay, "at", "", 0, "wrap the message in a bundle timed this far in the future")
}
