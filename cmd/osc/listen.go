package main

import (
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/showcontroller/oscroute/osc"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	listenTCP     bool
	listenPattern string
)

// listenCmd represents the listen command
var listenCmd = &cobra.Command{
	Use:   "listen ADDR",
	Short: "Print OSC packets received on ADDR",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var pattern *osc.Pattern
		if listenPattern != "" {
			p, err := osc.ParsePattern(listenPattern)
			checkErr(err)
			pattern = p
		}
		out := newPrinter(cmd.OutOrStdout(), pattern)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		g, ctx := errgroup.WithContext(ctx)

		var closer io.Closer
		if listenTCP {
			l, err := net.Listen("tcp", args[0])
			checkErr(err)
			closer = l
			server := &osc.TCPServer{Dispatcher: out, Logger: logger}
			g.Go(func() error { return server.Serve(l) })
			logger.Info("listening", "protocol", "tcp", "addr", l.Addr().String())
		} else {
			conn, err := net.ListenPacket("udp", args[0])
			checkErr(err)
			closer = conn
			server := &osc.Server{Dispatcher: out, Logger: logger}
			g.Go(func() error { return server.Serve(conn) })
			logger.Info("listening", "protocol", "udp", "addr", conn.LocalAddr().String())
		}
		g.Go(func() error {
			<-ctx.Done()
			return closer.Close()
		})
		checkErr(g.Wait())
	},
}

func init() {
	rootCmd.AddCommand(listenCmd)
	listenCmd.Flags().BoolVarP(&listenTCP, "tcp", "", false, "accept SLIP framed TCP connections instead of UDP")
	listenCmd.Flags().StringVarP(&listenPattern, "pattern", "p", "", "only print packets with a message matching this address pattern")
}
