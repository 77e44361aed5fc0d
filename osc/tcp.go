package osc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/Lobaro/slip"
)

// TCPServer receives SLIP framed OSC packets (OSC 1.1 stream transport) over
// TCP. Unset fields get their defaults on first use and must not be changed
// afterwards.
type TCPServer struct {
	Addr       string
	Dispatcher PacketDispatcher
	Codec      *Codec
	Logger     *slog.Logger

	once sync.Once
}

func (ts *TCPServer) init() {
	ts.once.Do(func() {
		if ts.Dispatcher == nil {
			ts.Dispatcher = NewDispatcher()
		}
		if ts.Codec == nil {
			ts.Codec = NewCodec(nil)
		}
		if ts.Logger == nil {
			ts.Logger = slog.Default()
		}
	})
}

// ListenAndServe listens on Addr and serves connections until the listener
// fails.
func (ts *TCPServer) ListenAndServe() error {
	listener, err := net.Listen("tcp", ts.Addr)
	if err != nil {
		return err
	}
	defer listener.Close()
	return ts.Serve(listener)
}

// Serve accepts connections from l and serves each one on its own goroutine.
// It returns nil once l is closed.
func (ts *TCPServer) Serve(l net.Listener) error {
	ts.init()
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go ts.HandleClient(conn)
	}
}

// HandleClient reads packets from conn until it is closed, dispatching them
// in the order they arrive.
func (ts *TCPServer) HandleClient(conn net.Conn) {
	ts.init()
	remote := conn.RemoteAddr()
	logger := ts.Logger.With("remote", remote.String())
	defer func() {
		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			logger.Warn("error closing OSC connection", "error", err)
		}
	}()

	logger.Debug("new OSC connection")
	err := readSLIP(conn, ts.Codec, logger, func(p Packet) {
		ts.Dispatcher.DispatchPacket(p, SourceFromAddr(remote))
	})
	if err != nil {
		logger.Warn("OSC connection failed", "error", err)
	}
}

// readSLIP decodes SLIP frames from r until EOF. Malformed packets are logged
// and skipped.
func readSLIP(r io.Reader, codec *Codec, logger *slog.Logger, fn func(Packet)) error {
	reader := slip.NewReader(bufio.NewReader(r))
	for {
		frame, _, err := reader.ReadPacket()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		if len(frame) == 0 {
			continue
		}
		p, err := codec.Decode(frame)
		if err != nil {
			logger.Warn("dropping malformed OSC packet", "size", len(frame), "error", err)
			continue
		}
		if p == nil {
			logger.Debug("dropping non-OSC frame", "size", len(frame))
			continue
		}
		fn(p)
	}
}

// TCPClient sends SLIP framed OSC packets over a TCP connection, and
// optionally dispatches the packets the peer sends back.
type TCPClient struct {
	ReconnectWait time.Duration
	Dispatcher    PacketDispatcher
	Logger        *slog.Logger

	addr  string
	codec *Codec

	mu   sync.Mutex
	conn net.Conn
	w    *slip.Writer
}

// NewTCPClient returns a client for addr. Connect must be called before Send.
func NewTCPClient(addr string, codec *Codec) *TCPClient {
	if codec == nil {
		codec = NewCodec(nil)
	}
	return &TCPClient{
		ReconnectWait: 200 * time.Millisecond,
		Logger:        slog.Default(),
		addr:          addr,
		codec:         codec,
	}
}

// Connect dials the server.
func (tc *TCPClient) Connect() error {
	c, err := net.Dial("tcp", tc.addr)
	if err != nil {
		return err
	}
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.conn != nil {
		tc.conn.Close()
	}
	tc.conn = c
	tc.w = slip.NewWriter(c)
	return nil
}

// Send encodes and writes one packet. If the write fails the client waits
// ReconnectWait, reconnects once and retries.
func (tc *TCPClient) Send(p Packet) error {
	data, err := tc.codec.Encode(p)
	if err != nil {
		return err
	}
	if err = tc.write(data); err == nil {
		return nil
	}
	tc.Logger.Warn("OSC send failed, reconnecting", "remote", tc.addr, "error", err)
	time.Sleep(tc.ReconnectWait)
	if err = tc.Connect(); err != nil {
		return fmt.Errorf("reconnecting to %s: %w", tc.addr, err)
	}
	return tc.write(data)
}

func (tc *TCPClient) write(data []byte) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.w == nil {
		return fmt.Errorf("not connected to %s", tc.addr)
	}
	return tc.w.WritePacket(data)
}

// Listen dispatches packets received on the connection until it is closed.
func (tc *TCPClient) Listen() error {
	tc.mu.Lock()
	conn := tc.conn
	tc.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("not connected to %s", tc.addr)
	}
	if tc.Dispatcher == nil {
		return fmt.Errorf("no dispatcher configured")
	}
	remote := SourceFromAddr(conn.RemoteAddr())
	return readSLIP(conn, tc.codec, tc.Logger, func(p Packet) {
		tc.Dispatcher.DispatchPacket(p, remote)
	})
}

// Close closes the connection.
func (tc *TCPClient) Close() error {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.conn == nil {
		return nil
	}
	err := tc.conn.Close()
	tc.conn = nil
	tc.w = nil
	return err
}
