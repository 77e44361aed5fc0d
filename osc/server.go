package osc

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

// MaxPacketSize is the largest UDP datagram the server reads.
const MaxPacketSize = 65535

// Server is an OSC server. The server listens on Addr for incoming OSC packets
// and bundles and hands them to Dispatcher in the order they are received.
// Unset fields get their defaults on first use and must not be changed
// afterwards.
type Server struct {
	Addr        string
	Dispatcher  PacketDispatcher
	Codec       *Codec
	ReadTimeout time.Duration
	Logger      *slog.Logger

	once sync.Once
}

func (s *Server) init() {
	s.once.Do(func() {
		if s.Dispatcher == nil {
			s.Dispatcher = NewDispatcher()
		}
		if s.Codec == nil {
			s.Codec = NewCodec(nil)
		}
		if s.Logger == nil {
			s.Logger = slog.Default()
		}
	})
}

// Handle registers a new message handler function for an OSC address. The
// handler is called for incoming messages whose pattern matches address. It
// fails when Dispatcher is not a *Dispatcher.
func (s *Server) Handle(address string, handler HandlerFunc) (MethodID, error) {
	s.init()
	d, ok := s.Dispatcher.(*Dispatcher)
	if !ok {
		return MethodID{}, fmt.Errorf("cannot register methods on %T", s.Dispatcher)
	}
	return d.RegisterFunc(address, handler)
}

// ListenAndServe retrieves incoming OSC packets and dispatches the retrieved
// OSC packets.
func (s *Server) ListenAndServe() error {
	ln, err := net.ListenPacket("udp", s.Addr)
	if err != nil {
		return err
	}
	defer ln.Close()
	return s.Serve(ln)
}

// Serve reads packets from c until it is closed. Packets that fail to decode
// are logged and dropped. Serve returns nil once c is closed.
func (s *Server) Serve(c net.PacketConn) error {
	s.init()
	var tempDelay time.Duration
	buf := make([]byte, MaxPacketSize)
	for {
		data, addr, err := s.read(c, buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			if tempDelay == 0 {
				tempDelay = 5 * time.Millisecond
			} else {
				tempDelay *= 2
			}
			if tempDelay > time.Second {
				return err
			}
			s.Logger.Warn("OSC read failed, retrying", "error", err, "delay", tempDelay)
			time.Sleep(tempDelay)
			continue
		}
		tempDelay = 0

		packet, err := s.Codec.Decode(data)
		if err != nil {
			s.Logger.Warn("dropping malformed OSC packet", "remote", addr, "size", len(data), "error", err)
			continue
		}
		if packet == nil {
			s.Logger.Debug("dropping non-OSC datagram", "remote", addr, "size", len(data))
			continue
		}
		s.Dispatcher.DispatchPacket(packet, SourceFromAddr(addr))
	}
}

// ReceivePacket reads one datagram from c and decodes it. A datagram that is
// not OSC at all yields a nil packet.
func (s *Server) ReceivePacket(c net.PacketConn) (Packet, net.Addr, error) {
	s.init()
	data, addr, err := s.read(c, make([]byte, MaxPacketSize))
	if err != nil {
		return nil, addr, err
	}
	p, err := s.Codec.Decode(data)
	return p, addr, err
}

// read retrieves one datagram.
func (s *Server) read(c net.PacketConn, buf []byte) ([]byte, net.Addr, error) {
	if s.ReadTimeout != 0 {
		if err := c.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
			return nil, nil, err
		}
	}
	n, addr, err := c.ReadFrom(buf)
	if err != nil {
		return nil, addr, err
	}
	return buf[:n], addr, nil
}

// SendTo encodes p and writes it to addr through c, typically the server's
// own connection so replies come from the listening port.
func (s *Server) SendTo(c net.PacketConn, p Packet, addr net.Addr) error {
	s.init()
	data, err := s.Codec.Encode(p)
	if err != nil {
		return err
	}
	_, err = c.WriteTo(data, addr)
	return err
}
