package osc

import (
	"fmt"
	"net"
	"strconv"
)

// Client sends OSC messages and bundles to the given IP address and port over
// UDP.
type Client struct {
	ipaddress string
	port      int
	laddr     *net.UDPAddr
	codec     *Codec
}

// NewClient creates a new OSC client. A nil codec gets the standard OSC
// types.
func NewClient(ip string, port int, codec *Codec) *Client {
	if codec == nil {
		codec = NewCodec(nil)
	}
	return &Client{ipaddress: ip, port: port, codec: codec}
}

// IP returns the IP address.
func (c *Client) IP() string {
	return c.ipaddress
}

// SetIP sets a new IP address.
func (c *Client) SetIP(ip string) {
	c.ipaddress = ip
}

// Port returns the port.
func (c *Client) Port() int {
	return c.port
}

// SetPort sets a new port.
func (c *Client) SetPort(port int) {
	c.port = port
}

// SetLocalAddr sets the local address.
func (c *Client) SetLocalAddr(ip string, port int) error {
	laddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(ip, strconv.Itoa(port)))
	if err != nil {
		return err
	}
	c.laddr = laddr
	return nil
}

// Send sends an OSC Bundle or an OSC Message.
func (c *Client) Send(packet Packet) error {
	data, err := c.codec.Encode(packet)
	if err != nil {
		return err
	}

	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(c.ipaddress, strconv.Itoa(c.port)))
	if err != nil {
		return err
	}
	conn, err := net.DialUDP("udp", c.laddr, addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err = conn.Write(data); err != nil {
		return fmt.Errorf("sending to %s: %w", addr, err)
	}
	return nil
}
