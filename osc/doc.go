// Copyright 2013 - 2015 Sebastian Ruml <sebastian.ruml@gmail.com>

/*
Package osc provides an Open Sound Control codec, an address space for
registering OSC methods, and UDP and TCP transports around them.

The implementation is based on the Open Sound Control 1.0 Specification
(http://opensoundcontrol.org/spec-1_0) and the stream framing of OSC 1.1.

The unit of transmission of OSC is an OSC Packet. An OSC packet consists of
its contents, a contiguous block of binary data, and its size, the number of
8-bit bytes that comprise the contents. The size of an OSC packet is always a
multiple of 4.

OSC packets come in two flavors:

OSC Messages: An OSC message consists of an OSC address pattern, followed
by an OSC Type Tag String, and finally by zero or more OSC arguments.

OSC Bundles: An OSC Bundle consists of the string "#bundle" followed
by an OSC Time Tag, followed by zero or more OSC bundle elements. Each bundle
element can be another OSC bundle or OSC message, prefixed by its size as an
int32.

# Types

Arguments are plain Go values. A Registry maps them to type tags:

	int32    i        float32  f        string   s
	[]byte   b        int64    h        Timetag  t
	float64  d        Symbol   S        Char     c
	MIDI     m        bool     T F      nil      N
	Impulse  I        []any    [ ... ]

Applications add their own types with Registry.RegisterType, usually through
NewBlobType or NewStringType. The OSC tags above are reserved.

# Address patterns

Incoming addresses may contain the OSC wildcards '?', '*', '[...]' (with
ranges and '!' negation) and '{a,b}'. A "//" matches any number of levels.
Registered method addresses are always literal.

# Usage

OSC client example:

	client := osc.NewClient("localhost", 8765, nil)
	msg := osc.NewMessage("/osc/address", int32(111), true, "hello")
	client.Send(msg)

OSC server example:

	d := osc.NewDispatcher(osc.WithLogger(slog.Default()))
	d.RegisterFunc("/message/address", func(msg *osc.Message, src osc.Source) error {
		osc.PrintMessage(msg)
		return nil
	})

	server := &osc.Server{
		Addr:       "127.0.0.1:8765",
		Dispatcher: d,
	}
	server.ListenAndServe()

Transports accept any PacketDispatcher, so a PacketDispatcherFunc can observe
whole packets, bundles included, without registering methods.
*/
package osc
