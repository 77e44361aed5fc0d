package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/showcontroller/oscroute/osc"
)

var (
	addressColor = color.New(color.FgCyan)
	tagColor     = color.New(color.FgYellow)
	bundleColor  = color.New(color.FgMagenta)
	sourceColor  = color.New(color.FgHiBlack)
)

// printer writes packets whose messages match pattern. It is safe for
// concurrent use by several connections.
type printer struct {
	mu       sync.Mutex
	w        io.Writer
	pattern  *osc.Pattern
	registry *osc.Registry
}

func newPrinter(w io.Writer, pattern *osc.Pattern) *printer {
	return &printer{w: w, pattern: pattern, registry: osc.NewRegistry()}
}

func (p *printer) DispatchPacket(packet osc.Packet, src osc.Source) {
	if !p.matches(packet) {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	sourceColor.Fprintf(p.w, "%s ", src)
	p.print(packet, 0)
}

func (p *printer) matches(packet osc.Packet) bool {
	if p.pattern == nil {
		return true
	}
	switch packet := packet.(type) {
	case *osc.Message:
		return p.pattern.Match(packet.Address)
	case *osc.Bundle:
		for _, msg := range packet.Messages() {
			if p.pattern.Match(msg.Address) {
				return true
			}
		}
	}
	return false
}

func (p *printer) print(packet osc.Packet, depth int) {
	indent := strings.Repeat("  ", depth)
	switch packet := packet.(type) {
	case *osc.Message:
		tags, err := packet.TypeTags(p.registry)
		if err != nil {
			tags = "?"
		}
		fmt.Fprint(p.w, indent)
		addressColor.Fprint(p.w, packet.Address)
		tagColor.Fprintf(p.w, " %s", tags)
		fmt.Fprintln(p.w, strings.TrimPrefix(packet.String(), packet.Address))
	case *osc.Bundle:
		fmt.Fprint(p.w, indent)
		bundleColor.Fprintf(p.w, "#bundle %s\n", packet.Timetag)
		for _, elem := range packet.Elements {
			p.print(elem, depth+1)
		}
	}
}
