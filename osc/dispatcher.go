package osc

import (
	"fmt"
	"log/slog"
	"net"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// invalidMethodChars may not appear in a registered method name.
const invalidMethodChars = "*?,[]{}# "

// MethodID identifies one registration on a Dispatcher.
type MethodID uuid.UUID

// String returns the canonical form of the id.
func (id MethodID) String() string {
	return uuid.UUID(id).String()
}

// Source describes where a dispatched message came from. Transports fill it
// in; it is empty for locally originated messages.
type Source struct {
	Host string
	Port int
}

// SourceFromAddr builds a Source from a network address.
func SourceFromAddr(a net.Addr) Source {
	if a == nil {
		return Source{}
	}
	switch t := a.(type) {
	case *net.UDPAddr:
		return Source{Host: t.IP.String(), Port: t.Port}
	case *net.TCPAddr:
		return Source{Host: t.IP.String(), Port: t.Port}
	}
	host, port, err := net.SplitHostPort(a.String())
	if err != nil {
		return Source{Host: a.String()}
	}
	p, _ := strconv.Atoi(port)
	return Source{Host: host, Port: p}
}

func (s Source) String() string {
	if s.Host == "" && s.Port == 0 {
		return "local"
	}
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Handler is an interface for OSC methods. Every handler implementation for
// an OSC message must implement this interface.
type Handler interface {
	HandleMessage(msg *Message, src Source) error
}

// HandlerFunc implements the Handler interface. Type definition for an OSC
// handler function.
type HandlerFunc func(msg *Message, src Source) error

// HandleMessage calls itself with the given OSC Message. Implements the
// Handler interface.
func (f HandlerFunc) HandleMessage(msg *Message, src Source) error {
	return f(msg, src)
}

// PacketDispatcher receives every packet a transport decodes. *Dispatcher is
// the usual implementation.
type PacketDispatcher interface {
	DispatchPacket(p Packet, src Source)
}

// PacketDispatcherFunc adapts a function to the PacketDispatcher interface.
type PacketDispatcherFunc func(p Packet, src Source)

// DispatchPacket calls f.
func (f PacketDispatcherFunc) DispatchPacket(p Packet, src Source) {
	f(p, src)
}

// ErrorHandler receives handler failures, including recovered panics.
type ErrorHandler func(id MethodID, msg *Message, err error)

type method struct {
	id      MethodID
	handler Handler
}

// node is one level of the address space. A node is a container when it has
// children and a method when it has registrations; it can be both.
type node struct {
	name     string
	parent   *node
	children map[string]*node
	order    []*node
	methods  []method
}

func newNode(name string, parent *node) *node {
	return &node{name: name, parent: parent, children: map[string]*node{}}
}

func (n *node) child(name string) *node {
	c, ok := n.children[name]
	if !ok {
		c = newNode(name, n)
		n.children[name] = c
		n.order = append(n.order, c)
	}
	return c
}

func (n *node) removeChild(c *node) {
	delete(n.children, c.name)
	for i, o := range n.order {
		if o == c {
			n.order = append(n.order[:i:i], n.order[i+1:]...)
			break
		}
	}
}

// visit is a node paired with the number of pattern levels left to match
// below it.
type visit struct {
	n    *node
	left int
}

// collect appends the methods of every node below n matching pat, in tree
// order. seen records every (node, pattern level) pair already walked, so
// several "//" levels neither duplicate methods nor revisit subtrees.
func (n *node) collect(pat []component, seen map[visit]bool, out *[]method) {
	v := visit{n: n, left: len(pat)}
	if seen[v] {
		return
	}
	seen[v] = true
	if len(pat) == 0 {
		*out = append(*out, n.methods...)
		return
	}
	c := pat[0]
	switch {
	case c.descend:
		n.collect(pat[1:], seen, out)
		for _, child := range n.order {
			child.collect(pat, seen, out)
		}
	case c.literal:
		if child, ok := n.children[c.tokens[0].literal]; ok {
			child.collect(pat[1:], seen, out)
		}
	default:
		for _, child := range n.order {
			if matchTokens(c.tokens, child.name) {
				child.collect(pat[1:], seen, out)
			}
		}
	}
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger used to report handler failures.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = l }
}

// WithScheduler sets the scheduler that decides when bundle contents are
// dispatched. The default dispatches immediately.
func WithScheduler(s Scheduler) DispatcherOption {
	return func(d *Dispatcher) { d.scheduler = s }
}

// WithErrorHandler sets a hook called for every failed handler, in addition
// to logging.
func WithErrorHandler(h ErrorHandler) DispatcherOption {
	return func(d *Dispatcher) { d.onError = h }
}

// Dispatcher is a tree of registered OSC methods. Incoming address patterns
// are resolved against it and the matching handlers are invoked. Registration
// and dispatch may run concurrently.
type Dispatcher struct {
	mu        sync.RWMutex
	root      *node
	index     map[MethodID]*node
	logger    *slog.Logger
	scheduler Scheduler
	onError   ErrorHandler
}

// NewDispatcher returns an empty Dispatcher.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		root:      newNode("", nil),
		index:     map[MethodID]*node{},
		scheduler: ImmediateScheduler{},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// splitMethodAddress validates a literal method address and returns its
// levels.
func splitMethodAddress(address string) ([]string, error) {
	if !strings.HasPrefix(address, "/") {
		return nil, InvalidAddressError{Address: address, Reason: "must start with '/'"}
	}
	parts := splitAddress(address)
	if len(parts) == 0 {
		return nil, InvalidAddressError{Address: address, Reason: "the root cannot be a method"}
	}
	for _, p := range parts {
		if p == "" {
			return nil, InvalidAddressError{Address: address, Reason: "empty path component"}
		}
		if strings.ContainsAny(p, invalidMethodChars) {
			return nil, InvalidAddressError{
				Address: address,
				Reason:  fmt.Sprintf("component %q contains one of %q", p, invalidMethodChars),
			}
		}
	}
	return parts, nil
}

// Register adds a method at the literal address and returns its id. The
// handler may be nil, in which case the method is only reported by Methods
// and Dispatch. Registering the same address twice yields two independent
// methods.
func (d *Dispatcher) Register(address string, h Handler) (MethodID, error) {
	parts, err := splitMethodAddress(address)
	if err != nil {
		return MethodID{}, err
	}
	id := MethodID(uuid.New())

	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.root
	for _, p := range parts {
		n = n.child(p)
	}
	n.methods = append(n.methods, method{id: id, handler: h})
	d.index[id] = n
	return id, nil
}

// RegisterFunc adds a handler function at the literal address.
func (d *Dispatcher) RegisterFunc(address string, f HandlerFunc) (MethodID, error) {
	if f == nil {
		return d.Register(address, nil)
	}
	return d.Register(address, f)
}

// Unregister removes methods by id. Unknown ids are ignored. Containers left
// without methods or children are pruned.
func (d *Dispatcher) Unregister(ids ...MethodID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range ids {
		n, ok := d.index[id]
		if !ok {
			continue
		}
		delete(d.index, id)
		for i, m := range n.methods {
			if m.id == id {
				n.methods = append(n.methods[:i:i], n.methods[i+1:]...)
				break
			}
		}
		for n.parent != nil && len(n.methods) == 0 && len(n.order) == 0 {
			n.parent.removeChild(n)
			n = n.parent
		}
	}
}

// UnregisterAll removes every method.
func (d *Dispatcher) UnregisterAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.root = newNode("", nil)
	d.index = map[MethodID]*node{}
}

func (d *Dispatcher) match(address string) ([]method, error) {
	p, err := ParsePattern(address)
	if err != nil {
		return nil, err
	}
	if p.Len() == 0 {
		return nil, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []method
	d.root.collect(p.components, map[visit]bool{}, &out)
	return out, nil
}

// Methods returns the ids of every method whose address matches the given
// address pattern, in tree order and, at one address, in registration order.
// The pattern is applied to the registered names, which are always literal.
// The root address and invalid patterns match nothing.
func (d *Dispatcher) Methods(address string) []MethodID {
	methods, err := d.match(address)
	if err != nil {
		d.logger.Debug("ignoring invalid address pattern", "address", address, "error", err)
		return nil
	}
	ids := make([]MethodID, len(methods))
	for i, m := range methods {
		ids[i] = m.id
	}
	return ids
}

// Dispatch invokes the handler of every method matching msg.Address, in the
// order Methods reports them, and returns the matched ids. A failing or
// panicking handler is reported and does not stop the others.
func (d *Dispatcher) Dispatch(msg *Message, src Source) []MethodID {
	methods, err := d.match(msg.Address)
	if err != nil {
		d.logger.Warn("dropping message with invalid address pattern",
			"address", msg.Address, "remote", src.String(), "error", err)
		return nil
	}
	ids := make([]MethodID, len(methods))
	for i, m := range methods {
		ids[i] = m.id
		if m.handler != nil {
			d.invoke(m, msg, src)
		}
	}
	return ids
}

func (d *Dispatcher) invoke(m method, msg *Message, src Source) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			buf = buf[:runtime.Stack(buf, false)]
			d.fail(m.id, msg, src, fmt.Errorf("panic: %v", r), slog.String("stack", string(buf)))
		}
	}()
	if err := m.handler.HandleMessage(msg, src); err != nil {
		d.fail(m.id, msg, src, err)
	}
}

func (d *Dispatcher) fail(id MethodID, msg *Message, src Source, err error, attrs ...any) {
	args := append([]any{
		"method", id.String(),
		"address", msg.Address,
		"remote", src.String(),
		"error", err,
	}, attrs...)
	d.logger.Error("OSC handler failed", args...)
	if d.onError != nil {
		d.onError(id, msg, err)
	}
}

// DispatchPacket dispatches a message, or every element of a bundle in wire
// order once the scheduler releases it.
func (d *Dispatcher) DispatchPacket(p Packet, src Source) {
	switch t := p.(type) {
	case *Message:
		d.Dispatch(t, src)
	case *Bundle:
		d.scheduler.Schedule(t.Timetag, func() {
			for _, elem := range t.Elements {
				d.DispatchPacket(elem, src)
			}
		})
	}
}
