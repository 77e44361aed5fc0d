package osc

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// ReservedTags lists the type tag characters defined by OSC 1.0 and 1.1.
// Custom types may not claim any of them.
const ReservedTags = "ifsbhtdScmTFNI[]"

// TypeDescriptor describes how one value type maps to and from the wire.
//
// A descriptor claims one or more static Tags, or declares itself Variadic:
// variadic descriptors are consulted, in registration order, for tags that no
// static descriptor owns. Claims may narrow the tags a variadic descriptor
// accepts; a nil Claims accepts every tag.
//
// On encode, descriptors are tried in registration order and the first whose
// Accepts returns true writes the value.
type TypeDescriptor struct {
	Name     string
	Tags     string
	Variadic bool
	Claims   func(tag byte) bool
	Accepts  func(v any) bool
	Encode   func(e *Encoder, v any) error
	Decode   func(d *Decoder, tag byte) (any, error)
}

func (td *TypeDescriptor) claims(tag byte) bool {
	return td.Claims == nil || td.Claims(tag)
}

// typeTable is an immutable snapshot of the registry contents.
type typeTable struct {
	ordered  []*TypeDescriptor
	static   map[byte]*TypeDescriptor
	variadic []*TypeDescriptor
}

// Registry holds the value types known to a codec. Lookups read an atomically
// published snapshot and never block; registrations are serialized and copy
// the table.
type Registry struct {
	mu    sync.Mutex
	table atomic.Pointer[typeTable]
}

// NewEmptyRegistry returns a registry with no types at all.
func NewEmptyRegistry() *Registry {
	r := &Registry{}
	r.table.Store(&typeTable{static: map[byte]*TypeDescriptor{}})
	return r
}

// NewRegistry returns a registry populated with the OSC 1.0 and 1.1 types.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for _, td := range builtinTypes() {
		if err := r.register(td, true); err != nil {
			panic(fmt.Sprintf("osc: registering builtin type %s: %v", td.Name, err))
		}
	}
	return r
}

// defaultRegistry serves callers that pass a nil *Registry.
var defaultRegistry = sync.OnceValue(NewRegistry)

func registryOrDefault(r *Registry) *Registry {
	if r == nil {
		return defaultRegistry()
	}
	return r
}

// RegisterType adds a custom value type. It fails with ReservedTagError if a
// static tag is reserved by OSC and with TagAlreadyRegisteredError if a static
// tag is already owned.
func (r *Registry) RegisterType(td TypeDescriptor) error {
	return r.register(td, false)
}

func (r *Registry) register(td TypeDescriptor, builtin bool) error {
	if td.Name == "" {
		return fmt.Errorf("type descriptor has no name")
	}
	if td.Accepts == nil || td.Encode == nil || td.Decode == nil {
		return fmt.Errorf("type %s: Accepts, Encode and Decode are required", td.Name)
	}
	if td.Tags == "" && !td.Variadic {
		return fmt.Errorf("type %s: must claim a static tag or be variadic", td.Name)
	}
	for i := 0; i < len(td.Tags); i++ {
		tag := td.Tags[i]
		if tag <= ' ' || tag > '~' || tag == ',' {
			return fmt.Errorf("type %s: invalid tag %q", td.Name, tag)
		}
		if !builtin && strings.IndexByte(ReservedTags, tag) >= 0 {
			return ReservedTagError{Tag: tag}
		}
		if strings.IndexByte(td.Tags[:i], tag) >= 0 {
			return fmt.Errorf("type %s: tag %q listed twice", td.Name, tag)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.table.Load()
	for i := 0; i < len(td.Tags); i++ {
		if owner, ok := old.static[td.Tags[i]]; ok {
			return TagAlreadyRegisteredError{Tag: td.Tags[i], Owner: owner.Name}
		}
	}

	desc := td
	next := &typeTable{
		ordered:  append(old.ordered[:len(old.ordered):len(old.ordered)], &desc),
		static:   make(map[byte]*TypeDescriptor, len(old.static)+len(td.Tags)),
		variadic: old.variadic,
	}
	for tag, owner := range old.static {
		next.static[tag] = owner
	}
	for i := 0; i < len(td.Tags); i++ {
		next.static[td.Tags[i]] = &desc
	}
	if td.Variadic {
		next.variadic = append(old.variadic[:len(old.variadic):len(old.variadic)], &desc)
	}
	r.table.Store(next)
	return nil
}

// lookupTag returns the descriptor that decodes tag: the static owner first,
// then the first registered variadic descriptor that claims it.
func (r *Registry) lookupTag(tag byte) *TypeDescriptor {
	t := r.table.Load()
	if td, ok := t.static[tag]; ok {
		return td
	}
	for _, td := range t.variadic {
		if td.claims(tag) {
			return td
		}
	}
	return nil
}

// lookupValue returns the first registered descriptor accepting v.
func (r *Registry) lookupValue(v any) *TypeDescriptor {
	for _, td := range r.table.Load().ordered {
		if td.Accepts(v) {
			return td
		}
	}
	return nil
}

// TypeTag returns the type tags v encodes to. Most values have a single tag;
// arrays return their bracketed tag list.
func (r *Registry) TypeTag(v any) (string, error) {
	e := newEncoder(r)
	if err := e.Encode(v); err != nil {
		return "", err
	}
	return string(e.tags[1:]), nil
}

// EncodeValue returns the type tags and payload bytes of a single value.
func (r *Registry) EncodeValue(v any) (string, []byte, error) {
	e := newEncoder(r)
	if err := e.Encode(v); err != nil {
		return "", nil, err
	}
	return string(e.tags[1:]), e.payload, nil
}

// DecodeValue decodes a single value of the given tag from data and returns
// it along with the number of bytes consumed.
func (r *Registry) DecodeValue(tag byte, data []byte) (any, int, error) {
	d := newDecoder(r, data)
	v, err := d.Decode(tag)
	if err != nil {
		return nil, 0, err
	}
	return v, d.off, nil
}

// Names returns the names of the registered types in registration order.
func (r *Registry) Names() []string {
	t := r.table.Load()
	names := make([]string, len(t.ordered))
	for i, td := range t.ordered {
		names[i] = td.Name
	}
	return names
}
