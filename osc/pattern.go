package osc

import (
	"strings"
)

////
// Address pattern matching
////

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenAny               // *
	tokenSingle            // ?
	tokenClass             // [...]
	tokenAlternation       // {...}
)

type charRange struct {
	lo, hi byte
}

// token is one element of a parsed pattern component.
type token struct {
	kind    tokenKind
	literal string
	negated bool
	ranges  []charRange
	alts    []string
}

func (t *token) classMatches(c byte) bool {
	in := false
	for _, r := range t.ranges {
		if c >= r.lo && c <= r.hi {
			in = true
			break
		}
	}
	return in != t.negated
}

// component is one '/' separated level of a pattern. An empty component,
// written as "//", matches any number of address levels.
type component struct {
	tokens  []token
	descend bool
	literal bool
}

// Pattern is a parsed OSC address pattern.
type Pattern struct {
	raw        string
	components []component
}

// ParsePattern parses an OSC address pattern. Each component may contain
// literals, '?', '*', bracketed character classes with ranges and '!'
// negation, and brace alternations. An empty component ("//") matches zero
// or more address levels.
func ParsePattern(pattern string) (*Pattern, error) {
	parts := splitAddress(pattern)
	p := &Pattern{raw: pattern, components: make([]component, len(parts))}
	for i, part := range parts {
		if part == "" {
			p.components[i] = component{descend: true}
			continue
		}
		toks, err := parseComponent(part)
		if err != nil {
			return nil, err
		}
		p.components[i] = component{
			tokens:  toks,
			literal: len(toks) == 1 && toks[0].kind == tokenLiteral,
		}
	}
	return p, nil
}

// String returns the pattern as it was given to ParsePattern.
func (p *Pattern) String() string {
	return p.raw
}

// Len returns the number of address levels in the pattern, counting each
// "//" as one.
func (p *Pattern) Len() int {
	return len(p.components)
}

// Match reports whether the literal address matches the pattern. Without
// "//", the address must have exactly as many levels as the pattern and every
// level must match.
func (p *Pattern) Match(address string) bool {
	m := componentMatcher{pat: p.components, addr: splitAddress(address)}
	return m.match(0, 0)
}

// MatchAddress reports whether address matches pattern. An invalid pattern
// matches nothing.
func MatchAddress(pattern, address string) bool {
	p, err := ParsePattern(pattern)
	if err != nil {
		return false
	}
	return p.Match(address)
}

// splitAddress strips one trailing and one leading '/' and splits on '/'.
// The root address, "/" or "", has no components.
func splitAddress(address string) []string {
	address = strings.TrimSuffix(address, "/")
	address = strings.TrimPrefix(address, "/")
	if address == "" {
		return nil
	}
	return strings.Split(address, "/")
}

// componentMatcher matches pattern levels against address levels. Results
// after a "//" are remembered per (pattern level, address level), so repeated
// descends cost at most len(pat)*len(addr) steps.
type componentMatcher struct {
	pat  []component
	addr []string
	memo []int8
}

func (m *componentMatcher) match(pi, ai int) bool {
	for ; pi < len(m.pat); pi, ai = pi+1, ai+1 {
		if m.pat[pi].descend {
			return m.descend(pi, ai)
		}
		if ai == len(m.addr) || !matchTokens(m.pat[pi].tokens, m.addr[ai]) {
			return false
		}
	}
	return ai == len(m.addr)
}

// descend matches the levels after the "//" at pi against addr[ai:],
// addr[ai+1:] and so on.
func (m *componentMatcher) descend(pi, ai int) bool {
	if m.memo == nil {
		m.memo = make([]int8, len(m.pat)*(len(m.addr)+1))
	}
	k := pi*(len(m.addr)+1) + ai
	if v := m.memo[k]; v != 0 {
		return v > 0
	}
	ok := m.match(pi+1, ai) || (ai < len(m.addr) && m.descend(pi, ai+1))
	m.memo[k] = memoResult(ok)
	return ok
}

func memoResult(ok bool) int8 {
	if ok {
		return 1
	}
	return -1
}

// matchTokens evaluates a parsed component against one literal address
// level.
func matchTokens(toks []token, s string) bool {
	m := tokenMatcher{toks: toks, s: s}
	return m.match(0, 0)
}

// tokenMatcher remembers the outcome of every '*' and alternation per
// (token, offset), bounding a match at len(toks)*len(s) branch states.
type tokenMatcher struct {
	toks []token
	s    string
	memo []int8
}

func (m *tokenMatcher) match(ti, si int) bool {
	for ; ti < len(m.toks); ti++ {
		t := &m.toks[ti]
		switch t.kind {
		case tokenLiteral:
			if !strings.HasPrefix(m.s[si:], t.literal) {
				return false
			}
			si += len(t.literal)
		case tokenSingle:
			if si == len(m.s) {
				return false
			}
			si++
		case tokenClass:
			if si == len(m.s) || !t.classMatches(m.s[si]) {
				return false
			}
			si++
		case tokenAny:
			if ti == len(m.toks)-1 {
				return true
			}
			return m.branch(ti, si)
		case tokenAlternation:
			return m.branch(ti, si)
		}
	}
	return si == len(m.s)
}

func (m *tokenMatcher) branch(ti, si int) bool {
	if m.memo == nil {
		m.memo = make([]int8, len(m.toks)*(len(m.s)+1))
	}
	k := ti*(len(m.s)+1) + si
	if v := m.memo[k]; v != 0 {
		return v > 0
	}
	var ok bool
	t := &m.toks[ti]
	if t.kind == tokenAny {
		ok = m.match(ti+1, si) || (si < len(m.s) && m.branch(ti, si+1))
	} else {
		for _, alt := range t.alts {
			if strings.HasPrefix(m.s[si:], alt) && m.match(ti+1, si+len(alt)) {
				ok = true
				break
			}
		}
	}
	m.memo[k] = memoResult(ok)
	return ok
}

// parseComponent tokenizes a single address pattern level.
func parseComponent(s string) ([]token, error) {
	var toks []token
	for i := 0; i < len(s); {
		switch c := s[i]; c {
		case '*':
			if n := len(toks); n == 0 || toks[n-1].kind != tokenAny {
				toks = append(toks, token{kind: tokenAny})
			}
			i++
		case '?':
			toks = append(toks, token{kind: tokenSingle})
			i++
		case '[':
			end := strings.IndexByte(s[i+1:], ']')
			if end < 0 {
				return nil, PatternSyntaxError{Component: s, Reason: "unterminated '['"}
			}
			toks = append(toks, parseClass(s[i+1:i+1+end]))
			i += end + 2
		case '{':
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				return nil, PatternSyntaxError{Component: s, Reason: "unterminated '{'"}
			}
			body := s[i+1 : i+1+end]
			if strings.ContainsAny(body, "{[") {
				return nil, PatternSyntaxError{Component: s, Reason: "nested groups are not supported"}
			}
			toks = append(toks, token{kind: tokenAlternation, alts: strings.Split(body, ",")})
			i += end + 2
		case ']', '}':
			return nil, PatternSyntaxError{Component: s, Reason: "unbalanced '" + string(c) + "'"}
		default:
			j := i
			for j < len(s) && strings.IndexByte("*?[]{}", s[j]) < 0 {
				j++
			}
			toks = append(toks, token{kind: tokenLiteral, literal: s[i:j]})
			i = j
		}
	}
	return toks, nil
}

// parseClass parses the inside of a bracket expression. A leading '!'
// negates the class, "a-z" is an inclusive range and a '-' that cannot form a
// range is an ordinary member.
func parseClass(body string) token {
	t := token{kind: tokenClass}
	if strings.HasPrefix(body, "!") {
		t.negated = true
		body = body[1:]
	}
	for k := 0; k < len(body); {
		if k+2 < len(body) && body[k+1] == '-' {
			lo, hi := body[k], body[k+2]
			if lo > hi {
				lo, hi = hi, lo
			}
			t.ranges = append(t.ranges, charRange{lo: lo, hi: hi})
			k += 3
			continue
		}
		t.ranges = append(t.ranges, charRange{lo: body[k], hi: body[k]})
		k++
	}
	return t
}
