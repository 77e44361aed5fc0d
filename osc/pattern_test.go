package osc

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMatchAddress(t *testing.T) {
	cases := []struct {
		pattern string
		address string
		want    bool
	}{
		// literals
		{"/foo/bar", "/foo/bar", true},
		{"/foo/bar", "/foo/bar/baz", false},
		{"/foo/bar", "/foo/baz", false},
		{"/foo/bar", "/foo", false},
		{"/Foo", "/foo", false},

		// single and multi character wildcards
		{"/test?/test?/method?", "/test1/test3/methodA", true},
		{"/*/*/method?", "/test1/test3/methodA", true},
		{"/test?/test?/method?", "/test1/test3/methodAA", false},
		{"/test?", "/test", false},
		{"/*", "/anything", true},
		{"/*", "/a/b", false},
		{"/*", "/", false},
		{"/a*", "/a", true},
		{"/a*c", "/abbbc", true},
		{"/a*c", "/abbbcd", false},
		{"/*b*", "/abc", true},
		{"/a*b*c", "/aXbYbZc", true},
		{"/a*b*c", "/aXbYbZ", false},
		{"/*ab", "/aab", true},
		{"/a**b", "/ab", true},
		{"/?*?", "/ab", true},
		{"/?*?", "/a", false},

		// character classes
		{"/method[AB]", "/methodA", true},
		{"/method[AB]", "/methodB", true},
		{"/method[AB]", "/methodC", false},
		{"/method[!C]", "/methodA", true},
		{"/method[!C]", "/methodC", false},
		{"/method[!C]", "/methodAB", false},
		{"/[a-c]x", "/bx", true},
		{"/[a-c]x", "/dx", false},
		{"/[c-a]x", "/bx", true},
		{"/[!a-c]", "/d", true},
		{"/[!a-c]", "/b", false},
		{"/[a-]", "/-", true},
		{"/[a-]", "/a", true},
		{"/[0-9][0-9]", "/42", true},
		{"/[0-9][0-9]", "/4", false},

		// alternations
		{"/method{A,B}", "/methodA", true},
		{"/method{A,B}", "/methodB", true},
		{"/method{A,B}", "/methodC", false},
		{"/method{A,B}", "/methodAB", false},
		{"/{foo,bar}baz", "/barbaz", true},
		{"/{foo,fo}o", "/foo", true},
		{"/{foo,bar}", "/fo", false},
		{"/{a,}x", "/x", true},
		{"/*{1,2}", "/chan2", true},
		{"/mixer/{gain,mute}/[1-4]", "/mixer/mute/3", true},

		// trailing slashes
		{"/foo/", "/foo", true},
		{"/foo", "/foo/", true},

		// descent
		{"//bar", "/bar", true},
		{"//bar", "/a/b/bar", true},
		{"//bar", "/a/baz", false},
		{"/a//c", "/a/c", true},
		{"/a//c", "/a/b/x/c", true},
		{"/a//c", "/a/b", false},
		{"//b?r", "/x/bar", true},
		{"/a//", "/a/b/c", true},
	}
	for _, c := range cases {
		t.Run(c.pattern+" "+c.address, func(t *testing.T) {
			require.Equal(t, c.want, MatchAddress(c.pattern, c.address))
		})
	}
}

func TestParsePatternErrors(t *testing.T) {
	for _, pattern := range []string{
		"/a[bc",
		"/a{b,c",
		"/a]",
		"/a}",
		"/{a,{b}}",
		"/{a,[b]}",
		"/ok/x[",
	} {
		t.Run(pattern, func(t *testing.T) {
			_, err := ParsePattern(pattern)
			require.ErrorIs(t, err, PatternSyntaxError{})
			require.False(t, MatchAddress(pattern, "/a"))
		})
	}
}

func TestParsePattern(t *testing.T) {
	p, err := ParsePattern("/a/*/c//d")
	require.NoError(t, err)
	require.Equal(t, "/a/*/c//d", p.String())
	require.Equal(t, 5, p.Len())
	require.True(t, p.Match("/a/b/c/d"))
	require.True(t, p.Match("/a/b/c/x/y/d"))

	p, err = ParsePattern("/")
	require.NoError(t, err)
	require.Equal(t, 0, p.Len())
	require.True(t, p.Match(""))
	require.False(t, p.Match("/a"))
}

func TestParseComponentTokens(t *testing.T) {
	toks, err := parseComponent("ab*?[!x-z]{c,d}e")
	require.NoError(t, err)
	require.Equal(t, []token{
		{kind: tokenLiteral, literal: "ab"},
		{kind: tokenAny},
		{kind: tokenSingle},
		{kind: tokenClass, negated: true, ranges: []charRange{{lo: 'x', hi: 'z'}}},
		{kind: tokenAlternation, alts: []string{"c", "d"}},
		{kind: tokenLiteral, literal: "e"},
	}, toks)

	toks, err = parseComponent("***")
	require.NoError(t, err)
	require.Equal(t, []token{{kind: tokenAny}}, toks)
}

func TestMatchAddressBacktrackingIsBounded(t *testing.T) {
	cases := []struct {
		assertion string
		pattern   string
		address   string
		want      bool
	}{
		{
			"many stars without a match",
			"/" + strings.Repeat("*a", 30) + "*b",
			"/" + strings.Repeat("a", 200),
			false,
		},
		{
			"many stars with a match",
			"/" + strings.Repeat("*a", 30) + "*b",
			"/" + strings.Repeat("a", 200) + "b",
			true,
		},
		{
			"alternations followed by stars",
			"/" + strings.Repeat("{a,aa}*", 20) + "c",
			"/" + strings.Repeat("a", 200),
			false,
		},
		{
			"many descends without a match",
			strings.Repeat("//a", 20) + "/c",
			"/" + strings.Repeat("a/", 60) + "b",
			false,
		},
		{
			"many descends with a match",
			strings.Repeat("//a", 20) + "/c",
			"/" + strings.Repeat("a/", 60) + "c",
			true,
		},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			start := time.Now()
			require.Equal(t, c.want, MatchAddress(c.pattern, c.address))
			require.Less(t, time.Since(start), time.Second)
		})
	}
}
