package renderer

import (
	"fmt"
	"strings"
)

// ParseGraph reads back text produced by FilterGraph.String.
func ParseGraph(text string) (*FilterGraph, error) {
	g := NewGraph()
	for i, part := range splitTop(text, ';') {
		c, err := ParseChain(part)
		if err != nil {
			return nil, fmt.Errorf("chain[%d]: %w", i, err)
		}
		g.Add(c)
	}
	return g, nil
}

// ParseChain reads back text produced by FilterChain.String.
func ParseChain(text string) (*FilterChain, error) {
	rest := text
	var inputs, outputs []string
	for strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, fmt.Errorf("unterminated input pad in %q", text)
		}
		inputs = append(inputs, rest[1:end])
		rest = rest[end+1:]
	}
	for strings.HasSuffix(rest, "]") {
		start := strings.LastIndexByte(rest, '[')
		if start < 0 {
			return nil, fmt.Errorf("unterminated output pad in %q", text)
		}
		outputs = append([]string{rest[start+1 : len(rest)-1]}, outputs...)
		rest = rest[:start]
	}

	c := NewChain().From(inputs...).To(outputs...)
	for i, part := range splitTop(rest, ',') {
		f, err := ParseFilter(part)
		if err != nil {
			return nil, fmt.Errorf("filter[%d]: %w", i, err)
		}
		c.Append(f)
	}
	return c, nil
}

// ParseFilter reads back text produced by Filter.String, unescaping every
// option value.
func ParseFilter(text string) (*Filter, error) {
	name, opts, hasOpts := strings.Cut(text, "=")
	if name == "" {
		return nil, fmt.Errorf("missing filter name in %q", text)
	}
	f := NewFilter(name)
	if !hasOpts {
		return f, nil
	}
	for _, pair := range splitTop(opts, ':') {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("option %q of %s is not key=value", pair, name)
		}
		value, err := Unescape(raw)
		if err != nil {
			return nil, fmt.Errorf("option %s of %s: %w", key, name, err)
		}
		f.Set(key, value)
	}
	return f, nil
}
