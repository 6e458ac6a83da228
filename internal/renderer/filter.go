// Package renderer models ffmpeg filter graphs and writes them in the
// textual syntax accepted by -filter_complex.
package renderer

import (
	"fmt"
	"strconv"
	"strings"
)

// Option is a single key=value pair of a filter.
type Option struct {
	Key   string
	Value string
}

// Filter is a named ffmpeg filter with its options in insertion order.
type Filter struct {
	name    string
	options []Option
}

// NewFilter starts a filter with no options.
func NewFilter(name string) *Filter {
	return &Filter{name: name}
}

// Set stores value under key. A key that is already present keeps its
// original position.
func (f *Filter) Set(key, value string) *Filter {
	for i := range f.options {
		if f.options[i].Key == key {
			f.options[i].Value = value
			return f
		}
	}
	f.options = append(f.options, Option{Key: key, Value: value})
	return f
}

func (f *Filter) SetInt(key string, v int) *Filter {
	return f.Set(key, strconv.Itoa(v))
}

func (f *Filter) SetFloat(key string, v float64) *Filter {
	return f.Set(key, FormatFloat(v))
}

func (f *Filter) Name() string { return f.name }

// Options returns a copy of the options in order.
func (f *Filter) Options() []Option {
	return append([]Option(nil), f.options...)
}

// Get looks up an option value by key.
func (f *Filter) Get(key string) (string, bool) {
	for _, o := range f.options {
		if o.Key == key {
			return o.Value, true
		}
	}
	return "", false
}

// String writes "name" or "name=k1=v1:k2=v2" with every value escaped.
func (f *Filter) String() string {
	if len(f.options) == 0 {
		return f.name
	}
	var b strings.Builder
	b.WriteString(f.name)
	b.WriteByte('=')
	for i, o := range f.options {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(o.Key)
		b.WriteByte('=')
		b.WriteString(Escape(o.Value))
	}
	return b.String()
}

// FilterChain is a linear run of filters between optional input and output
// pads.
type FilterChain struct {
	inputs  []string
	filters []*Filter
	outputs []string
}

// NewChain builds a chain of filters with no pads.
func NewChain(filters ...*Filter) *FilterChain {
	return &FilterChain{filters: filters}
}

// From sets the input pad labels.
func (c *FilterChain) From(pads ...string) *FilterChain {
	c.inputs = pads
	return c
}

// To sets the output pad labels.
func (c *FilterChain) To(pads ...string) *FilterChain {
	c.outputs = pads
	return c
}

// Append adds filters to the end of the chain.
func (c *FilterChain) Append(filters ...*Filter) *FilterChain {
	c.filters = append(c.filters, filters...)
	return c
}

func (c *FilterChain) Inputs() []string   { return append([]string(nil), c.inputs...) }
func (c *FilterChain) Outputs() []string  { return append([]string(nil), c.outputs...) }
func (c *FilterChain) Filters() []*Filter { return append([]*Filter(nil), c.filters...) }

// Output is the first output pad, or "" for an unlabeled chain.
func (c *FilterChain) Output() string {
	if len(c.outputs) == 0 {
		return ""
	}
	return c.outputs[0]
}

func (c *FilterChain) String() string {
	var b strings.Builder
	writePads(&b, c.inputs)
	for i, f := range c.filters {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(f.String())
	}
	writePads(&b, c.outputs)
	return b.String()
}

func writePads(b *strings.Builder, pads []string) {
	for _, p := range pads {
		fmt.Fprintf(b, "[%s]", p)
	}
}

// FilterGraph is the ordered list of chains passed to -filter_complex.
// Order matters: a pad must be produced before a later chain consumes it.
type FilterGraph struct {
	chains []*FilterChain
}

func NewGraph(chains ...*FilterChain) *FilterGraph {
	return &FilterGraph{chains: chains}
}

// Add appends chains to the graph.
func (g *FilterGraph) Add(chains ...*FilterChain) *FilterGraph {
	g.chains = append(g.chains, chains...)
	return g
}

func (g *FilterGraph) Chains() []*FilterChain {
	return append([]*FilterChain(nil), g.chains...)
}

func (g *FilterGraph) String() string {
	parts := make([]string, len(g.chains))
	for i, c := range g.chains {
		parts[i] = c.String()
	}
	return strings.Join(parts, ";")
}

// FormatFloat writes v with the fewest digits that read back to the same
// float64, never in exponent form: 5, 0.5, 1.6363636363636365.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
