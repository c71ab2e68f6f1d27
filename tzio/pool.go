package tzio

// StringPool deduplicates strings written to a stream. Strings are assigned
// sequential indexes in the order they are first seen. The zero value is
// not usable; create pools with NewStringPool.
//
// A StringPool is not safe for concurrent use.
type StringPool struct {
	strings []string
	index   map[string]int
}

// NewStringPool returns an empty pool.
func NewStringPool() *StringPool {
	return &StringPool{index: make(map[string]int)}
}

// IndexOf returns the index of s, adding it to the pool on first use.
func (p *StringPool) IndexOf(s string) int {
	if i, ok := p.index[s]; ok {
		return i
	}
	i := len(p.strings)
	p.strings = append(p.strings, s)
	p.index[s] = i
	return i
}

// Len returns the number of distinct strings in the pool.
func (p *StringPool) Len() int {
	return len(p.strings)
}

// Strings returns the pooled strings in index order.
func (p *StringPool) Strings() []string {
	out := make([]string, len(p.strings))
	copy(out, p.strings)
	return out
}
