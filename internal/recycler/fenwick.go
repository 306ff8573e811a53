package recycler

// fenwick is a binary indexed tree over non-negative ints. It answers prefix
// sums and "which index contains offset x" in O(log n) and supports point
// updates, which is what dynamic row heights need.
type fenwick struct {
	tree []int // 1-based
	vals []int
	mask int // highest power of two <= len
}

func newFenwick(n int) *fenwick {
	f := &fenwick{}
	f.reset(make([]int, n))
	return f
}

// reset rebuilds the tree from vals in O(n). vals is retained.
func (f *fenwick) reset(vals []int) {
	n := len(vals)
	f.vals = vals
	f.tree = make([]int, n+1)
	for i := 0; i < n; i++ {
		f.tree[i+1] += vals[i]
		if j := (i + 1) + ((i + 1) & -(i + 1)); j <= n {
			f.tree[j] += f.tree[i+1]
		}
	}
	f.mask = 1
	for f.mask*2 <= n {
		f.mask *= 2
	}
}

func (f *fenwick) len() int { return len(f.vals) }

func (f *fenwick) get(i int) int { return f.vals[i] }

// set replaces the value at i.
func (f *fenwick) set(i, v int) {
	if d := v - f.vals[i]; d != 0 {
		f.vals[i] = v
		for j := i + 1; j < len(f.tree); j += j & -j {
			f.tree[j] += d
		}
	}
}

// prefix returns the sum of vals[0:i].
func (f *fenwick) prefix(i int) int {
	if i > len(f.vals) {
		i = len(f.vals)
	}
	s := 0
	for ; i > 0; i -= i & -i {
		s += f.tree[i]
	}
	return s
}

func (f *fenwick) total() int { return f.prefix(len(f.vals)) }

// search returns the smallest index i with prefix(i+1) > x, i.e. the index
// whose span contains offset x. It returns len when x is past the end.
func (f *fenwick) search(x int) int {
	if x < 0 {
		x = 0
	}
	pos := 0
	rem := x
	for step := f.mask; step > 0; step >>= 1 {
		if next := pos + step; next < len(f.tree) && f.tree[next] <= rem {
			pos = next
			rem -= f.tree[next]
		}
	}
	return pos
}
