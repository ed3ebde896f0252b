package memo

import "sync"

// trie is an argument-keyed result store: one sync.Map level per argument
// position, with the final level holding the cached value. Depth encodes
// argument order, so (2,3) and (3,2) occupy distinct paths.
//
// The trie grows without bound for the process lifetime. That is a
// documented trade-off: it only ever backs functions already judged pure,
// whose meaningful input domain is assumed bounded.
type trie[O any] struct {
	root *sync.Map
}

func newTrie[O any]() trie[O] {
	return trie[O]{root: &sync.Map{}}
}

// zeroArgKey is the single path used for zero-argument functions.
type zeroArgKey struct{}

func (t trie[O]) load(keys []any) (O, bool) {
	m, k := t.traverse(keys)
	v, ok := m.Load(k)
	if !ok {
		var zero O
		return zero, false
	}
	return v.(O), true
}

func (t trie[O]) store(keys []any, value O) {
	m, k := t.traverse(keys)
	m.Store(k, value)
}

func (t trie[O]) traverse(keys []any) (*sync.Map, any) {
	if len(keys) == 0 {
		return t.root, zeroArgKey{}
	}

	m := t.root
	for _, k := range keys[:len(keys)-1] {
		v, ok := m.Load(k)
		if !ok {
			next := &sync.Map{}
			if prev, loaded := m.LoadOrStore(k, next); loaded {
				v = prev
			} else {
				v = next
			}
		}
		m = v.(*sync.Map)
	}
	return m, keys[len(keys)-1]
}
