package blocks

import "github.com/dolthub/swiss"

// liveSet records every outstanding buffer acquisition by block id. The List
// adds an entry when a block acquires memory and removes it when that memory
// is released, so a non-empty liveSet after Destroy means an accounting bug
// somewhere in the list.
type liveSet struct {
	entries *swiss.Map[int, int]
}

func newLiveSet() *liveSet {
	return &liveSet{
		entries: swiss.NewMap[int, int](8),
	}
}

func (s *liveSet) add(id, size int) {
	s.entries.Put(id, size)
}

func (s *liveSet) remove(id int) {
	s.entries.Delete(id)
}

func (s *liveSet) sizeOf(id int) (int, bool) {
	return s.entries.Get(id)
}

func (s *liveSet) count() int {
	return s.entries.Count()
}

func (s *liveSet) visit(visitBlock func(id, size int)) {
	s.entries.Iter(func(id, size int) bool {
		visitBlock(id, size)
		return false
	})
}
