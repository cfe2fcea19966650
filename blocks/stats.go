package blocks

// Statistics describes the shape of a block chain at a point in time.
type Statistics struct {
	BlockCount        int
	EmptyBlockCount   int
	AllocationBytes   int
	LargestBlockBytes int
}

func (s *Statistics) Clear() {
	s.BlockCount = 0
	s.EmptyBlockCount = 0
	s.AllocationBytes = 0
	s.LargestBlockBytes = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.BlockCount += other.BlockCount
	s.EmptyBlockCount += other.EmptyBlockCount
	s.AllocationBytes += other.AllocationBytes

	if other.LargestBlockBytes > s.LargestBlockBytes {
		s.LargestBlockBytes = other.LargestBlockBytes
	}
}

// AddStatistics sums this list's block statistics into the statistics
// currently present in the provided Statistics object.
func (l *List) AddStatistics(stats *Statistics) {
	for b := l.head; b != nil; b = b.next {
		stats.BlockCount++

		if b.IsEmpty() {
			stats.EmptyBlockCount++
			continue
		}

		stats.AllocationBytes += b.size
		if b.size > stats.LargestBlockBytes {
			stats.LargestBlockBytes = b.size
		}
	}
}
