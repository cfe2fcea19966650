package blocks

import "github.com/launchdarkly/go-jsonstream/v3/jwriter"

// PrintDetailedMap populates a json object with the current shape of the
// chain: aggregate totals followed by one entry per block in chain order.
func (l *List) PrintDetailedMap(writer *jwriter.Writer) {
	obj := writer.Object()
	defer obj.End()

	obj.Name("TotalBytes").Int(l.TotalBytes())
	obj.Name("BlockCount").Int(l.nodeCount)
	obj.Name("OutstandingAllocations").Int(l.live.count())

	arr := obj.Name("Blocks").Array()
	defer arr.End()

	for b := l.head; b != nil; b = b.next {
		blockObj := arr.Object()
		blockObj.Name("Id").Int(b.id)
		blockObj.Name("SizeBytes").Int(b.size)
		blockObj.Name("Empty").Bool(b.IsEmpty())
		blockObj.End()
	}
}

// BuildStatsString renders PrintDetailedMap as a JSON string.
func (l *List) BuildStatsString() string {
	writer := jwriter.NewWriter()
	l.PrintDetailedMap(&writer)
	return string(writer.Bytes())
}
