package plugin

/*

	The Adapter sits aside /epicycle/
	Contains core interfaces for Plugin

*/

import (
	"time"

	Mt "github.com/maroda/epicycle/types"
)

// OutputAdapter can be used to define a place for finished outlines to go,
// trace-by-trace or in batches if supported by the output type.
// A FourierSet hands over one TraceRecord per completed cycle.
type OutputAdapter interface {
	WriteTrace(rec *Mt.TraceRecord) error                       // Write a single completed trace
	WriteBatch(recs []*Mt.TraceRecord) error                    // Write batches of traces
	QueryRange(start, end time.Time) ([]*Mt.TraceRecord, error) // Time range query tool
	Flush() error                                               // Flush any buffered data
	Close() error                                               // Close the adapter and release resources
	Type() string                                               // ID for output
}
