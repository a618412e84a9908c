package telemetry

// Span names used for instrumentation.
const (
	SpanStoreList  = "store.list"
	SpanStoreRead  = "store.read"
	SpanStoreWrite = "store.write"
)

// Span attribute keys.
const (
	AttrBackend   = "fieldmap.backend"
	AttrNamespace = "fieldmap.namespace"
	AttrRecord    = "fieldmap.record"
	AttrPoints    = "fieldmap.points"
)
