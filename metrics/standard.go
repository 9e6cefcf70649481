package metrics

// Metric names recorded by the fixture runner and sszcheck. Names are
// dot-separated; WriteText turns dots into underscores.
const (
	// CasesPassed counts fixtures whose every check succeeded.
	CasesPassed = "spectest.cases_passed"
	// CasesFailed counts fixtures with at least one failed check.
	CasesFailed = "spectest.cases_failed"
	// InvalidRejected counts invalid-input fixtures that failed to decode
	// as required.
	InvalidRejected = "spectest.invalid_rejected"
	// DecodeMicros records decode time per fixture.
	DecodeMicros = "ssz.decode_us"
	// EncodeMicros records re-encode time per fixture.
	EncodeMicros = "ssz.encode_us"
	// RootMicros records hash tree root time per fixture.
	RootMicros = "ssz.root_us"
	// BytesDecoded counts serialized bytes fed to the decoder.
	BytesDecoded = "ssz.bytes_decoded"
	// RootCacheEntries tracks the number of roots held by the root cache.
	RootCacheEntries = "ssz.root_cache_entries"
	// RootCacheHits tracks root cache hits.
	RootCacheHits = "ssz.root_cache_hits"
)
