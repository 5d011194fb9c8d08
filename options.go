package sevenzip

// extractConfig holds the optional behaviours spec §5 explicitly leaves to
// the implementation: bounded-concurrency folder decoding and optional CRC
// verification.
type extractConfig struct {
	concurrency int
	verifyCRC   bool
}

func defaultExtractConfig() extractConfig {
	return extractConfig{
		concurrency: 1, // synchronous, matching spec §5's default
	}
}

// ExtractOption configures Extract/OpenReader.
type ExtractOption func(*extractConfig)

// WithConcurrency decodes up to n folders in parallel, at most n folder
// buffers resident at once: each folder's files are sliced out of its
// buffer immediately after decoding, before the next folder is decoded, so
// WithConcurrency(1) is spec §5's "MAY choose to stream per-folder
// decompression... so that only one folder buffer is held at a time".
// Output file ordering always matches files-info declaration order
// regardless of decode order, per spec §5.
func WithConcurrency(n int) ExtractOption {
	return func(c *extractConfig) {
		if n < 1 {
			n = 1
		}

		c.concurrency = n
	}
}

// WithCRCValidation verifies each decoded folder's CRC32 against the
// digest recorded in UnpackInfo, when present, failing extraction on a
// mismatch. CRC validation is optional per spec §3/§7; without this
// option, digests are parsed and retained but never checked.
func WithCRCValidation() ExtractOption {
	return func(c *extractConfig) { c.verifyCRC = true }
}
