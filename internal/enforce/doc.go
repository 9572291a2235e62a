// Package enforce implements the repository consistency checks behind the
// drepo enforce command: uniform line endings, tab and trailing-whitespace
// detection, and executable-bit/shebang agreement.
//
// The package is organized as a single-pass pipeline. A Discoverer walks the
// root folder and streams candidate paths, an Inspector produces one
// FileRecord per candidate, a Normalizer optionally rewrites line endings in
// place, and a Reporter renders the aggregated ScanReport. Service wires the
// four stages together with a bounded worker pool.
package enforce
