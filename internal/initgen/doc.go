// Package initgen implements the drepo make-init command. It scans a folder's
// Python modules for top-level definitions by reading them as text, so the
// files do not need to be valid or importable, and renders an __init__.py
// aggregation file re-exporting everything it found.
package initgen
