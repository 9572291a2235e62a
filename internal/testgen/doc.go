// Package testgen implements the drepo write-tests command, emitting unittest
// skeleton files for a folder's Python modules. The skeletons are meant to be
// diffed against the real test suite to spot missing coverage.
package testgen
