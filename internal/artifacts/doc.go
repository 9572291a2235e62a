// Package artifacts implements the drepo delete-pyc command, removing
// compiled Python byte code files from a folder tree.
package artifacts
