// Package utils provides shared infrastructure for the drepo CLI: a
// Viper-backed configuration loader and a zap logger factory with consistent
// level and format handling across commands.
package utils
