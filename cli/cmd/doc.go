// Package cmd implements the gentmpl subcommands.
//
// Commands read their inputs from files named on the command line, or stdin
// for "-", and write results to stdout. Template errors are reported on stderr
// as a diagnostic pointing into the template source before being returned.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
