package main

import "github.com/urfave/cli/v2"

var (
	FlagHashes = &cli.StringSliceFlag{
		Name:  "hashes",
		Usage: "target hash file; text (one lowercase hex u64 per line) or .bin (16-byte records, hash in bytes 8..16); repeatable",
	}
	FlagOutput = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "write recovered keys to FILE instead of stdout",
	}
	FlagPrintFiltered = &cli.BoolFlag{
		Name:  "print-filtered",
		Usage: "also print alphabet-valid candidates the trigram filter rejected",
	}
	FlagDebug = &cli.BoolFlag{
		Name:  "debug",
		Usage: "emit timing, counters and a round-by-round progress bar to stderr",
	}
)
