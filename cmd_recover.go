package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/rpcpool/murmur-xor/internal/diag"
	"github.com/rpcpool/murmur-xor/internal/ingest"
	"github.com/rpcpool/murmur-xor/internal/search"
)

// recoverAction is the root command's Action: it ingests key and hash
// files, runs the search driver to its fixed point, and writes the
// recovered keys. See spec.md §6 for the exact CLI contract.
func recoverAction(c *cli.Context) error {
	keyFiles := c.Args().Slice()
	hashFiles := c.StringSlice("hashes")
	debug := c.Bool("debug")

	if len(keyFiles) == 0 && len(hashFiles) == 0 {
		return cli.ShowAppHelp(c)
	}

	if debug {
		klog.Infof("session %s", SessionID)
	}

	start := time.Now()

	keys, err := ingest.ReadKeys(keyFiles)
	if err != nil {
		klog.Exitf("failed to read key files: %s", err)
	}
	hashes, err := ingest.ReadHashes(hashFiles)
	if err != nil {
		klog.Exitf("failed to read hash files: %s", err)
	}

	if len(keys) == 0 {
		klog.Exit("no known keys after ingestion")
	}
	if len(hashes) == 0 {
		klog.Exit("no target hashes after ingestion")
	}

	klog.Infof("input_keys=%s", humanize.Comma(int64(len(keys))))

	if debug {
		fp := diag.Compute(keys, hashes)
		klog.Infof("input fingerprint: keys=%016x hashes=%016x", fp.Keys, fp.Hashes)
	}

	d := search.New(keys, hashes)

	var bar *progressbar.ProgressBar
	if debug {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("recovering"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSpinnerType(14),
		)
	}

	found, filtered := d.Run(func(round int, frontier [][]byte) {
		if !debug {
			return
		}
		bar.Describe(fmt.Sprintf("round %d, frontier %s", round, humanize.Comma(int64(len(frontier)))))
		bar.Add(1)
	})

	if debug {
		bar.Finish()
		fmt.Fprintln(os.Stderr)
		klog.Infof("rounds=%d elapsed=%s", d.Rounds(), time.Since(start))
	}

	klog.Infof("found_keys=%s", humanize.Comma(int64(len(found))))

	if c.Bool("print-filtered") {
		for _, k := range filtered {
			fmt.Println(string(k))
		}
	}

	out := os.Stdout
	outPath := "@stdout"
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			klog.Exitf("failed to create output file: %s", err)
		}
		defer f.Close()
		out = f
		outPath = path
	}
	klog.Infof("output=%s", outPath)

	for _, k := range found {
		fmt.Fprintln(out, string(k))
	}

	return nil
}
