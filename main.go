package main

import (
	"context"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"
)

var gitCommitSHA = ""

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, syscall.SIGTERM, syscall.SIGINT)

		select {
		case <-interrupt:
			klog.Info("received interrupt signal")
			cancel()
		case <-ctx.Done():
		}

		signal.Stop(interrupt)
	}()

	GitCommit = gitCommitSHA

	app := &cli.App{
		Name:        "murmur-xor",
		Version:     gitCommitSHA,
		Usage:       "recover MurmurHash64A keys from known prefixes and target hashes",
		Description: "Finds unknown keys whose MurmurHash64A matches a target hash, by exploiting shared 8-aligned prefixes with already-known keys.",
		ArgsUsage:   "<KEY_FILE...>",
		Flags: append([]cli.Flag{
			FlagHashes,
			FlagOutput,
			FlagPrintFiltered,
			FlagDebug,
		}, NewKlogFlagSet()...),
		Action: recoverAction,
		Commands: []*cli.Command{
			newCmd_Version(),
		},
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	sort.Sort(cli.CommandsByName(app.Commands))

	if err := app.RunContext(ctx, os.Args); err != nil {
		klog.Exit(err.Error())
	}
}
