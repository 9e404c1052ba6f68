package main

// main.go implements the hashkernel inspector CLI: it parses command-line
// flags, fetches a diagnostic snapshot from a target process exposing a
// pkg/container.SnapshotHandler endpoint, and prints it either as pretty
// text or JSON. It also supports periodic watch mode.
//
// The target Go service is expected to expose:
//   • GET /debug/hashkernel/snapshot – JSON payload, see
//     pkg/container.Snapshot.
//
// Build-time flag: `-ldflags "-X main.version=vX.Y.Z"` is set by GoReleaser.
// ---------------------------------------------------------------
// © 2025 hashkernel authors. MIT License.

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Voskan/hashkernel/pkg/container"
)

var version = "dev"

type options struct {
	target   string
	watch    bool
	interval time.Duration
	json     bool
	version  bool
}

func parseFlags() *options {
	opts := &options{}
	flag.StringVar(&opts.target, "target", "http://localhost:6060", "base URL of the target process")
	flag.BoolVar(&opts.watch, "watch", false, "poll the snapshot endpoint repeatedly")
	flag.DurationVar(&opts.interval, "interval", 2*time.Second, "poll interval when -watch is set")
	flag.BoolVar(&opts.json, "json", false, "print the raw JSON snapshot instead of a table")
	flag.BoolVar(&opts.version, "version", false, "print the inspector version and exit")
	flag.Parse()
	return opts
}

func main() {
	opts := parseFlags()

	if opts.version {
		fmt.Println(version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	if opts.watch {
		ticker := time.NewTicker(opts.interval)
		defer ticker.Stop()
		for {
			if err := dumpOnce(ctx, opts); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
			}
			select {
			case <-ticker.C:
				continue
			case <-ctx.Done():
				return
			}
		}
	}

	if err := dumpOnce(ctx, opts); err != nil {
		fatal(err)
	}
}

func dumpOnce(ctx context.Context, opts *options) error {
	snap, err := fetchSnapshot(ctx, opts.target)
	if err != nil {
		return err
	}
	if opts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	return prettyPrint(snap)
}

func fetchSnapshot(ctx context.Context, base string) (container.Snapshot, error) {
	var snap container.Snapshot
	url := base + "/debug/hashkernel/snapshot"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return snap, err
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return snap, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return snap, fmt.Errorf("unexpected status %s", res.Status)
	}
	if err := json.NewDecoder(res.Body).Decode(&snap); err != nil {
		return snap, err
	}
	return snap, nil
}

func prettyPrint(snap container.Snapshot) error {
	fmt.Printf("Shape:    %s\n", snap.Shape)
	fmt.Printf("Count:    %s\n", humanize.Comma(int64(snap.Count)))
	fmt.Printf("Capacity: %s buckets\n", humanize.Comma(int64(snap.Capacity)))
	fmt.Printf("Size:     %s\n", humanize.Bytes(uint64(snap.SizeBytes)))
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "hashkernel-inspect:", err)
	os.Exit(1)
}
