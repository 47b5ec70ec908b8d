// Command bolt-tap proxies a Bolt client connection to an upstream Neo4j
// server, capturing RUN statements as trace.Events and showing them live in
// a terminal inspector.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sorablue/boltwire/boltproxy"
	"github.com/sorablue/boltwire/inspect"
	"github.com/sorablue/boltwire/trace"
)

var version = "dev"

func main() {
	fs := flag.NewFlagSet("bolt-tap", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "bolt-tap — Bolt protocol proxy and inspector\n\nUsage:\n  bolt-tap [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	listen := fs.String("listen", "", "client listen address (required)")
	upstream := fs.String("upstream", "", "upstream Neo4j Bolt address (required)")
	nplus1Threshold := fs.Int("nplus1-threshold", 5, "N+1 detection threshold (0 to disable)")
	nplus1Window := fs.Duration("nplus1-window", time.Second, "N+1 detection time window")
	nplus1Cooldown := fs.Duration("nplus1-cooldown", 10*time.Second, "N+1 alert cooldown per statement template")
	noTUI := fs.Bool("no-tui", false, "disable the terminal inspector; just proxy and log")
	showVersion := fs.Bool("version", false, "show version and exit")

	_ = fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("bolt-tap %s\n", version)
		return
	}

	if *listen == "" || *upstream == "" {
		fs.Usage()
		os.Exit(1)
	}

	if err := run(*listen, *upstream, *nplus1Threshold, *nplus1Window, *nplus1Cooldown, *noTUI); err != nil {
		log.Fatal(err)
	}
}

func run(listen, upstream string, nplus1Threshold int, nplus1Window, nplus1Cooldown time.Duration, noTUI bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	broker := trace.NewBroker(256)

	var det *trace.NPlus1Detector
	if nplus1Threshold > 0 {
		det = trace.NewNPlus1Detector(nplus1Threshold, nplus1Window, nplus1Cooldown)
		log.Printf("N+1 detection enabled (threshold=%d, window=%s, cooldown=%s)",
			nplus1Threshold, nplus1Window, nplus1Cooldown)
	}

	p := boltproxy.New(listen, upstream)

	go func() {
		for ev := range p.Events() {
			if det != nil {
				r := det.Record(ev.Normalized, ev.StartTime)
				ev.NPlus1 = r.Matched
				if r.Alert != nil {
					log.Printf("N+1 detected: %q (%d times in %s)", r.Alert.Normalized, r.Alert.Count, nplus1Window)
				}
			}
			broker.Publish(ev)
		}
	}()

	proxyErrCh := make(chan error, 1)
	go func() {
		log.Printf("proxying %s -> %s", listen, upstream)
		proxyErrCh <- p.ListenAndServe(ctx)
	}()

	if noTUI {
		select {
		case err := <-proxyErrCh:
			return err
		case <-ctx.Done():
			return nil
		}
	}

	program := tea.NewProgram(inspect.New(broker), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	stop()
	return <-proxyErrCh
}
