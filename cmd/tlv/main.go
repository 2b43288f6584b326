package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vanderheijden86/tracelane/internal/datasource"
	"github.com/vanderheijden86/tracelane/pkg/chart"
	"github.com/vanderheijden86/tracelane/pkg/config"
	"github.com/vanderheijden86/tracelane/pkg/model"
	"github.com/vanderheijden86/tracelane/pkg/trace"
	"github.com/vanderheijden86/tracelane/pkg/ui"
	"github.com/vanderheijden86/tracelane/pkg/version"
	"github.com/vanderheijden86/tracelane/pkg/watcher"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	unitFlag := flag.String("unit", "", "Canonical time unit: ns or us (overrides config)")
	exportFlag := flag.String("export", "", "Render a snapshot to the given .svg or .png path and exit")
	exportBoth := flag.String("export-both", "", "Render SVG and PNG snapshots with the given base path and exit")
	noWatch := flag.Bool("no-watch", false, "Disable live reload of the trace file")
	pollFlag := flag.Bool("poll", false, "Force polling instead of filesystem notifications")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: tlv [options] <trace-file>")
		fmt.Println("\nA TUI viewer for trace timelines.")
		fmt.Println("Accepts duration-form JSON, compact event streams, delimited")
		fmt.Println("begin/end logs, and Perfetto-style SQLite slice tables.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("tlv %s\n", version.Version)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one trace file argument")
		fmt.Fprintln(os.Stderr, "Run 'tlv --help' for usage.")
		os.Exit(2)
	}
	tracePath := flag.Arg(0)

	appCfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue with defaults
		appCfg = config.DefaultConfig()
	}
	if *unitFlag != "" {
		switch *unitFlag {
		case "ns", "us":
			appCfg.Trace.Unit = *unitFlag
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown unit %q (want ns or us)\n", *unitFlag)
			os.Exit(2)
		}
	}

	loadOpts := datasource.LoadOptions{
		Trace: trace.Options{
			Unit:          unitFromConfig(appCfg),
			SyntheticSpan: appCfg.Trace.SyntheticSpan,
		},
	}

	tr, err := datasource.LoadTrace(context.Background(), tracePath, loadOpts)
	if err != nil {
		if errors.Is(err, model.ErrEmptyTrace) {
			fmt.Fprintf(os.Stderr, "Error: %s contains no usable intervals\n", tracePath)
		} else {
			fmt.Fprintf(os.Stderr, "Error loading trace: %v\n", err)
		}
		os.Exit(1)
	}

	// Headless snapshot export, usable from scripts and CI.
	if *exportFlag != "" || *exportBoth != "" {
		if err := runExport(tr, tracePath, *exportFlag, *exportBoth); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: stdout is not a terminal; use --export for non-interactive rendering")
		os.Exit(1)
	}

	m := ui.NewModel(tr, tracePath, appCfg)

	if appCfg.WatchEnabled() && !*noWatch {
		w, werr := watcher.New(tracePath, watcher.WithForcePoll(*pollFlag))
		if werr == nil {
			if serr := w.Start(); serr == nil {
				m = m.WithWatcher(w)
			}
		}
	}
	defer m.Stop()

	if err := runTUIProgram(m); err != nil {
		fmt.Printf("Error running trace viewer: %v\n", err)
		os.Exit(1)
	}
}

func unitFromConfig(cfg config.Config) model.Unit {
	if cfg.Trace.Unit == "us" {
		return model.UnitMicros
	}
	return model.UnitNanos
}

func runExport(tr *trace.Trace, tracePath, single, both string) error {
	opts := chart.SnapshotOptions{
		Title:     tracePath,
		Intervals: tr.Intervals,
		Unit:      tr.Unit,
		MinTime:   tr.MinTime,
		MaxTime:   tr.MaxTime,
	}
	if both != "" {
		return chart.SaveSnapshotBoth(both, opts)
	}
	opts.Path = single
	return chart.SaveSnapshot(opts)
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set TLV_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("TLV_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}
