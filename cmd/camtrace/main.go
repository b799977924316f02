// Package main provides a CLI that replays recorded camera control input traces and
// prints the resulting camera poses as YAML.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Carmen-Shannon/oxy-controls/engine/config"
	"github.com/Carmen-Shannon/oxy-controls/engine/replay"
	"gopkg.in/yaml.v3"
)

func main() {
	var settingsPath string
	var outPath string
	var workers int

	flag.StringVar(&settingsPath, "settings", "", "settings file whose orbit and pointer_lock sections replace each trace's")
	flag.StringVar(&outPath, "o", "", "write results to this file instead of stdout")
	flag.IntVar(&workers, "workers", runtime.NumCPU(), "maximum concurrent replays")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: camtrace [flags] trace.yaml [more traces or globs...]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	paths, err := expand(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	traces := make([]replay.Trace, 0, len(paths))
	for _, p := range paths {
		tr, err := replay.LoadTrace(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		traces = append(traces, tr)
	}

	if settingsPath != "" {
		s, err := config.Load(settingsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for i := range traces {
			traces[i].Orbit = s.Orbit
			traces[i].PointerLock = s.PointerLock
		}
	}

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	failed := 0
	results := make([]replay.Result, 0, len(traces))
	for i, o := range replay.RunBatch(traces, workers) {
		if o.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", paths[i], o.Err)
			failed++
			continue
		}
		results = append(results, o.Result)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(results); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode results: %v\n", err)
		os.Exit(1)
	}
	if err := enc.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode results: %v\n", err)
		os.Exit(1)
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d traces failed\n", failed, len(traces))
		os.Exit(1)
	}
}

// expand resolves glob patterns; arguments without glob metacharacters are kept as-is so a
// missing file is reported by the loader.
func expand(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			paths = append(paths, arg)
			continue
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}
