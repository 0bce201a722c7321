package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"git.sr.ht/~dvko/md2biki"
	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const usage = `md2biki - convert Markdown documents to Backlog wiki markup

Usage: md2biki [OPTIONS] <PATH>

Path:
	FILE	Converts a single .md file
	DIR	Converts every .md file below the directory
	-	Reads Markdown from stdin and writes the result to stdout
	=	Converts the contents of the clipboard in place

Options:
	-o, --output <DIR> Output directory (default: next to the input)
	-e, --ext <EXT> Output file extension (default: .biki)
	-q, --quiet Suppress informational messages
	-f, --front-matter Strip front matter before converting
	-w, --watch Keep converting files as they change
	-c, --config <CONFIG> Path to configuration file (default: md2biki.toml)
`

// swapped in tests
var (
	readClipboard  = clipboard.ReadAll
	writeClipboard = clipboard.WriteAll
)

// func to calculate and print execution time
func measure(name string) func() {
	start := time.Now()
	return func() {
		log.Info("%s execution time: %v\n", name, time.Since(start))
	}
}

func newConverter(cfg Config) *md2biki.Converter {
	return md2biki.New(md2biki.WithStripFrontMatter(cfg.StripFrontMatter))
}

func convertStdin(cfg Config, r io.Reader, w io.Writer) error {
	log.Info("Reading from stdin...\n")

	markdown, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	out, err := newConverter(cfg).ConvertBytes(markdown)
	if err != nil {
		return err
	}

	if _, err := w.Write(out); err != nil {
		return err
	}

	log.Info("Converted %s from stdin\n", humanize.Bytes(uint64(len(markdown))))
	return nil
}

func convertClipboard(cfg Config) error {
	log.Info("Reading from clipboard...\n")

	markdown, err := readClipboard()
	if err != nil {
		return fmt.Errorf("read clipboard: %w", err)
	}
	if markdown == "" {
		return errors.New("clipboard is empty")
	}

	out, err := newConverter(cfg).ConvertBytes([]byte(markdown))
	if err != nil {
		return err
	}

	if err := writeClipboard(string(out)); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}

	lines := strings.Split(string(out), "\n")
	preview := strings.Join(lines[:min(len(lines), 5)], "\n")
	if len(lines) > 5 {
		preview += "\n..."
	}
	log.Info("Saved conversion result to clipboard. Preview:\n%s\n", preview)
	return nil
}

// job is a single file conversion.
type job struct {
	src  string
	dest string
}

// convertFile converts src into dest and returns the number of bytes written.
func convertFile(conv *md2biki.Converter, j job) (int, error) {
	markdown, err := os.ReadFile(j.src)
	if err != nil {
		return 0, err
	}

	out, err := conv.ConvertBytes(markdown)
	if err != nil {
		return 0, err
	}

	if err := writeFile(j.dest, out); err != nil {
		return 0, err
	}

	return len(out), nil
}

// plan resolves path into conversion jobs. base is the directory output paths are made relative to.
func plan(path string, cfg Config) (jobs []job, base string, err error) {
	path, err = filepath.Abs(path)
	if err != nil {
		return nil, "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("path does not exist: %s", path)
	}

	var files []string
	if info.IsDir() {
		base = path
		files, err = collectMarkdownFiles(path, cfg.Ignore)
		if err != nil {
			return nil, "", err
		}
	} else {
		if !isMarkdown(path) {
			return nil, "", fmt.Errorf("input file must be a Markdown file (.md): %s", path)
		}
		base = filepath.Dir(path)
		files = []string{path}
	}

	outDir := cfg.Output
	if outDir != "" {
		if outDir, err = filepath.Abs(outDir); err != nil {
			return nil, "", err
		}
	}

	jobs = make([]job, 0, len(files))
	for _, f := range files {
		jobs = append(jobs, job{src: f, dest: outputPath(f, base, outDir, cfg.Ext)})
	}
	return jobs, base, nil
}

// convertJobs converts all jobs concurrently and returns the sources that failed.
func convertJobs(cfg Config, jobs []job) []string {
	defer measure("convertJobs")()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed []string
		total  int
	)

	wg.Add(len(jobs))
	for _, j := range jobs {
		go func(j job) {
			defer wg.Done()

			n, err := convertFile(newConverter(cfg), j)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Err("Error converting %s: %s\n", j.src, err)
				failed = append(failed, j.src)
				return
			}
			total += n
			log.Info("Converted %s → %s\n", j.src, j.dest)
		}(j)
	}
	wg.Wait()

	sort.Strings(failed)
	log.Info("Converted %s files (%s)\n", humanize.Comma(int64(len(jobs)-len(failed))), humanize.Bytes(uint64(total)))
	return failed
}

func watch(path string, cfg Config, base string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	dirs := []string{base}
	var only []string
	if abs != base {
		only = []string{abs}
	}

	outDir := cfg.Output
	if outDir != "" {
		if outDir, err = filepath.Abs(outDir); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info("Watching %s for changes\n", path)
	return watchPaths(ctx, dirs, cfg.Ignore, only, func(file string) {
		j := job{src: file, dest: outputPath(file, base, outDir, cfg.Ext)}
		if _, err := convertFile(newConverter(cfg), j); err != nil {
			log.Err("Error converting %s: %s\n", file, err)
			return
		}
		log.Info("Converted %s → %s\n", j.src, j.dest)
	})
}

// run converts path according to cfg and returns the process exit code.
func run(path string, cfg Config, watchMode bool, stdin io.Reader, stdout io.Writer) int {
	switch path {
	case "-":
		if err := convertStdin(cfg, stdin, stdout); err != nil {
			log.Err("%s\n", err)
			return 1
		}
		return 0
	case "=":
		if err := convertClipboard(cfg); err != nil {
			log.Err("%s\n", err)
			return 1
		}
		return 0
	}

	jobs, base, err := plan(path, cfg)
	if err != nil {
		log.Err("%s\n", err)
		return 1
	}

	if len(jobs) == 0 {
		log.Warn("No Markdown files found in %s\n", path)
		return 0
	}

	log.Info("Converting %s Markdown files\n", humanize.Comma(int64(len(jobs))))
	if failed := convertJobs(cfg, jobs); len(failed) > 0 {
		log.Err("%d files failed to convert:\n", len(failed))
		for _, f := range failed {
			log.Err("  - %s\n", f)
		}
		return 1
	}

	if watchMode {
		if err := watch(path, cfg, base); err != nil {
			log.Err("Error watching %s: %s\n", path, err)
			return 1
		}
	}

	return 0
}

func main() {
	cfg := defaultConfig()
	configFile := defaultConfigFile
	var (
		output           string
		ext              string
		quiet            bool
		stripFrontMatter bool
		watchMode        bool
	)

	// parse flags
	flag.StringVar(&configFile, "config", configFile, "")
	flag.StringVar(&configFile, "c", configFile, "")
	flag.StringVar(&output, "output", "", "")
	flag.StringVar(&output, "o", "", "")
	flag.StringVar(&ext, "ext", cfg.Ext, "")
	flag.StringVar(&ext, "e", cfg.Ext, "")
	flag.BoolVar(&quiet, "quiet", false, "")
	flag.BoolVar(&quiet, "q", false, "")
	flag.BoolVar(&stripFrontMatter, "front-matter", false, "")
	flag.BoolVar(&stripFrontMatter, "f", false, "")
	flag.BoolVar(&watchMode, "watch", false, "")
	flag.BoolVar(&watchMode, "w", false, "")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	path := flag.Arg(0)
	if path == "" {
		fmt.Print(usage)
		return
	}

	explicit := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "c" || f.Name == "config" {
			explicit = true
		}
	})
	if err := parseConfig(&cfg, configFile, explicit); err != nil {
		log.Fatal("Error reading configuration file at %s: %s\n", configFile, err)
	}

	// flags given on the command line win over the configuration file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o", "output":
			cfg.Output = output
		case "e", "ext":
			cfg.Ext = ext
		case "q", "quiet":
			cfg.Quiet = quiet
		case "f", "front-matter":
			cfg.StripFrontMatter = stripFrontMatter
		}
	})

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: %s\n", err)
	}
	log.quiet = cfg.Quiet

	os.Exit(run(path, cfg, watchMode, os.Stdin, os.Stdout))
}
