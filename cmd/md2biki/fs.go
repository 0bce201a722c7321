package main

import (
	"context"
	"github.com/fsnotify/fsnotify"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

func isMarkdown(file string) bool {
	return strings.EqualFold(filepath.Ext(file), ".md")
}

// collectMarkdownFiles returns every Markdown file below root, skipping directories named in ignore.
func collectMarkdownFiles(root string, ignore []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && slices.Contains(ignore, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if isMarkdown(path) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// outputPath returns where the converted version of file is written.
// Without an output directory the extension is appended to the input file name,
// otherwise the layout relative to base is mirrored below outDir.
func outputPath(file string, base string, outDir string, ext string) string {
	if outDir == "" {
		return file + ext
	}

	rel, err := filepath.Rel(base, file)
	if err != nil {
		rel = filepath.Base(file)
	}

	return filepath.Join(outDir, strings.TrimSuffix(rel, filepath.Ext(rel))+ext)
}

// watchPaths calls cb with the path of every Markdown file that is written below dirs,
// until ctx is cancelled. If only is not empty, files outside of it are ignored.
func watchPaths(ctx context.Context, dirs []string, ignore []string, only []string, cb func(file string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, p := range dirs {
		if err := filepath.WalkDir(p, func(f string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if f != p && slices.Contains(ignore, d.Name()) {
				return filepath.SkipDir
			}

			return watcher.Add(f)
		}); err != nil {
			return err
		}
	}

	// editors tend to write a file several times in a row
	triggered := map[string]time.Time{}
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("Error watching files: %s\n", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !isMarkdown(event.Name) || (len(only) > 0 && !slices.Contains(only, event.Name)) {
				continue
			}
			if time.Since(triggered[event.Name]) < 1*time.Second {
				continue
			}

			time.Sleep(100 * time.Millisecond)
			triggered[event.Name] = time.Now()
			cb(event.Name)
		}
	}
}

func writeFile(dest string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	return os.WriteFile(dest, content, 0644)
}
