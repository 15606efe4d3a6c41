// Package ingest provides raw tabular source providers for CSV, XLSX and
// FIT inputs. Every provider exposes the same bounded preview/chunk shape,
// so schema detection and normalization never see the file format.
package ingest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pulsewatch/pulsewatch/internal/contract"
)

// DiscoverSources resolves an input path to its tabular sources. A file maps
// to its format's provider(s); a directory is walked recursively for
// supported extensions, in sorted path order. A missing path is the only
// fatal condition.
func DiscoverSources(path string) ([]contract.Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("input path not found: %s", path)
	}
	if !info.IsDir() {
		return sourcesForFile(path), nil
	}

	var paths []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			contract.LogWarn(fmt.Sprintf("could not walk %s", p), walkErr)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".csv", ".xlsx", ".fit":
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var sources []contract.Source
	for _, p := range paths {
		sources = append(sources, sourcesForFile(p)...)
	}
	return sources, nil
}

// sourcesForFile maps one file to its providers. A FIT activity contributes
// two sources (record samples and session intervals); everything else,
// including unknown extensions, reads as CSV since plain-text exports often
// carry odd suffixes.
func sourcesForFile(path string) []contract.Source {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return []contract.Source{NewExcelSource(path)}
	case ".fit":
		return []contract.Source{
			NewFITSource(path, FITRecords),
			NewFITSource(path, FITSessions),
		}
	default:
		return []contract.Source{NewCSVSource(path)}
	}
}
