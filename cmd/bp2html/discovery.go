package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	bp2html "github.com/alnah/go-bp2html"
	"github.com/alnah/go-bp2html/internal/config"
	"github.com/alnah/go-bp2html/internal/fileutil"
)

// Sentinel errors for input discovery.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrNoBlueprints       = errors.New("no blueprint files found")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrStdioBatch         = errors.New("standard input cannot be combined with other inputs")
)

// blueprintExts are the extensions picked up when an input is a directory.
var blueprintExts = map[string]bool{
	".apib": true,
	".md":   true,
}

// discoverJobs expands inputs into render jobs. Directories are walked for
// blueprint files; partials named _*.apib are skipped since they are only
// meant to be included. ext is the extension of derived output names.
func discoverJobs(inputs []string, outputDir, ext string) ([]bp2html.Job, error) {
	var jobs []bp2html.Job

	for _, in := range inputs {
		if in == bp2html.Stdio {
			if len(inputs) > 1 {
				return nil, ErrStdioBatch
			}
			return []bp2html.Job{{Input: bp2html.Stdio, Output: bp2html.Stdio}}, nil
		}

		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", bp2html.ErrReadInput, err)
		}

		if !info.IsDir() {
			jobs = append(jobs, bp2html.Job{Input: in, Output: resolveOutputPath(in, outputDir, "", ext)})
			continue
		}

		found := 0
		err = filepath.WalkDir(in, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() || !isBlueprint(path) {
				return nil
			}
			jobs = append(jobs, bp2html.Job{Input: path, Output: resolveOutputPath(path, outputDir, in, ext)})
			found++
			return nil
		})
		if err != nil {
			return nil, err
		}
		if found == 0 {
			return nil, fmt.Errorf("%w in %s", ErrNoBlueprints, in)
		}
	}

	return jobs, nil
}

// isBlueprint reports whether path is a renderable blueprint file.
func isBlueprint(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "_") {
		return false
	}
	return blueprintExts[strings.ToLower(filepath.Ext(base))]
}

// resolveOutputPath determines the output path for a blueprint file.
// Without outputDir the output sits next to the input. Inputs found under
// baseInputDir keep their relative directory inside outputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir, ext string) string {
	name := fileutil.ReplaceExt(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}

	if baseInputDir != "" {
		if relPath, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), name)
		}
	}

	return filepath.Join(outputDir, name)
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}
