package main

import (
	"io"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"texprose/internal/logger"
	"texprose/internal/types"
)

// stdinName names standard input in FILES and in output.
const stdinName = "-"

// input is one text to process.
type input struct {
	name string
	text string
}

// expandPatterns resolves every argument as a doublestar glob. "-" stands for
// standard input and no arguments at all means standard input only.
func expandPatterns(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return []string{stdinName}, nil
	}

	var paths []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		if pattern == stdinName {
			paths = append(paths, stdinName)
			continue
		}
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, types.NewAppErrorWithDetails(types.ErrInvalidInput, "invalid file pattern", pattern, doublestar.ErrBadPattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, types.NewAppErrorWithDetails(types.ErrInvalidInput, "invalid file pattern", pattern, err)
		}
		if len(matches) == 0 {
			return nil, types.NewAppErrorWithDetails(types.ErrFileNotFound, "no such file", pattern, nil)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

// readInputs loads every file named by patterns.
func readInputs(patterns []string, stdin io.Reader) ([]input, error) {
	paths, err := expandPatterns(patterns)
	if err != nil {
		return nil, err
	}

	inputs := make([]input, 0, len(paths))
	stdinRead := false
	for _, path := range paths {
		if path == stdinName {
			if stdinRead {
				continue
			}
			stdinRead = true
			data, err := io.ReadAll(stdin)
			if err != nil {
				return nil, types.NewAppError(types.ErrIO, "failed to read standard input", err)
			}
			inputs = append(inputs, input{name: stdinName, text: string(data)})
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("failed to read input", err, logger.String("path", path))
			return nil, types.NewAppErrorWithDetails(types.ErrIO, "failed to read input", path, err)
		}
		logger.Debug("input loaded", logger.String("path", path), logger.Int("bytes", len(data)))
		inputs = append(inputs, input{name: path, text: string(data)})
	}
	return inputs, nil
}
