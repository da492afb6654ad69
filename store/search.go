package store

import (
	"context"
	"strconv"
	"strings"
)

// SearchOptions controls a Search invocation.
type SearchOptions struct {
	IgnoreCase bool
	PathFilter string
	// MaxResults, if > 0, bounds the dispatcher's line-count cancellation
	// and stops accumulation across the store once more than MaxResults
	// results are collected, so up to MaxResults+1 results are returned.
	MaxResults int
}

// SearchResult is a single parsed match line.
type SearchResult struct {
	File string
	Line int
	Text string
}

// Search dispatches the searcher against every index file in the store and
// aggregates hits in store-directory iteration order — never re-sorted by
// relevance.
func (c *Context) Search(ctx context.Context, pattern string, opts SearchOptions) ([]SearchResult, error) {
	argv := []string{c.SearcherPath}
	if opts.PathFilter != "" {
		argv = append(argv, "-f", opts.PathFilter)
	}
	if opts.IgnoreCase {
		argv = append(argv, "-i")
	}
	argv = append(argv, "-n", pattern)

	files, err := c.Indices()
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	for _, f := range files {
		res, err := c.dispatcher.Run(ctx, argv, f, opts.MaxResults, opts.MaxResults)
		if err != nil {
			return nil, err
		}
		for _, line := range res.Stdout {
			sr, ok := c.parseResultLine(line)
			if !ok {
				continue
			}
			results = append(results, sr)
			if opts.MaxResults > 0 && len(results) > opts.MaxResults {
				return results, nil
			}
		}
	}
	return results, nil
}

// parseResultLine parses a single "path:line:text\n" line from the
// searcher's stdout. Malformed lines are dropped silently; a non-integer
// line number is logged and the line skipped.
func (c *Context) parseResultLine(line []byte) (SearchResult, bool) {
	s := strings.TrimSpace(string(line))
	if s == "" || !strings.HasPrefix(s, "/") {
		return SearchResult{}, false
	}
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return SearchResult{}, false
	}
	lineNum, err := strconv.Atoi(parts[1])
	if err != nil {
		if c.Logger != nil {
			c.Logger.Warn("search: skipping result with non-integer line number", "line", s, "error", err)
		}
		return SearchResult{}, false
	}
	return SearchResult{File: parts[0], Line: lineNum, Text: parts[2]}, true
}
