package trace

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"github.com/standardbeagle/apisan/internal/diag"
	"github.com/viant/afs"
)

const (
	sigBegin = "@SYM_EXEC_EXTRACTOR_BEGIN"
	sigEnd   = "@SYM_EXEC_EXTRACTOR_END"

	// oneGiB is the framed-body size above which a block is skipped with a
	// warning rather than parsed (spec.md §4.1): the upstream extractor
	// occasionally emits oversized dumps that aren't worth the memory to
	// hold as one string.
	oneGiB = 1 << 30
)

// Reader reads trace files through an afs.Service so a corpus staged on
// object storage (the extractor's output is frequently archived to S3/GCS
// in CI) can be scanned the same way as a local directory -- the default
// Service is afs.New(), which also handles the plain local filesystem.
type Reader struct {
	fs afs.Service
}

// NewReader returns a Reader backed by the given afs.Service. Passing nil
// defaults to afs.New().
func NewReader(fs afs.Service) *Reader {
	if fs == nil {
		fs = afs.New()
	}
	return &Reader{fs: fs}
}

// ReadFile scans the file at url line by line for
// @SYM_EXEC_EXTRACTOR_BEGIN/_END framed regions and decodes every framed
// body found into its forest of ExecTrees. A parse error on one framed body
// discards that block only (spec.md §7 kind 2/3); an I/O error on the file
// itself is returned so the caller can log it and move on (spec.md §7 kind
// 1).
func (r *Reader) ReadFile(ctx context.Context, url string) ([]*ExecTree, error) {
	content, err := r.fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, err
	}

	var trees []*ExecTree
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), oneGiB+1024)

	var inBlock bool
	var body strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, sigBegin):
			inBlock = true
			body.Reset()
		case inBlock && strings.HasPrefix(line, sigEnd):
			inBlock = false
			trees = append(trees, r.decodeBlock(url, body.String())...)
		case inBlock:
			body.WriteString(line)
			body.WriteByte('\n')
		}
	}
	if err := scanner.Err(); err != nil {
		return trees, err
	}
	return trees, nil
}

func (r *Reader) decodeBlock(url, body string) []*ExecTree {
	if len(body) > oneGiB {
		diag.LogTrace("ignoring oversized block (%d bytes) in %s", len(body), url)
		return nil
	}
	trees, err := DecodeForest(body)
	if err != nil {
		diag.LogTrace("discarding malformed block in %s: %v", url, err)
		return nil
	}
	return trees
}
