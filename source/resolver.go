// Package source resolves manifest source references into field values.
//
// Two reference forms are supported: local file paths and s3://bucket/key
// object URIs. Both resolve to streaming source values that the multipart
// drainer pulls chunk by chunk, so large payloads are never materialized.
package source

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/justapithecus/formwire/types"
)

// Resolver opens source references. The zero value resolves local files;
// S3 references additionally need S3 configuration (or an injected client).
type Resolver struct {
	s3cfg S3Config
	s3    S3API // built lazily from s3cfg unless injected
}

// NewResolver creates a resolver with the given S3 configuration.
func NewResolver(s3cfg S3Config) *Resolver {
	return &Resolver{s3cfg: s3cfg}
}

// WithS3Client injects an S3 client, bypassing lazy construction.
// Used by tests to stub the S3 API.
func (r *Resolver) WithS3Client(api S3API) *Resolver {
	r.s3 = api
	return r
}

// Open resolves ref into a streaming source value.
//
// The caller owns the returned value's reader lifetime; draining it to
// exhaustion through the multipart producer is the normal path.
func (r *Resolver) Open(ctx context.Context, ref string) (types.Value, error) {
	if strings.HasPrefix(ref, s3Scheme) {
		return r.openS3(ctx, ref)
	}
	return openFile(ref)
}

// openFile opens a local file source. The filename defaults to the path
// basename and the content type is sniffed from the extension.
func openFile(path string) (types.Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Value{}, fmt.Errorf("source: open %q: %w", path, err)
	}

	opts := []types.SourceOpt{types.WithFilename(filepath.Base(path))}
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		opts = append(opts, types.WithContentType(ct))
	}
	return types.Source(f, opts...), nil
}
