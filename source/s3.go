package source

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/justapithecus/formwire/types"
)

// s3Scheme prefixes S3 object references.
const s3Scheme = "s3://"

// S3Config holds configuration for the S3 source backend.
type S3Config struct {
	// Region is the AWS region (optional, uses default chain if empty).
	Region string
	// Endpoint is a custom S3 endpoint URL for S3-compatible providers
	// (e.g. Cloudflare R2, MinIO). Empty uses the default AWS endpoint.
	Endpoint string
	// UsePathStyle forces path-style addressing (bucket in path, not
	// subdomain). Required by most S3-compatible providers.
	UsePathStyle bool
}

// S3API is the subset of the S3 client needed to open object sources.
// Tests stub this interface.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// ParseS3URI splits an s3://bucket/key reference.
func ParseS3URI(ref string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(ref, s3Scheme)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("source: invalid S3 reference %q (want s3://bucket/key)", ref)
	}
	return bucket, key, nil
}

// openS3 opens an S3 object as a streaming source. The object body is the
// source reader; the key basename is the default filename and the stored
// object content type is carried through when present.
func (r *Resolver) openS3(ctx context.Context, ref string) (types.Value, error) {
	bucket, key, err := ParseS3URI(ref)
	if err != nil {
		return types.Value{}, err
	}

	api, err := r.client(ctx)
	if err != nil {
		return types.Value{}, err
	}

	out, err := api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return types.Value{}, fmt.Errorf("source: get %s: %w", ref, err)
	}
	if out.Body == nil {
		return types.Value{}, errors.New("source: S3 object has no body")
	}

	opts := []types.SourceOpt{types.WithFilename(path.Base(key))}
	if out.ContentType != nil && *out.ContentType != "" {
		opts = append(opts, types.WithContentType(*out.ContentType))
	}
	return types.Source(out.Body, opts...), nil
}

// client returns the injected S3 client or builds one from configuration.
// Uses the AWS SDK default credential chain (env vars, shared config,
// IAM role).
func (r *Resolver) client(ctx context.Context) (S3API, error) {
	if r.s3 != nil {
		return r.s3, nil
	}

	var opts []func(*config.LoadOptions) error
	if r.s3cfg.Region != "" {
		opts = append(opts, config.WithRegion(r.s3cfg.Region))
	}
	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("source: load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if r.s3cfg.Endpoint != "" {
		endpoint := r.s3cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
		})
	}
	if r.s3cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	r.s3 = s3.NewFromConfig(awsConfig, s3Opts...)
	return r.s3, nil
}
