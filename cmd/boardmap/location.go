package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hupe1980/boardmap/blobstore"
	"github.com/hupe1980/boardmap/blobstore/minio"
	"github.com/hupe1980/boardmap/blobstore/s3"
)

// Environment variables holding MinIO credentials.
const (
	envMinioAccessKey = "MINIO_ACCESS_KEY"
	envMinioSecretKey = "MINIO_SECRET_KEY"
	envMinioSecure    = "MINIO_SECURE"
)

// location is a package address split into a store and a blob name.
type location struct {
	store blobstore.BlobStore
	name  string
}

// resolveLocation parses a package address:
//
//	./out/board.bmpk                      local file
//	s3://bucket/prefix/board.bmpk         S3, default AWS config chain
//	minio://host:9000/bucket/board.bmpk   MinIO, credentials from the environment
func resolveLocation(ctx context.Context, loc string) (*location, error) {
	scheme, rest, ok := strings.Cut(loc, "://")
	if !ok {
		dir, name := filepath.Split(loc)
		if name == "" {
			return nil, fmt.Errorf("package path %q has no file name", loc)
		}
		if dir == "" {
			dir = "."
		}
		return &location{store: blobstore.NewLocalStore(dir), name: name}, nil
	}

	u, err := url.Parse(loc)
	if err != nil {
		return nil, fmt.Errorf("parse package location: %w", err)
	}

	switch scheme {
	case "s3":
		prefix, name := path.Split(strings.TrimPrefix(u.Path, "/"))
		if u.Host == "" || name == "" {
			return nil, fmt.Errorf("s3 location %q must be s3://bucket/key", loc)
		}
		store, err := s3.New(ctx, u.Host, s3.WithPrefix(prefix))
		if err != nil {
			return nil, err
		}
		return &location{store: store, name: name}, nil
	case "minio":
		bucket, key, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		prefix, name := path.Split(key)
		if u.Host == "" || bucket == "" || name == "" {
			return nil, fmt.Errorf("minio location %q must be minio://endpoint/bucket/key (got %s)", loc, rest)
		}
		store, err := minio.New(minio.Config{
			Endpoint:  u.Host,
			AccessKey: os.Getenv(envMinioAccessKey),
			SecretKey: os.Getenv(envMinioSecretKey),
			Secure:    os.Getenv(envMinioSecure) == "true",
		}, bucket, prefix)
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		return &location{store: store, name: name}, nil
	default:
		return nil, fmt.Errorf("unsupported package location scheme %q", scheme)
	}
}
