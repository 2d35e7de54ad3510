// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package io

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Constants for S3 configuration options.
const (
	S3Region                 = "s3.region"
	S3SessionToken           = "s3.session-token"
	S3SecretAccessKey        = "s3.secret-access-key"
	S3AccessKeyID            = "s3.access-key-id"
	S3EndpointURL            = "s3.endpoint"
	S3ForceVirtualAddressing = "s3.force-virtual-addressing"
)

// ParseAWSConfig parses S3 properties and returns an AWS configuration.
func ParseAWSConfig(ctx context.Context, props map[string]string) (*aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{}

	if region, ok := props[S3Region]; ok {
		opts = append(opts, awsconfig.WithRegion(region))
	} else if region, ok := props["client.region"]; ok {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	accessKey, secretAccessKey := props[S3AccessKeyID], props[S3SecretAccessKey]
	token := props[S3SessionToken]
	if accessKey != "" || secretAccessKey != "" || token != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretAccessKey, token)))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func createS3FileIO(ctx context.Context, parsed *url.URL, props map[string]string) (IO, error) {
	cfg, err := ParseAWSConfig(ctx, props)
	if err != nil {
		return nil, err
	}

	endpoint := props[S3EndpointURL]
	usePathStyle := true
	if v, ok := props[S3ForceVirtualAddressing]; ok {
		if forceVirtual, err := strconv.ParseBool(v); err == nil {
			usePathStyle = !forceVirtual
		}
	}

	client := s3.NewFromConfig(*cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = usePathStyle
	})

	return &s3FS{client: client, bucket: parsed.Host, ctx: ctx}, nil
}

// s3FS implements IO and WriteFileIO backed by an S3 bucket. Random
// access reads are served with ranged GETs so that a deletion vector
// can be fetched without downloading the rest of the object.
type s3FS struct {
	client *s3.Client
	bucket string
	ctx    context.Context
}

func (f *s3FS) keyFor(name string) (string, error) {
	if strings.Contains(name, "://") {
		parsed, err := url.Parse(name)
		if err != nil {
			return "", err
		}
		if parsed.Host != f.bucket {
			return "", fmt.Errorf("bucket mismatch: expected %s, got %s", f.bucket, parsed.Host)
		}

		return strings.TrimPrefix(parsed.Path, "/"), nil
	}

	return strings.TrimPrefix(name, "/"), nil
}

func (f *s3FS) Open(name string) (File, error) {
	key, err := f.keyFor(name)
	if err != nil {
		return nil, err
	}

	head, err := f.client.HeadObject(f.ctx, &s3.HeadObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("open s3://%s/%s: %w", f.bucket, key, err)
	}

	return &s3File{fs: f, key: key, size: aws.ToInt64(head.ContentLength)}, nil
}

func (f *s3FS) Create(name string) (FileWriter, error) {
	key, err := f.keyFor(name)
	if err != nil {
		return nil, err
	}

	return &s3FileWriter{fs: f, key: key}, nil
}

func (f *s3FS) WriteFile(name string, content []byte) error {
	key, err := f.keyFor(name)
	if err != nil {
		return err
	}

	_, err = f.client.PutObject(f.ctx, &s3.PutObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(content),
	})
	if err != nil {
		return fmt.Errorf("write s3://%s/%s: %w", f.bucket, key, err)
	}

	return nil
}

func (f *s3FS) Remove(name string) error {
	key, err := f.keyFor(name)
	if err != nil {
		return err
	}

	_, err = f.client.DeleteObject(f.ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})

	return err
}

// s3File serves reads against a single object. Sequential reads share
// the random access path, tracking the position locally.
type s3File struct {
	fs   *s3FS
	key  string
	size int64
	pos  int64
}

func (f *s3File) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, &fs.PathError{Op: "readAt", Path: f.key, Err: fs.ErrInvalid}
	}
	if off >= f.size {
		return 0, io.EOF
	}

	end := off + int64(len(p)) - 1
	if end >= f.size {
		end = f.size - 1
	}

	out, err := f.fs.client.GetObject(f.fs.ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.fs.bucket),
		Key:    aws.String(f.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", off, end)),
	})
	if err != nil {
		return 0, fmt.Errorf("read s3://%s/%s: %w", f.fs.bucket, f.key, err)
	}
	defer out.Body.Close()

	n, err := io.ReadFull(out.Body, p[:end-off+1])
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return n, err
	}
	if off+int64(n) >= f.size && n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

func (f *s3File) Read(p []byte) (int, error) {
	n, err := f.ReadAt(p, f.pos)
	f.pos += int64(n)

	return n, err
}

func (f *s3File) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = f.pos + offset
	case io.SeekEnd:
		next = f.size + offset
	default:
		return 0, &fs.PathError{Op: "seek", Path: f.key, Err: fs.ErrInvalid}
	}
	if next < 0 {
		return 0, &fs.PathError{Op: "seek", Path: f.key, Err: fs.ErrInvalid}
	}
	f.pos = next

	return next, nil
}

func (f *s3File) Close() error { return nil }

func (f *s3File) Stat() (fs.FileInfo, error) {
	return s3FileInfo{key: f.key, size: f.size}, nil
}

type s3FileInfo struct {
	key  string
	size int64
}

func (fi s3FileInfo) Name() string       { return fi.key }
func (fi s3FileInfo) Size() int64        { return fi.size }
func (fi s3FileInfo) Mode() fs.FileMode  { return fs.ModeIrregular }
func (fi s3FileInfo) ModTime() time.Time { return time.Time{} }
func (fi s3FileInfo) IsDir() bool        { return false }
func (fi s3FileInfo) Sys() any           { return nil }

// s3FileWriter buffers locally and uploads on Close, matching the
// all-or-nothing visibility the rest of the module assumes.
type s3FileWriter struct {
	fs  *s3FS
	key string
	buf bytes.Buffer
}

func (w *s3FileWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *s3FileWriter) Close() error {
	return w.fs.WriteFile(w.key, w.buf.Bytes())
}
