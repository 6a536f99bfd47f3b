package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewMockForTests returns a Store whose client talks to an in-memory fake
// transport. Only the calls the store issues are implemented: conditional
// PutObject, GetObject and ListObjectsV2.
func NewMockForTests() *Store {
	transport := &fakeBucket{objects: make(map[string][]byte)}
	cfg, _ := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: transport}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
	})
	return &Store{client: client, bucket: "mock-bucket"}
}

type fakeBucket struct {
	objects map[string][]byte
}

func (b *fakeBucket) RoundTrip(req *http.Request) (*http.Response, error) {
	key := objectKey(req.URL.Path)
	switch {
	case req.Method == http.MethodGet && strings.Contains(req.URL.RawQuery, "list-type=2"):
		return b.listResponse(req.URL.Query().Get("prefix")), nil
	case req.Method == http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if decoded, ok := decodeAWSChunked(body); ok {
			body = decoded
		}
		if _, taken := b.objects[key]; taken && req.Header.Get("If-None-Match") == "*" {
			return errorResponse(http.StatusPreconditionFailed, "PreconditionFailed"), nil
		}
		b.objects[key] = body
		return okResponse(nil, http.Header{"ETag": {`"etag"`}}), nil
	case req.Method == http.MethodGet:
		payload, ok := b.objects[key]
		if !ok {
			return errorResponse(http.StatusNotFound, "NoSuchKey"), nil
		}
		return okResponse(payload, http.Header{
			"Content-Type":   {"application/json"},
			"Content-Length": {fmt.Sprintf("%d", len(payload))},
			"Last-Modified":  {time.Now().UTC().Format(http.TimeFormat)},
		}), nil
	}
	return errorResponse(http.StatusNotImplemented, "NotImplemented"), nil
}

func (b *fakeBucket) listResponse(prefix string) *http.Response {
	keys := make([]string, 0, len(b.objects))
	for key := range b.objects {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	var xml strings.Builder
	xml.WriteString(`<?xml version="1.0"?><ListBucketResult><IsTruncated>false</IsTruncated>`)
	for _, key := range keys {
		fmt.Fprintf(&xml, "<Contents><Key>%s</Key><Size>%d</Size><LastModified>2024-01-01T00:00:00Z</LastModified></Contents>",
			key, len(b.objects[key]))
	}
	xml.WriteString("</ListBucketResult>")
	return okResponse([]byte(xml.String()), http.Header{"Content-Type": {"application/xml"}})
}

func objectKey(path string) string {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return ""
}

func okResponse(body []byte, header http.Header) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     header,
	}
}

func errorResponse(status int, code string) *http.Response {
	body := fmt.Sprintf(`<?xml version="1.0"?><Error><Code>%s</Code><Message>%s</Message></Error>`, code, code)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": {"application/xml"}},
	}
}

// decodeAWSChunked unwraps a single-chunk aws-chunked body:
// <hex size>\r\n<body>\r\n0\r\n…
func decodeAWSChunked(body []byte) ([]byte, bool) {
	parts := strings.Split(string(body), "\r\n")
	if len(parts) < 3 || parts[2] != "0" {
		return nil, false
	}
	size, err := parseHexSize(parts[0])
	if err != nil || int64(len(parts[1])) != size {
		return nil, false
	}
	return []byte(parts[1]), true
}

func parseHexSize(text string) (int64, error) {
	var size int64
	for _, c := range text {
		size <<= 4
		switch {
		case c >= '0' && c <= '9':
			size += int64(c - '0')
		case c >= 'a' && c <= 'f':
			size += int64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			size += int64(c-'A') + 10
		default:
			return 0, fmt.Errorf("invalid chunk size %q", text)
		}
	}
	return size, nil
}
