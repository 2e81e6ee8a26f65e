package upload_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-courseform/pkg/upload"
)

func TestHTTPTransportPostsMultipart(t *testing.T) {
	payload := strings.Repeat("v", 4096)
	var gotAuth, gotName, gotBody string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotName = header.Filename
		gotBody = string(data)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"data":{"url":"https://cdn/lesson.mp4","public_id":"lesson"}}`)
	}))
	defer srv.Close()

	transport := upload.NewHTTPTransport(srv.URL+"/media/upload", upload.WithUploadToken("secret"))

	var last int
	res, err := transport.Upload(context.Background(), upload.FileFromBytes("lesson.mp4", []byte(payload), "video/mp4"), func(p int) {
		if p < last {
			t.Errorf("progress went backwards: %d after %d", p, last)
		}
		last = p
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if diff := cmp.Diff(upload.Result{URL: "https://cdn/lesson.mp4", PublicID: "lesson"}, res); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if gotAuth != "Bearer secret" || gotName != "lesson.mp4" || gotBody != payload {
		t.Fatalf("server saw auth=%q name=%q body=%d bytes", gotAuth, gotName, len(gotBody))
	}
	if last != 100 {
		t.Fatalf("final progress = %d, want 100", last)
	}
}

func TestHTTPTransportRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		_, _ = io.WriteString(w, `{"success":false,"message":"file too large"}`)
	}))
	defer srv.Close()

	transport := upload.NewHTTPTransport(srv.URL)
	_, err := transport.Upload(context.Background(), upload.FileFromBytes("big.mp4", []byte("x"), ""), nil)
	if !errors.Is(err, upload.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if !strings.Contains(err.Error(), "file too large") {
		t.Fatalf("error should carry server message: %v", err)
	}
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = data
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3TransportPutsObject(t *testing.T) {
	client := &fakeS3{}
	transport := upload.NewS3Transport(client, "course-media",
		upload.WithKeyPrefix("/thumbnails/"),
		upload.WithRegion("eu-west-1"),
		upload.WithKeyGenerator(func(f upload.File) string { return "fixed.png" }),
	)

	var last int
	res, err := transport.Upload(context.Background(), upload.FileFromBytes("Cover.PNG", []byte("image-bytes"), ""), func(p int) { last = p })
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	want := upload.Result{
		URL:      "https://course-media.s3.eu-west-1.amazonaws.com/thumbnails/fixed.png",
		PublicID: "thumbnails/fixed.png",
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if aws.ToString(client.input.Bucket) != "course-media" || aws.ToInt64(client.input.ContentLength) != int64(len("image-bytes")) {
		t.Fatalf("unexpected input: bucket=%q length=%d", aws.ToString(client.input.Bucket), aws.ToInt64(client.input.ContentLength))
	}
	if aws.ToString(client.input.ContentType) != "image/png" {
		t.Fatalf("content type = %q", aws.ToString(client.input.ContentType))
	}
	if string(client.body) != "image-bytes" || last != 100 {
		t.Fatalf("body=%q progress=%d", client.body, last)
	}
}

func TestS3TransportPublicBaseURL(t *testing.T) {
	client := &fakeS3{}
	transport := upload.NewS3Transport(client, "course-media",
		upload.WithPublicBaseURL("https://cdn.example.com/"),
		upload.WithKeyGenerator(func(upload.File) string { return "k.mp4" }),
	)
	res, err := transport.Upload(context.Background(), upload.FileFromBytes("k.mp4", []byte("v"), ""), nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if res.URL != "https://cdn.example.com/k.mp4" {
		t.Fatalf("url = %q", res.URL)
	}
}

func TestS3TransportWrapsError(t *testing.T) {
	boom := errors.New("access denied")
	transport := upload.NewS3Transport(&fakeS3{err: boom}, "b")
	if _, err := transport.Upload(context.Background(), upload.FileFromBytes("a.mp4", []byte("v"), ""), nil); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
