package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const defaultFormField = "file"

// HTTPTransport posts files as multipart/form-data to a media endpoint that
// answers with {"success": bool, "data": {"url", "public_id"}}.
type HTTPTransport struct {
	endpoint string
	client   *http.Client
	token    string
	field    string
}

// HTTPOption customises an HTTPTransport.
type HTTPOption func(*HTTPTransport)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(t *HTTPTransport) {
		if client != nil {
			t.client = client
		}
	}
}

// WithUploadToken sends token as a bearer credential.
func WithUploadToken(token string) HTTPOption {
	return func(t *HTTPTransport) {
		t.token = token
	}
}

// WithFormField changes the multipart field carrying the file.
func WithFormField(name string) HTTPOption {
	return func(t *HTTPTransport) {
		if name != "" {
			t.field = name
		}
	}
}

// NewHTTPTransport targets endpoint, e.g. https://api.example.com/media/upload.
func NewHTTPTransport(endpoint string, opts ...HTTPOption) *HTTPTransport {
	t := &HTTPTransport{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Minute},
		field:    defaultFormField,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

type uploadEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    Result `json:"data"`
}

// Upload implements Transport.
func (t *HTTPTransport) Upload(ctx context.Context, file File, progress func(percent int)) (Result, error) {
	src, err := file.Open()
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	pr, pw := io.Pipe()
	defer pr.Close()
	form := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeMultipart(form, t.field, file, newProgressReader(src, file.Size(), progress)))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, pr)
	if err != nil {
		return Result{}, fmt.Errorf("upload: build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("upload: post %s: %w", t.endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("upload: read response: %w", err)
	}

	var envelope uploadEnvelope
	if len(body) > 0 {
		if err := json.Unmarshal(body, &envelope); err != nil && resp.StatusCode < 300 {
			return Result{}, fmt.Errorf("upload: decode response: %w", err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !envelope.Success {
		msg := envelope.Message
		if msg == "" {
			msg = strings.TrimSpace(http.StatusText(resp.StatusCode))
		}
		return Result{}, fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, msg)
	}
	if envelope.Data.URL == "" {
		return Result{}, fmt.Errorf("%w: response carried no url", ErrRejected)
	}
	return envelope.Data, nil
}

func writeMultipart(form *multipart.Writer, field string, file File, body io.Reader) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, file.Name()))
	header.Set("Content-Type", file.ContentType())

	part, err := form.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, body); err != nil {
		return err
	}
	return form.Close()
}
