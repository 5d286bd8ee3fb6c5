// Package ivr talks to the Yemot telephony platform: file uploads into IVR
// mailboxes and tzintuk call-outs.
package ivr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// UploadResult is the platform's raw answer to an upload. The body is not
// interpreted.
type UploadResult struct {
	Path         string
	Status       int
	Body         string
	CalloutFired bool
}

// CalloutRequest describes a tzintuk: a short ring to a phone list.
type CalloutRequest struct {
	CallerID    string
	Phones      string
	RingSeconds int
}

type Client struct {
	token       string
	uploadURL   string
	calloutURL  string
	http        *http.Client
	calloutHTTP *http.Client
}

// NewClient builds a client. httpClient is used for uploads and may be nil;
// call-outs use their own client with calloutTimeout.
func NewClient(token, uploadURL, calloutURL string, httpClient *http.Client, calloutTimeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if calloutTimeout <= 0 {
		calloutTimeout = 10 * time.Second
	}
	return &Client{
		token:       token,
		uploadURL:   uploadURL,
		calloutURL:  calloutURL,
		http:        httpClient,
		calloutHTTP: &http.Client{Timeout: calloutTimeout, Transport: httpClient.Transport},
	}
}

// Upload posts the file at filePath into the mailbox path, asking the
// platform to convert the audio and number the file automatically.
func (c *Client) Upload(ctx context.Context, filePath, path string) (UploadResult, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return UploadResult{}, fmt.Errorf("open %s: %w", filePath, err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	fields := [][2]string{
		{"token", c.token},
		{"path", path},
		{"convertAudio", "1"},
		{"autoNumbering", "true"},
	}
	for _, f := range fields {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return UploadResult{}, fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return UploadResult{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return UploadResult{}, fmt.Errorf("copy file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload to %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("read upload response: %w", err)
	}
	return UploadResult{Path: path, Status: resp.StatusCode, Body: string(respBody)}, nil
}

// Callout triggers a tzintuk and returns the raw response body.
func (c *Client) Callout(ctx context.Context, r CalloutRequest) (string, error) {
	form := url.Values{}
	form.Set("token", c.token)
	form.Set("phones", r.Phones)
	if r.CallerID != "" {
		form.Set("callerId", r.CallerID)
	}
	if r.RingSeconds > 0 {
		form.Set("TzintukTimeOut", strconv.Itoa(r.RingSeconds))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.calloutURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.calloutHTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("callout: %w", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read callout response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return string(b), fmt.Errorf("callout: status %s", resp.Status)
	}
	return string(b), nil
}
