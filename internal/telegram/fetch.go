package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// FileResolver maps a file id to a download URL. *tgbotapi.BotAPI
// implements it.
type FileResolver interface {
	GetFileDirectURL(fileID string) (string, error)
}

// Fetcher downloads attached media from the Bot API file storage.
type Fetcher struct {
	resolver FileResolver
	client   *http.Client
}

func NewFetcher(resolver FileResolver, client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{
			Timeout: 2 * time.Minute,
			Transport: &http.Transport{
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 30 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		}
	}
	return &Fetcher{resolver: resolver, client: client}
}

// Fetch writes the file identified by fileID to dst.
func (f *Fetcher) Fetch(ctx context.Context, fileID, dst string) error {
	link, err := f.resolver.GetFileDirectURL(fileID)
	if err != nil {
		return fmt.Errorf("resolve file %s: %w", fileID, stripURL(err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return fmt.Errorf("download file %s: invalid url", fileID)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("download file %s: %w", fileID, stripURL(err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("download file %s: bad status %s: %s", fileID, resp.Status, body)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return out.Close()
}

// stripURL drops the request URL from transport errors. Bot API URLs carry
// the bot token in their path.
func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}
