// Package image resolves, downloads, validates and stores candidate
// images, producing thumbnails that fit a bounding box. Every failure
// path degrades to "no image"; it never aborts the item being enriched.
package image

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/techpulse/newsfeed/internal/logger"
	"github.com/techpulse/newsfeed/internal/news"
	"github.com/techpulse/newsfeed/internal/retry"
)

// ObjectStore is the narrow contract the enricher needs from object
// storage.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
}

var rasterExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var extensionByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Options configures an Enricher.
type Options struct {
	MaxBytes       int64
	ThumbMaxWidth  int
	ThumbMaxHeight int
	AllowedSources []string // sources whose URLs skip the extension check
	Timeout        time.Duration
}

type Enricher struct {
	store          ObjectStore
	client         *http.Client
	maxBytes       int64
	thumbMaxWidth  int
	thumbMaxHeight int
	allowedSources []string
}

func New(store ObjectStore, opts Options) *Enricher {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 5 * 1024 * 1024
	}
	if opts.ThumbMaxWidth <= 0 {
		opts.ThumbMaxWidth = 400
	}
	if opts.ThumbMaxHeight <= 0 {
		opts.ThumbMaxHeight = 300
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}

	return &Enricher{
		store:          store,
		client:         &http.Client{Timeout: opts.Timeout},
		maxBytes:       opts.MaxBytes,
		thumbMaxWidth:  opts.ThumbMaxWidth,
		thumbMaxHeight: opts.ThumbMaxHeight,
		allowedSources: opts.AllowedSources,
	}
}

// ExtractURL picks the image URL for a candidate, or "" when none
// qualifies. URLs must either carry a known raster-image extension or
// come from an allow-listed source.
func (e *Enricher) ExtractURL(externalURL, sourceURL, source string) string {
	for _, candidate := range []string{externalURL, sourceURL} {
		if candidate == "" {
			continue
		}
		u, err := url.Parse(candidate)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			continue
		}
		if rasterExtensions[strings.ToLower(path.Ext(u.Path))] {
			return candidate
		}
		if e.sourceAllowed(source) && candidate == externalURL {
			return candidate
		}
	}
	return ""
}

func (e *Enricher) sourceAllowed(source string) bool {
	lower := strings.ToLower(source)
	for _, allowed := range e.allowedSources {
		if strings.Contains(lower, strings.ToLower(allowed)) {
			return true
		}
	}
	return false
}

// DownloadAndStore fetches the image, validates its size, uploads the
// original and a fitted thumbnail, and returns the asset. A nil result
// means "no image" and is not an error for the caller.
func (e *Enricher) DownloadAndStore(ctx context.Context, itemID, imageURL, altText string) *news.ImageAsset {
	if imageURL == "" || e.store == nil {
		return nil
	}

	data, contentType, ok := e.download(ctx, imageURL)
	if !ok {
		return nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		logger.Warn("image decode failed", "url", imageURL, "err", err)
		return nil
	}
	bounds := img.Bounds()

	ext := extensionByType[contentType]
	if ext == "" {
		ext = strings.ToLower(path.Ext(imageURL))
		if !rasterExtensions[ext] {
			ext = ".jpg"
		}
	}

	objectKey := fmt.Sprintf("articles/%s%s", itemID, ext)
	thumbKey := fmt.Sprintf("articles/%s_thumb.jpg", itemID)

	if err := e.upload(ctx, objectKey, data, contentType); err != nil {
		logger.Warn("image upload failed", "key", objectKey, "err", err)
		return nil
	}

	// "Max" resize mode: fit inside the bounding box, aspect preserved.
	thumb := imaging.Fit(img, e.thumbMaxWidth, e.thumbMaxHeight, imaging.Lanczos)
	var thumbBuf bytes.Buffer
	if err := imaging.Encode(&thumbBuf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		logger.Warn("thumbnail encode failed", "url", imageURL, "err", err)
		return nil
	}
	if err := e.upload(ctx, thumbKey, thumbBuf.Bytes(), "image/jpeg"); err != nil {
		logger.Warn("thumbnail upload failed", "key", thumbKey, "err", err)
		return nil
	}

	return &news.ImageAsset{
		FileName:       path.Base(objectKey),
		ContentType:    contentType,
		Size:           int64(len(data)),
		Width:          bounds.Dx(),
		Height:         bounds.Dy(),
		ObjectKey:      objectKey,
		ThumbObjectKey: thumbKey,
		PublicURL:      e.store.PublicURL(objectKey),
		ThumbURL:       e.store.PublicURL(thumbKey),
		AltText:        altText,
		UploadedAt:     time.Now().UTC(),
	}
}

// download returns the image bytes unless the response is empty,
// oversized or otherwise unusable.
func (e *Enricher) download(ctx context.Context, imageURL string) ([]byte, string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", false
	}

	resp, err := e.client.Do(req)
	if err != nil {
		logger.Warn("image download failed", "url", imageURL, "err", err)
		return nil, "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("image download status", "url", imageURL, "status", resp.StatusCode)
		return nil, "", false
	}
	if resp.ContentLength > e.maxBytes {
		logger.Warn("image exceeds size limit", "url", imageURL, "size", resp.ContentLength)
		return nil, "", false
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBytes+1))
	if err != nil {
		logger.Warn("image read failed", "url", imageURL, "err", err)
		return nil, "", false
	}
	if len(data) == 0 || int64(len(data)) > e.maxBytes {
		logger.Warn("image empty or oversized", "url", imageURL, "size", len(data))
		return nil, "", false
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, true
}

func (e *Enricher) upload(ctx context.Context, key string, data []byte, contentType string) error {
	return retry.Do(ctx, retry.Config{MaxAttempts: 2, Delay: 500 * time.Millisecond}, func() error {
		return e.store.Upload(ctx, key, data, contentType)
	})
}
