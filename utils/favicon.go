package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Favicon payloads arrive as data URLs from the extension. They are decoded,
// checked against an allow-list of image formats via signature bytes, and
// only the validated raw payload plus MIME tag reaches the store.

var allowedFaviconMimes = map[string]bool{
	"image/png":     true,
	"image/jpeg":    true,
	"image/gif":     true,
	"image/webp":    true,
	"image/x-icon":  true,
	"image/svg+xml": true,
}

var faviconMagicBytes = map[string][][]byte{
	"image/png":    {[]byte("\x89PNG")},
	"image/jpeg":   {{0xff, 0xd8, 0xff}},
	"image/gif":    {[]byte("GIF87a"), []byte("GIF89a")},
	"image/x-icon": {{0x00, 0x00, 0x01, 0x00}},
}

var ErrNotDataURL = errors.New("favicon must be a data URL in the format data:{mime};base64,{data}")

// ParseFaviconDataURL validates and decodes a favicon data URL, returning the
// raw payload and MIME tag.
func ParseFaviconDataURL(dataURL string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return nil, "", ErrNotDataURL
	}
	header, encoded, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", ErrNotDataURL
	}
	mime, enc, ok := strings.Cut(header, ";")
	if !ok || enc != "base64" || mime == "" {
		return nil, "", ErrNotDataURL
	}

	if !allowedFaviconMimes[mime] {
		allowed := make([]string, 0, len(allowedFaviconMimes))
		for m := range allowedFaviconMimes {
			allowed = append(allowed, m)
		}
		sort.Strings(allowed)
		return nil, "", fmt.Errorf("unsupported MIME type %q, allowed: %s", mime, strings.Join(allowed, ", "))
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", errors.New("invalid base64 encoding in favicon data URL")
	}
	if len(raw) == 0 {
		return nil, "", errors.New("favicon data is empty")
	}

	if err := sniffFavicon(raw, mime); err != nil {
		return nil, "", err
	}
	return raw, mime, nil
}

func sniffFavicon(raw []byte, mime string) error {
	switch mime {
	case "image/svg+xml":
		text := strings.TrimPrefix(string(raw), "\uFEFF")
		if !strings.Contains(strings.ToLower(text), "<svg") {
			return errors.New("SVG favicon does not contain <svg element")
		}
	case "image/webp":
		if len(raw) < 12 {
			return errors.New("WEBP data too short")
		}
		if string(raw[0:4]) != "RIFF" || string(raw[8:12]) != "WEBP" {
			return errors.New("invalid WEBP magic bytes")
		}
	default:
		for _, magic := range faviconMagicBytes[mime] {
			if len(raw) >= len(magic) && string(raw[:len(magic)]) == string(magic) {
				return nil
			}
		}
		return fmt.Errorf("favicon binary content does not match declared MIME type %q", mime)
	}
	return nil
}

// FaviconDataURL re-encodes a stored payload as a data URL for responses.
// Returns nil when the bookmark has no favicon.
func FaviconDataURL(raw []byte, mime string) *string {
	if len(raw) == 0 || mime == "" {
		return nil
	}
	url := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw)
	return &url
}
