package domain

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"
)

// ErrInvalidReviewLink is returned for links that are not absolute http(s) URLs.
var (
	// ErrInvalidReviewLink is returned for links that are not absolute http(s) URLs.
	ErrInvalidReviewLink = errors.New("review link must be an http or https URL")
	// ErrInvalidProfile wraps business name and email validation failures.
	ErrInvalidProfile = errors.New("invalid profile")
)

const maxBusinessNameRunes = 120

// BusinessName is the display name shown to customers.
type BusinessName string

func NewBusinessName(value string) (BusinessName, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%w: business name is required", ErrInvalidProfile)
	}
	if utf8.RuneCountInString(trimmed) > maxBusinessNameRunes {
		return "", fmt.Errorf("%w: business name must be at most %d characters", ErrInvalidProfile, maxBusinessNameRunes)
	}
	return BusinessName(trimmed), nil
}

func (n BusinessName) String() string {
	return string(n)
}

// Email is the owner's contact address.
type Email string

func NewEmail(value string) (Email, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidProfile)
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", fmt.Errorf("%w: invalid email: %v", ErrInvalidProfile, err)
	}
	return Email(trimmed), nil
}

func (e Email) String() string {
	return string(e)
}

// ReviewLink is the external review page. The zero value means no link.
type ReviewLink string

var googleReviewHosts = []string{"google.com", "g.page", "maps.app.goo.gl"}

// NewReviewLink validates a link. An empty input clears the link.
func NewReviewLink(value string) (ReviewLink, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		return "", ErrInvalidReviewLink
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", ErrInvalidReviewLink
	}
	return ReviewLink(trimmed), nil
}

func (l ReviewLink) String() string {
	return string(l)
}

// IsGoogle reports whether the link points at a Google review surface.
func (l ReviewLink) IsGoogle() bool {
	parsed, err := url.Parse(string(l))
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	for _, allowed := range googleReviewHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

// QRCodeID is the opaque identifier printed in a business's QR code.
type QRCodeID string

// qrCodeBytes yields a 16 character hex identifier.
const qrCodeBytes = 8

// NewQRCodeID generates a random identifier.
func NewQRCodeID() (QRCodeID, error) {
	buf := make([]byte, qrCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate qr code id: %w", err)
	}
	return QRCodeID(hex.EncodeToString(buf)), nil
}

func (q QRCodeID) String() string {
	return string(q)
}

// URL returns the public review page for the QR code.
func (q QRCodeID) URL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/r/" + url.PathEscape(string(q))
}
