// Package geoip resolves client network metadata for audit enrichment. All
// lookups are best-effort: failures return zero values, never errors that
// could block the action being audited.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// UnknownIP is substituted when no public address can be determined.
const UnknownIP = "Unknown"

// Client provides IP and geolocation lookups against public endpoints.
type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

type ipAPIResponse struct {
	Status      string `json:"status"`
	CountryCode string `json:"countryCode"`
	Message     string `json:"message"`
}

// LookupCountry returns the ISO 3166-1 alpha-2 country code for ip, or ""
// when the lookup fails. Private/local addresses resolve via the server's
// own public IP, which keeps local development useful.
func (c *Client) LookupCountry(ctx context.Context, ip string) string {
	ip = strings.TrimSpace(ip)

	// ip-api.com, free tier, no key. Empty or private IP means "whoever we
	// appear as from the outside".
	url := "http://ip-api.com/json/?fields=status,countryCode,message"
	if ip != "" && !IsPrivate(ip) {
		url = fmt.Sprintf("http://ip-api.com/json/%s?fields=status,countryCode,message", ip)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ""
	}
	if result.Status != "success" {
		return ""
	}
	return result.CountryCode
}

// LookupPublicIP asks an external echo service for the caller's public
// address, retrying transient failures a few times. Returns UnknownIP when
// every attempt fails.
func (c *Client) LookupPublicIP(ctx context.Context) string {
	var ip string
	backoff := retry.WithMaxRetries(2, retry.NewConstant(300*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://api.ipify.org", nil)
		if err != nil {
			return err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return retry.RetryableError(fmt.Errorf("ipify status %d", resp.StatusCode))
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
		if err != nil {
			return retry.RetryableError(err)
		}
		ip = strings.TrimSpace(string(body))
		return nil
	})
	if err != nil || net.ParseIP(ip) == nil {
		return UnknownIP
	}
	return ip
}

func IsPrivate(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return true
	}
	if ip.IsLoopback() || ip.IsPrivate() {
		return true
	}
	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}
	return false
}

// ClientIP extracts the originating client address from an HTTP request,
// honoring proxy headers before falling back to RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
