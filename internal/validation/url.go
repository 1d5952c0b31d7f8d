package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// CatalogURLValidator validates the catalog endpoint and the image links
// it returns before they are handed to the network or an external viewer.
type CatalogURLValidator struct {
	// AllowLocalhost determines if localhost URLs are permitted
	AllowLocalhost bool
	// AllowPrivateIPs determines if private IP addresses are permitted
	AllowPrivateIPs bool
	// MaxLength is the maximum allowed URL length
	MaxLength int
}

// NewCatalogURLValidator creates a new validator with secure defaults
func NewCatalogURLValidator() *CatalogURLValidator {
	return &CatalogURLValidator{
		AllowLocalhost:  false,
		AllowPrivateIPs: false,
		MaxLength:       2048,
	}
}

// NewPermissiveCatalogURLValidator allows local and private hosts, e.g. a
// mock catalog during development.
func NewPermissiveCatalogURLValidator() *CatalogURLValidator {
	return &CatalogURLValidator{
		AllowLocalhost:  true,
		AllowPrivateIPs: true,
		MaxLength:       2048,
	}
}

// ValidateAndNormalize validates a URL and returns the normalized version
// without a trailing slash.
func (v *CatalogURLValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}

	if strings.ContainsAny(input, "<>\"'`") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	lower := strings.ToLower(input)
	if strings.Contains(lower, "://") {
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			return "", fmt.Errorf("URL must use http or https protocol")
		}
	} else {
		input = "https://" + input
	}

	parsedURL, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", fmt.Errorf("URL must use http or https protocol")
	}

	if parsedURL.Host == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}

	if err := v.validateHostSecurity(parsedURL.Host); err != nil {
		return "", err
	}

	if err := v.validatePathSecurity(parsedURL); err != nil {
		return "", err
	}

	return strings.TrimRight(parsedURL.String(), "/"), nil
}

func (v *CatalogURLValidator) validateHostSecurity(host string) error {
	hostname := host
	if strings.Contains(host, ":") {
		var err error
		hostname, _, err = net.SplitHostPort(host)
		if err != nil {
			return fmt.Errorf("invalid host format: %w", err)
		}
	}

	if !v.AllowLocalhost && isLocalhost(hostname) {
		return fmt.Errorf("localhost URLs are not permitted")
	}

	if !v.AllowPrivateIPs {
		if ip := net.ParseIP(hostname); ip != nil && isPrivateIP(ip) {
			return fmt.Errorf("private IP addresses are not permitted")
		}
	}

	if isSuspiciousHostname(hostname) {
		return fmt.Errorf("suspicious hostname detected")
	}

	return nil
}

func (v *CatalogURLValidator) validatePathSecurity(parsedURL *url.URL) error {
	if strings.Contains(parsedURL.Path, "..") {
		return fmt.Errorf("directory traversal patterns not allowed in URL path")
	}

	lowerQuery := strings.ToLower(parsedURL.RawQuery)
	if strings.Contains(lowerQuery, "<script") || strings.Contains(lowerQuery, "javascript:") {
		return fmt.Errorf("suspicious query parameters detected")
	}

	return nil
}

func isLocalhost(hostname string) bool {
	return hostname == "localhost" ||
		hostname == "127.0.0.1" ||
		hostname == "::1" ||
		strings.HasSuffix(hostname, ".localhost")
}

var privateBlocks = func() []*net.IPNet {
	var blocks []*net.IPNet
	for _, cidr := range []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"169.254.0.0/16",
		"127.0.0.0/8",
		"fc00::/7",
		"fe80::/10",
	} {
		if _, block, err := net.ParseCIDR(cidr); err == nil {
			blocks = append(blocks, block)
		}
	}
	return blocks
}()

func isPrivateIP(ip net.IP) bool {
	for _, block := range privateBlocks {
		if block.Contains(ip) {
			return true
		}
	}
	return false
}

// isSuspiciousHostname rejects unroutable wildcard addresses.
func isSuspiciousHostname(hostname string) bool {
	switch strings.ToLower(hostname) {
	case "0.0.0.0", "255.255.255.255", "localhost.com":
		return true
	}
	return false
}
