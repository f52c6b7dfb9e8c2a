package scraper

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/browserutils/kooky"
	// Use all browsers for Kooky:
	_ "github.com/browserutils/kooky/browser/all"

	"recarr/internal/utils/logging"
)

// CookieManager caches browser cookies per base domain. Channels with
// use_cookies_file enabled get these exported to the Netscape file the
// downloader containers mount.
type CookieManager struct {
	mu      sync.RWMutex
	cookies map[string][]*http.Cookie
}

func NewCookieManager() *CookieManager {
	return &CookieManager{
		cookies: make(map[string][]*http.Cookie),
	}
}

// GetCookies retrieves cookies for a given URL.
func (cm *CookieManager) GetCookies(ctx context.Context, u string) ([]*http.Cookie, error) {
	domain, err := baseDomain(u)
	if err != nil {
		return nil, fmt.Errorf("error extracting base domain in cookie grab: %w", err)
	}

	cm.mu.RLock()
	if cookies, ok := cm.cookies[domain]; ok {
		cm.mu.RUnlock()
		return cookies, nil
	}
	cm.mu.RUnlock()

	cookies := cm.loadCookiesForDomain(ctx, domain)

	cm.mu.Lock()
	cm.cookies[domain] = cookies
	cm.mu.Unlock()

	return cookies, nil
}

// loadCookiesForDomain loads the cookies associated with a particular domain.
func (cm *CookieManager) loadCookiesForDomain(ctx context.Context, domain string) []*http.Cookie {
	if err := ctx.Err(); err != nil {
		return nil
	}

	kookyCookies := kooky.ReadCookies(kooky.Valid, kooky.Domain(domain))

	if len(kookyCookies) > 0 {
		logging.I("Found %d cookies for %s", len(kookyCookies), domain)
		return convertToHTTPCookies(kookyCookies)
	}

	logging.I("No cookies found for %s", domain)
	return nil
}

// convertToHTTPCookies converts kooky cookies to http.Cookie format.
func convertToHTTPCookies(kookyCookies []*kooky.Cookie) []*http.Cookie {
	httpCookies := make([]*http.Cookie, len(kookyCookies))
	for i, c := range kookyCookies {
		httpCookies[i] = &http.Cookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Domain:  c.Domain,
			Secure:  c.Secure,
			Expires: c.Expires,
		}
	}
	return httpCookies
}

// SaveCookiesToFile writes the domain's cookies to a file in Netscape
// format, the layout every downloader tool accepts via --cookies.
func (cm *CookieManager) SaveCookiesToFile(ctx context.Context, siteURL, cookieFilePath string) error {
	cookies, err := cm.GetCookies(ctx, siteURL)
	if err != nil {
		return err
	}
	if len(cookies) == 0 {
		logging.I("No cookies to write for %q, downloaders will run unauthenticated", siteURL)
		return nil
	}

	file, err := os.Create(cookieFilePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.E("failed to close file %q due to error: %v", cookieFilePath, err)
		}
	}()

	_, err = file.WriteString("# Netscape HTTP Cookie File\n# https://curl.haxx.se/rfc/cookie_spec.html\n# This is a generated file! Do not edit.\n\n")
	if err != nil {
		return err
	}

	logging.D(1, "Saving %d cookies to file %s...", len(cookies), cookieFilePath)

	for _, cookie := range cookies {
		domain := cookie.Domain
		if domain == "" {
			domain = siteURL
		}
		if !strings.HasPrefix(domain, ".") && strings.Count(domain, ".") > 1 {
			domain = "." + domain
		}

		secure := "FALSE"
		if cookie.Secure {
			secure = "TRUE"
		}

		expires := int64(0)
		if !cookie.Expires.IsZero() {
			expires = cookie.Expires.Unix()
		} else {
			logging.W("Cookie %s has no expiration time set", cookie.Name)
		}

		_, err := fmt.Fprintf(file, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			domain, "FALSE", cookie.Path, secure, expires, cookie.Name, cookie.Value)
		if err != nil {
			return err
		}
	}
	return nil
}
