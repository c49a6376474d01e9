package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"syscall"
	"time"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// defaultMaxDocumentBytes caps a downloaded bid document.
const defaultMaxDocumentBytes = 50 << 20

// ErrBlockedAddress is returned when a document URL resolves to a loopback,
// private or link-local address.
var ErrBlockedAddress = errors.New("blocked internal address")

// HTTPFetcher downloads bid documents over plain HTTP. Connections to
// internal addresses are refused at dial time, so redirects and DNS answers
// are covered too.
type HTTPFetcher struct {
	Client   *http.Client
	Accept   string
	MaxBytes int64
}

func NewHTTPFetcher() *HTTPFetcher {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   refuseInternal,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	return &HTTPFetcher{
		Client: &http.Client{
			Timeout:       2 * time.Minute,
			Transport:     transport,
			CheckRedirect: checkRedirect,
		},
		Accept:   "application/pdf,text/html;q=0.9,*/*;q=0.8",
		MaxBytes: defaultMaxDocumentBytes,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*FetchedDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", f.Accept)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status code %d", url, resp.StatusCode)
	}

	body := resp.Body
	if f.MaxBytes > 0 {
		body = &limitedBody{Reader: io.LimitReader(resp.Body, f.MaxBytes+1), Closer: resp.Body, max: f.MaxBytes}
	}

	return &FetchedDocument{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		FetchedAt:   time.Now(),
		Headers:     resp.Header,
	}, nil
}

// ErrDocumentTooLarge is returned by reads past HTTPFetcher.MaxBytes.
var ErrDocumentTooLarge = errors.New("document too large")

// limitedBody fails once more than max bytes have been read instead of
// silently truncating.
type limitedBody struct {
	io.Reader
	io.Closer
	max  int64
	read int64
}

func (b *limitedBody) Read(p []byte) (int, error) {
	n, err := b.Reader.Read(p)
	b.read += int64(n)
	if b.read > b.max {
		n = max(n-int(b.read-b.max), 0)
		return n, fmt.Errorf("%w: exceeds %d bytes", ErrDocumentTooLarge, b.max)
	}
	return n, err
}

// refuseInternal runs after DNS resolution with the literal address being
// dialed.
func refuseInternal(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return err
	}
	if isInternalAddr(addr) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, addr)
	}
	return nil
}

var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

func isInternalAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return !addr.IsValid() ||
		addr.IsLoopback() ||
		addr.IsPrivate() ||
		addr.IsUnspecified() ||
		addr.IsMulticast() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		sharedAddressSpace.Contains(addr)
}

func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return errors.New("stopped after 10 redirects")
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return fmt.Errorf("redirect to %s scheme blocked", req.URL.Scheme)
	}
	host := strings.ToLower(req.URL.Hostname())
	if host == "localhost" || strings.HasSuffix(host, ".local") {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
	}
	return nil
}
