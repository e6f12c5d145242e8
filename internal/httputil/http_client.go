package httputil

import (
	"net"
	"net/http"
	"time"
)

// InitHttpClient builds the shared outbound client used by the AI backends.
// A zero timeout leaves requests bounded only by their context.
func InitHttpClient(
	timeout time.Duration,
	maxIdleConn int,
	maxIdleConnPerHost int,
	maxConnPerHost int,
) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          maxIdleConn,
		MaxIdleConnsPerHost:   maxIdleConnPerHost,
		MaxConnsPerHost:       maxConnPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
