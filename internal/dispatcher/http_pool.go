package dispatcher

import (
	"time"

	"github.com/valyala/fasthttp"
)

// HTTPPool is a small round-robin pool of fasthttp.Client instances used
// for posting alert webhooks, so one slow collector doesn't serialize
// behind another on a shared client's connection cache.
type HTTPPool struct {
	clients []*fasthttp.Client
	index   uint32
}

// NewHTTPPool constructs a pool of size clients tuned for short-lived,
// low-latency webhook POSTs.
func NewHTTPPool(size int) *HTTPPool {
	if size < 1 {
		size = 1
	}
	clients := make([]*fasthttp.Client, size)
	for i := range clients {
		clients[i] = &fasthttp.Client{
			MaxConnsPerHost:     256,
			MaxIdleConnDuration: 60 * time.Second,
			ReadTimeout:         2 * time.Second,
			WriteTimeout:        2 * time.Second,
			MaxConnWaitTimeout:  500 * time.Millisecond,
		}
	}
	return &HTTPPool{clients: clients}
}

// GetClient returns the next client in round-robin order.
func (p *HTTPPool) GetClient() *fasthttp.Client {
	i := p.index % uint32(len(p.clients))
	p.index++
	return p.clients[i]
}

// PostJSON POSTs body to url using the next pooled client.
func (p *HTTPPool) PostJSON(url string, body []byte) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	return p.GetClient().DoTimeout(req, resp, 2*time.Second)
}
