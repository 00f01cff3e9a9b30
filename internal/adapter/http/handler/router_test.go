package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"exchange-relay/internal/adapter/metrics"
	redisStore "exchange-relay/internal/adapter/storage/redis"
	"exchange-relay/internal/core/domain"
	"exchange-relay/internal/core/ports"
	"exchange-relay/internal/service"
	"exchange-relay/pkg/requestid"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey    = "vmPUZE6mv9SD5VNHk4HlWFsOr6aKE2zvsw0MuIgwCIPy6utIco14y7Ju91duEh8A"
	testAPISecret = "NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e3UZjInClVN65XAbvqqM6A7H5fATj0j"
)

// relayLogSink is an in-memory ports.RelayLogRepository.
type relayLogSink struct {
	mu   sync.Mutex
	logs []domain.RelayLog
}

func (s *relayLogSink) Create(_ context.Context, log *domain.RelayLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, *log)
	return nil
}

func (s *relayLogSink) snapshot() []domain.RelayLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.RelayLog(nil), s.logs...)
}

type testStack struct {
	router  *gin.Engine
	sink    *relayLogSink
	metrics *metrics.Collector
}

func newTestStack(t *testing.T, newsURL, exchangeURL string) *testStack {
	t.Helper()
	return newTestStackWithInfo(t, newsURL, exchangeURL, closedServerURL())
}

func newTestStackWithInfo(t *testing.T, newsURL, exchangeURL, infoURL string) *testStack {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := zerolog.Nop()
	sigSvc, err := service.NewSignatureService(service.SchemeSHA256)
	require.NoError(t, err)

	sink := &relayLogSink{}
	collector := metrics.NewCollector()
	auditSvc := service.NewAuditService(sink, log)
	fwd := service.NewForwarder(&http.Client{Timeout: 5 * time.Second}, auditSvc, collector, log)

	router := SetupRouter(RouterDeps{
		NewsSvc: service.NewNewsService(fwd, newsURL),
		InfoSvc: service.NewInfoService(fwd, infoURL),
		ExchangeSvc: service.NewExchangeService(fwd, sigSvc, redisStore.NewResponseCache(rdb), collector, service.ExchangeConfig{
			BaseURL:   exchangeURL,
			TickerTTL: 5 * time.Second,
		}, log),
		HealthCheckers: []ports.HealthChecker{redisStore.NewHealthCheck(rdb)},
		Metrics:        collector,
		Logger:         log,
	})

	return &testStack{router: router, sink: sink, metrics: collector}
}

func (s *testStack) post(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func credentialBody() string {
	return `{"apiKey":"` + testAPIKey + `","apiSecret":"` + testAPISecret + `"}`
}

// closedServerURL returns the URL of a server that is no longer listening.
func closedServerURL() string {
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	return u
}

// splitSigned separates the signed prefix of a raw query from its signature
// and fails unless signature is the final parameter.
func splitSigned(t *testing.T, rawQuery string) (string, string) {
	t.Helper()
	idx := strings.LastIndex(rawQuery, "&signature=")
	require.NotEqual(t, -1, idx, "signature missing from %q", rawQuery)
	sig := rawQuery[idx+len("&signature="):]
	require.NotContains(t, sig, "&", "signature must be the last parameter")
	return rawQuery[:idx], sig
}

// --- News relay ---

func TestRouter_NewsPassthrough(t *testing.T) {
	upstreamBody := `{"data":[{"id":1,"title":"ETF approved"}],"total":1}`
	var gotBody []byte
	var gotHeaders http.Header
	news := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotHeaders = r.Header.Clone()
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Empty(t, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, upstreamBody)
	}))
	defer news.Close()

	stack := newTestStack(t, news.URL+"/v1/info/news", closedServerURL())
	w := stack.post("/api/v1/info/news", `{"overmindApiKey":"ovm-123"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, upstreamBody, w.Body.String())
	assert.JSONEq(t, `{"overmindApiKey":"ovm-123"}`, string(gotBody))
	assert.Empty(t, gotHeaders.Get(service.HeaderAPIKey))
	assert.NotEmpty(t, w.Header().Get(requestid.Header))
}

func TestRouter_NewsUpstreamUnreachable(t *testing.T) {
	stack := newTestStack(t, closedServerURL(), closedServerURL())
	w := stack.post("/api/v1/info/news", `{"overmindApiKey":"ovm-123"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"An error occurred while fetching news"}`, w.Body.String())
}

func TestRouter_NewsUpstreamMalformed(t *testing.T) {
	news := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>502 Bad Gateway</html>")
	}))
	defer news.Close()

	stack := newTestStack(t, news.URL, closedServerURL())
	w := stack.post("/api/v1/info/news", `{"overmindApiKey":"ovm-123"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Failed to parse news data"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "html")
}

func TestRouter_NewsNon2xxJSONRelayed(t *testing.T) {
	news := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"invalid key"}`)
	}))
	defer news.Close()

	stack := newTestStack(t, news.URL, closedServerURL())
	w := stack.post("/api/v1/info/news", `{"overmindApiKey":"bad"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"invalid key"}`, w.Body.String())
}

func TestRouter_NewsMissingKey(t *testing.T) {
	stack := newTestStack(t, closedServerURL(), closedServerURL())
	w := stack.post("/api/v1/info/news", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Signed exchange relays ---

func TestRouter_ExchangeRelaysAreSigned(t *testing.T) {
	tests := []struct {
		route  string
		method string
		path   string
		params []string
	}{
		{"/api/v1/asset/getUserAsset", http.MethodPost, "/sapi/v3/asset/getUserAsset", []string{"needBtcValuation"}},
		{"/api/v1/asset/dust-btc", http.MethodPost, "/sapi/v1/asset/dust-btc", nil},
		{"/api/v1/depositHistory", http.MethodGet, "/sapi/v1/capital/deposit/hisrec", []string{"startTime"}},
		{"/api/v1/accountSnapshot", http.MethodGet, "/sapi/v1/accountSnapshot", []string{"type", "limit"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var calls int32
			exchange := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				body, _ := io.ReadAll(r.Body)

				assert.Equal(t, tt.method, r.Method)
				assert.Equal(t, tt.path, r.URL.Path)
				assert.Equal(t, testAPIKey, r.Header.Get(service.HeaderAPIKey))
				assert.Empty(t, body)

				for name, values := range r.Header {
					for _, v := range values {
						assert.NotContains(t, v, testAPISecret, "header %s leaks the secret", name)
					}
				}
				assert.NotContains(t, r.URL.RawQuery, testAPISecret)

				signed, sig := splitSigned(t, r.URL.RawQuery)
				params, err := url.ParseQuery(signed)
				require.NoError(t, err)
				assert.Equal(t, params.Encode(), signed, "query must be in canonical order")
				assert.NotEmpty(t, params.Get("timestamp"))
				for _, p := range tt.params {
					assert.NotEmpty(t, params.Get(p), "missing %s", p)
				}

				sigSvc := service.NewSHA256SignatureService()
				assert.True(t, sigSvc.Verify(testAPISecret, params, sig), "signature does not validate")

				_, _ = io.WriteString(w, `{"ok":true}`)
			}))
			defer exchange.Close()

			stack := newTestStack(t, closedServerURL(), exchange.URL)
			w := stack.post(tt.route, credentialBody())

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"ok":true}`, w.Body.String())
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}

func TestRouter_ExchangeMissingCredential(t *testing.T) {
	stack := newTestStack(t, closedServerURL(), closedServerURL())

	w := stack.post("/api/v1/asset/getUserAsset", `{"apiKey":"only-key"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = stack.post("/api/v1/accountSnapshot", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_ExchangeUnreachable(t *testing.T) {
	stack := newTestStack(t, closedServerURL(), closedServerURL())
	w := stack.post("/api/v1/asset/getUserAsset", credentialBody())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"An error occurred while fetching news"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), testAPISecret)
}

func TestRouter_RelayLogCarriesFingerprintOnly(t *testing.T) {
	exchange := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	defer exchange.Close()

	stack := newTestStack(t, closedServerURL(), exchange.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/asset/getUserAsset", strings.NewReader(credentialBody()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestid.Header, "trace-abc")
	w := httptest.NewRecorder()
	stack.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	require.Eventually(t, func() bool { return len(stack.sink.snapshot()) == 1 }, time.Second, 10*time.Millisecond)
	rec := stack.sink.snapshot()[0]

	assert.Equal(t, string(ports.OpGetUserAsset), rec.Route)
	assert.Equal(t, domain.RelayOutcomeSuccess, rec.Outcome)
	assert.Equal(t, http.StatusOK, rec.StatusCode)
	assert.Equal(t, "trace-abc", rec.RequestID)
	assert.Equal(t, domain.KeyFingerprint(testAPIKey), rec.KeyFingerprint)
	assert.NotContains(t, rec.KeyFingerprint, testAPIKey)
	assert.NotContains(t, rec.Upstream, "signature")
}

// --- Ticker relay ---

func TestRouter_TickerServedFromCache(t *testing.T) {
	var calls int32
	exchange := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v3/ticker/price", r.URL.Path)
		assert.Empty(t, r.Header.Get(service.HeaderAPIKey))
		assert.Empty(t, r.URL.Query().Get("signature"))
		assert.Equal(t, `["BTCUSDT","ETHUSDT"]`, r.URL.Query().Get("symbols"))
		_, _ = io.WriteString(w, `[{"symbol":"BTCUSDT","price":"64000.00"},{"symbol":"ETHUSDT","price":"3100.00"}]`)
	}))
	defer exchange.Close()

	stack := newTestStack(t, closedServerURL(), exchange.URL)

	first := stack.post("/api/v1/ticker/price", `{"assets":["btcusdt","ETHUSDT"]}`)
	second := stack.post("/api/v1/ticker/price", `{"assets":["BTCUSDT","ethusdt"]}`)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second lookup should be a cache hit")
}

func TestRouter_TickerSingleSymbol(t *testing.T) {
	exchange := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "BNBUSDT", r.URL.Query().Get("symbol"))
		assert.Empty(t, r.URL.Query().Get("symbols"))
		_, _ = io.WriteString(w, `{"symbol":"BNBUSDT","price":"580.10"}`)
	}))
	defer exchange.Close()

	stack := newTestStack(t, closedServerURL(), exchange.URL)
	w := stack.post("/api/v1/ticker/price", `{"assets":["BNBUSDT"]}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"symbol":"BNBUSDT","price":"580.10"}`, w.Body.String())
}

func TestRouter_TickerUpstreamErrorNotCached(t *testing.T) {
	var calls int32
	exchange := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, `{"code":-1003,"msg":"Too many requests"}`)
			return
		}
		_, _ = io.WriteString(w, `{"symbol":"BTCUSDT","price":"64000.00"}`)
	}))
	defer exchange.Close()

	stack := newTestStack(t, closedServerURL(), exchange.URL)

	first := stack.post("/api/v1/ticker/price", `{"assets":["BTCUSDT"]}`)
	second := stack.post("/api/v1/ticker/price", `{"assets":["BTCUSDT"]}`)
	third := stack.post("/api/v1/ticker/price", `{"assets":["BTCUSDT"]}`)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, `{"code":-1003,"msg":"Too many requests"}`, first.Body.String())
	assert.JSONEq(t, `{"symbol":"BTCUSDT","price":"64000.00"}`, second.Body.String())
	assert.JSONEq(t, `{"symbol":"BTCUSDT","price":"64000.00"}`, third.Body.String())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "only the 2xx answer may be served from cache")
}

// --- Parameterised exchange relays ---

func TestRouter_ParameterisedExchangeRelays(t *testing.T) {
	tests := []struct {
		route  string
		body   string
		method string
		path   string
		params url.Values
	}{
		{
			"/api/v1/asset/dust", `"assets":["shib"," PEPE"]`,
			http.MethodPost, "/sapi/v1/asset/dust",
			url.Values{"asset": {"SHIB,PEPE"}},
		},
		{
			"/api/v1/exchangeInfo", `"fromAsset":"BTC","toAsset":"USDT"`,
			http.MethodGet, "/sapi/v1/convert/exchangeInfo",
			url.Values{"fromAsset": {"BTC"}, "toAsset": {"USDT"}},
		},
		{
			"/api/v1/convert/getQuote", `"fromAsset":"BTC","toAsset":"USDT","fromAmount":0.25`,
			http.MethodPost, "/sapi/v1/convert/getQuote",
			url.Values{"fromAsset": {"BTC"}, "toAsset": {"USDT"}, "fromAmount": {"0.25"}},
		},
		{
			"/api/v1/convert/acceptQuote", `"quoteId":"12415572564"`,
			http.MethodPost, "/sapi/v1/convert/acceptQuote",
			url.Values{"quoteId": {"12415572564"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var calls int32
			exchange := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				assert.Equal(t, tt.method, r.Method)
				assert.Equal(t, tt.path, r.URL.Path)
				assert.Equal(t, testAPIKey, r.Header.Get(service.HeaderAPIKey))
				assert.NotContains(t, r.URL.RawQuery, testAPISecret)

				signed, sig := splitSigned(t, r.URL.RawQuery)
				params, err := url.ParseQuery(signed)
				require.NoError(t, err)
				assert.Equal(t, params.Encode(), signed, "query must be in canonical order")
				for k := range tt.params {
					assert.Equal(t, tt.params.Get(k), params.Get(k), "param %s", k)
				}
				assert.True(t, service.NewSHA256SignatureService().Verify(testAPISecret, params, sig))

				_, _ = io.WriteString(w, `{"ok":true}`)
			}))
			defer exchange.Close()

			stack := newTestStack(t, closedServerURL(), exchange.URL)
			body := `{"apiKey":"` + testAPIKey + `","apiSecret":"` + testAPISecret + `",` + tt.body + `}`
			w := stack.post(tt.route, body)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"ok":true}`, w.Body.String())
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}

func TestRouter_GetQuoteRejectionEchoesRequest(t *testing.T) {
	exchange := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"code":345233,"msg":"The amount must be between 0.0001 10.5"}`)
	}))
	defer exchange.Close()

	stack := newTestStack(t, closedServerURL(), exchange.URL)
	body := `{"apiKey":"` + testAPIKey + `","apiSecret":"` + testAPISecret + `","fromAsset":"BTC","toAsset":"USDT","fromAmount":"50"}`
	w := stack.post("/api/v1/convert/getQuote", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":345233,"msg":"The amount must be between 0.0001 10.5","fromAsset":"BTC","toAsset":"USDT","fromAmount":"50","quoteRange":["0.0001","10.5"]}`, w.Body.String())
}

func TestRouter_ParameterisedRelayRejectsBadInput(t *testing.T) {
	stack := newTestStack(t, closedServerURL(), closedServerURL())

	w := stack.post("/api/v1/asset/dust", `{"apiKey":"k","apiSecret":"s","assets":["SHIB&asset=BTC"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = stack.post("/api/v1/convert/getQuote", `{"apiKey":"k","apiSecret":"s","fromAsset":"BTC","toAsset":"USDT","fromAmount":"1e9"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Info service relays ---

func TestRouter_InfoRelays(t *testing.T) {
	tests := []struct {
		route string
		body  string
		path  string
		query url.Values
	}{
		{
			"/api/v1/portfolio/train-bullish",
			`{"overmindApiKey":"ovm-123","iterations":50,"maxTradeHorizon":12,"tpPercentage":3,"slPercentage":1.5}`,
			"/v1/portfolio/train-bullish",
			url.Values{"iterations": {"50"}, "maxTradeHorizon": {"12"}, "tpPercentage": {"3"}, "slPercentage": {"1.5"}},
		},
		{"/api/v1/portfolio/refresh", `{"overmindApiKey":"ovm-123"}`, "/v1/portfolio/refresh", url.Values{}},
		{"/api/v1/portfolio/refresh-model", `{"overmindApiKey":"ovm-123","instrument":"BTCUSDT"}`, "/v1/portfolio/refresh-model", url.Values{"instrument": {"BTCUSDT"}}},
		{"/api/v1/portfolio/bullish", `{"overmindApiKey":"ovm-123"}`, "/v1/results/portfolio-bullish", url.Values{}},
		{"/api/v1/results/simulated-trades", `{"overmindApiKey":"ovm-123","asset":"ethusdt"}`, "/v1/results/simulated-trades", url.Values{"instrument": {"ETHUSDT"}}},
		{"/api/v1/results/accumulated-revenue", `{"overmindApiKey":"ovm-123","asset":"ETHUSDT"}`, "/v1/results/accumulated-revenue", url.Values{"instrument": {"ETHUSDT"}}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			info := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, tt.path, r.URL.Path)
				assert.Equal(t, "Bearer ovm-123", r.Header.Get("Authorization"))
				assert.Equal(t, tt.query.Encode(), r.URL.RawQuery)
				assert.Empty(t, body)
				_, _ = io.WriteString(w, `{"result":[]}`)
			}))
			defer info.Close()

			stack := newTestStackWithInfo(t, closedServerURL(), closedServerURL(), info.URL)
			w := stack.post(tt.route, tt.body)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"result":[]}`, w.Body.String())
		})
	}
}

func TestRouter_InfoRelayUnreachable(t *testing.T) {
	stack := newTestStack(t, closedServerURL(), closedServerURL())
	w := stack.post("/api/v1/portfolio/refresh", `{"overmindApiKey":"ovm-123"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"An error occurred while fetching news"}`, w.Body.String())
}

func TestRouter_InfoRelayLogCarriesFingerprintOnly(t *testing.T) {
	info := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	defer info.Close()

	stack := newTestStackWithInfo(t, closedServerURL(), closedServerURL(), info.URL)
	require.Equal(t, http.StatusOK, stack.post("/api/v1/portfolio/bullish", `{"overmindApiKey":"ovm-123"}`).Code)

	require.Eventually(t, func() bool { return len(stack.sink.snapshot()) == 1 }, time.Second, 10*time.Millisecond)
	rec := stack.sink.snapshot()[0]
	assert.Equal(t, string(ports.OpPortfolioBullish), rec.Route)
	assert.Equal(t, domain.KeyFingerprint("ovm-123"), rec.KeyFingerprint)
	assert.NotContains(t, rec.KeyFingerprint, "ovm-123")
}

// --- Ambient routes ---

func TestRouter_HealthAndMetrics(t *testing.T) {
	news := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	}))
	defer news.Close()

	stack := newTestStack(t, news.URL, closedServerURL())
	require.Equal(t, http.StatusOK, stack.post("/api/v1/info/news", `{"overmindApiKey":"k"}`).Code)

	w := httptest.NewRecorder()
	stack.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])

	w = httptest.NewRecorder()
	stack.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `relay_upstream_requests_total{outcome="SUCCESS",route="news"} 1`)
	assert.Contains(t, w.Body.String(), `relay_http_requests_total{endpoint="/api/v1/info/news",method="POST",status="success"} 1`)
}

func TestRouter_ConcurrentRelays(t *testing.T) {
	var calls int32
	exchange := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = io.WriteString(w, `{"snapshotVos":[]}`)
	}))
	defer exchange.Close()

	stack := newTestStack(t, closedServerURL(), exchange.URL)

	const n = 20
	var wg sync.WaitGroup
	codes := make([]int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = stack.post("/api/v1/accountSnapshot", credentialBody()).Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		assert.Equal(t, http.StatusOK, code, "request %d", i)
	}
	assert.Equal(t, int32(n), atomic.LoadInt32(&calls))
}
