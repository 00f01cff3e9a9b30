package service

import (
	"encoding/json"
	"net/url"
	"regexp"
)

// codeQuoteOutOfRange is the exchange error for an amount outside the
// allowed quote window; its message carries the min and max amounts.
const codeQuoteOutOfRange = 345233

var quoteRangeRe = regexp.MustCompile(`(\d+\.\d+)\s+(\d+\.\d+)`)

type exchangeError struct {
	Code *int64 `json:"code"`
	Msg  string `json:"msg"`
}

// QuoteRejection is returned to the caller when the exchange refuses a quote.
type QuoteRejection struct {
	Code       int64     `json:"code"`
	Msg        string    `json:"msg"`
	FromAsset  string    `json:"fromAsset"`
	ToAsset    string    `json:"toAsset"`
	FromAmount string    `json:"fromAmount"`
	QuoteRange *[]string `json:"quoteRange,omitempty"`
}

// quoteRejection echoes the requested conversion next to the exchange
// error. Payloads without a numeric code are returned unchanged.
func quoteRejection(payload json.RawMessage, params url.Values) json.RawMessage {
	var upstream exchangeError
	if err := json.Unmarshal(payload, &upstream); err != nil || upstream.Code == nil {
		return payload
	}

	out := QuoteRejection{
		Code:       *upstream.Code,
		Msg:        upstream.Msg,
		FromAsset:  params.Get("fromAsset"),
		ToAsset:    params.Get("toAsset"),
		FromAmount: params.Get("fromAmount"),
	}
	if out.Code == codeQuoteOutOfRange {
		out.QuoteRange = extractQuoteRange(out.Msg)
	}

	b, err := json.Marshal(out)
	if err != nil {
		return payload
	}
	return b
}

// extractQuoteRange returns a pointer to the first two decimals found in msg,
// or a pointer to nil when there are none so the field renders as null.
func extractQuoteRange(msg string) *[]string {
	var bounds []string
	if m := quoteRangeRe.FindStringSubmatch(msg); m != nil {
		bounds = []string{m[1], m[2]}
	}
	return &bounds
}
