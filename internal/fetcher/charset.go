package fetcher

import (
	"mime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
)

// decodeBody converts body to UTF-8 using the charset named in contentType.
// Unknown or undecodable charsets leave the body untouched.
func decodeBody(contentType string, body []byte) []byte {
	if contentType == "" {
		return body
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body
	}
	charset := strings.TrimSpace(params["charset"])
	if charset == "" || strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8") {
		return body
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		zap.L().Warn("unsupported charset, using raw body",
			zap.String("charset", charset),
			zap.Error(err),
		)
		return body
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		zap.L().Warn("charset decode failed, using raw body",
			zap.String("charset", charset),
			zap.Error(err),
		)
		return body
	}
	return decoded
}
