package delta

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
)

// signRequest produces the Delta auth headers. The signed message is
// method+endpoint+query+body+timestamp, HMAC-SHA256 over the API secret,
// hex encoded.
func (c *Client) signRequest(method, endpoint string, params url.Values, body []byte) map[string]string {
	timestamp := fmt.Sprintf("%d", c.now().UnixMilli())

	message := method + endpoint
	if len(params) > 0 {
		message += "?" + params.Encode()
	}
	if len(body) > 0 {
		message += string(body)
	}
	message += timestamp

	mac := hmac.New(sha256.New, []byte(c.cfg.APISecret))
	mac.Write([]byte(message))
	signature := hex.EncodeToString(mac.Sum(nil))

	return map[string]string{
		"X-API-KEY":    c.cfg.APIKey,
		"X-SIGNATURE":  signature,
		"X-TIMESTAMP":  timestamp,
		"Content-Type": "application/json",
	}
}
