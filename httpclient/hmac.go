package httpclient

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // vendor-mandated signing algorithm, not used for security-critical hashing here
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strconv"
	"time"
)

// signHMACRequest signs req per spec.md 4.1's hmac scheme:
//
//	HMAC-SHA1(secret, METHOD || endpointPath || unixSeconds || base64(SHA256(body)))
//
// The signature is placed in Authorization as "<prefix> <user>:<sig>"
// alongside an RFC1123 Date header, the way the original vendor contract
// requires a matching timestamp on both the signature input and the header.
func signHMACRequest(req *http.Request, cfg AuthConfig, body []byte) {
	now := time.Now().UTC()
	unixSeconds := strconv.FormatInt(now.Unix(), 10)

	bodyHash := sha256.Sum256(body)
	bodyHashB64 := base64.StdEncoding.EncodeToString(bodyHash[:])

	message := req.Method + req.URL.Path + unixSeconds + bodyHashB64

	mac := hmac.New(sha1.New, []byte(cfg.HMACSecret))
	mac.Write([]byte(message))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	prefix := cfg.HMACPrefix
	if prefix == "" {
		prefix = "HMAC-SHA1"
	}

	req.Header.Set("Authorization", prefix+" "+cfg.HMACUser+":"+sig)
	req.Header.Set("Date", now.Format(time.RFC1123))
}
