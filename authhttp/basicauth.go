// File: authhttp/basicauth.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Decodes HTTP Basic Authentication credentials into pool-backed memory, and
// builds the WWW-Authenticate challenge for requests that lack valid ones.
// This is an external caller pattern, not part of the pool's core contract:
// it consumes api.ScratchPool exactly as any other request handler would,
// allocating its decoded-credential buffer from the head end and leaving it
// for the rest of the request's lifetime. It never frees — the server
// resets the pool at the end of the request cycle. Challenge-building
// touches no pool memory at all; the realm is short-lived server
// configuration, not per-request scratch.
package authhttp

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/reqscratch/bumppool/api"
)

const (
	basicScheme      = "Basic "
	wwwAuthenticate  = "WWW-Authenticate"
	challengePrefix  = `Basic realm="`
	challengeCharset = `", charset="UTF-8"`
	challengeSimple  = `"`
)

// Credentials holds the decoded username/password pair, copied out of the
// pool's scratch buffer so the result outlives the pool's current epoch.
type Credentials struct {
	Username string
	Password string
	HasColon bool
}

// DecodeBasicAuth extracts and base64-decodes the token68 payload of an
// "Authorization: Basic <token>" header, allocating the decoded bytes from
// the head end of pool. Returns ok=false if the header is absent, malformed,
// or the pool could not satisfy the allocation.
//
// Matching the original basic-auth decoder this is grounded on: a decoded
// payload with no colon is treated as a username with an empty password,
// not as a decode failure.
func DecodeBasicAuth(pool api.ScratchPool, header string) (Credentials, bool) {
	if !strings.HasPrefix(header, basicScheme) {
		return Credentials{}, false
	}
	token := strings.TrimSpace(header[len(basicScheme):])
	if token == "" {
		return Credentials{}, false
	}

	n := base64.StdEncoding.DecodedLen(len(token))
	blk, ok := pool.Allocate(n, false)
	if !ok {
		return Credentials{}, false
	}

	decodedLen, err := base64.StdEncoding.Decode(blk, []byte(token))
	if err != nil || decodedLen == 0 {
		return Credentials{}, false
	}
	decoded := blk[:decodedLen]

	if idx := bytes.IndexByte(decoded, ':'); idx >= 0 {
		return Credentials{
			Username: string(decoded[:idx]),
			Password: string(decoded[idx+1:]),
			HasColon: true,
		}, true
	}
	return Credentials{Username: string(decoded)}, true
}

// BuildChallengeHeader builds the value of the WWW-Authenticate header that
// asks a client to retry with Basic Authentication credentials (RFC 7617
// §2). preferUTF8 appends charset="UTF-8", matching
// MHD_queue_basic_auth_fail_response3's prefer_utf8 argument.
//
// Grounded on basicauth.c's MHD_queue_basic_auth_fail_response3: the realm
// is backslash-quoted exactly as MHD_str_quote does before being wrapped in
// `Basic realm="..."`.
func BuildChallengeHeader(realm string, preferUTF8 bool) string {
	var b strings.Builder
	b.WriteString(challengePrefix)
	quoteRealm(&b, realm)
	if preferUTF8 {
		b.WriteString(challengeCharset)
	} else {
		b.WriteString(challengeSimple)
	}
	return b.String()
}

// quoteRealm backslash-escapes '"' and '\' in s, the same escaping
// MHD_str_quote applies before a realm is embedded in a quoted header
// parameter.
func quoteRealm(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
}

// QueueBasicAuthFail sets the WWW-Authenticate challenge header on w and
// writes the 401 Unauthorized status line, the net/http equivalent of
// MHD_queue_basic_auth_fail_response3/MHD_queue_basic_auth_fail_response:
// libmicrohttpd modifies and queues a pre-built response object, while
// net/http writes headers and status through the same ResponseWriter the
// caller already holds, so the response body (if any) is written by the
// caller after this call returns, before the handler returns.
func QueueBasicAuthFail(w http.ResponseWriter, realm string, preferUTF8 bool) {
	w.Header().Set(wwwAuthenticate, BuildChallengeHeader(realm, preferUTF8))
	w.WriteHeader(http.StatusUnauthorized)
}
