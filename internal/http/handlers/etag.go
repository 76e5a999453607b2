package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RespondJSONWithETag writes payload with a strong ETag over its
// serialized form and honors If-None-Match revalidation. The payload
// is marshaled exactly once, so the tag always matches the bytes on
// the wire.
func RespondJSONWithETag(ctx *gin.Context, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		RespondInternal(ctx, "Could not render response")
		return
	}

	sum := sha256.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:]) + `"`

	// the 304 carries the tag too
	ctx.Header("ETag", etag)

	if etagMatch(ctx.GetHeader("If-None-Match"), etag) {
		ctx.Status(http.StatusNotModified)
		return
	}

	ctx.Data(status, "application/json; charset=utf-8", body)
}

// etagMatch uses the weak comparison: clients may echo the tag back
// with a W/ prefix after a proxy touched the response.
func etagMatch(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")

		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
