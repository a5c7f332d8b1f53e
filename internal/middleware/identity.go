package middleware

// identity.go holds the caller identification shared by middleware
// files. The response cache uses it to partition entries per user.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// cacheIdentity names the caller for cache partitioning. Routes behind
// JWTAuth carry the token subject under "user_id"; anonymous requests
// fall into the shared "guest" partition, which is safe only for
// routes whose full URL already identifies the resource (the export
// feed embeds its capability token in the path).
func cacheIdentity(c echo.Context) string {
	if v := c.Get("user_id"); v != nil {
		return fmt.Sprintf("%v", v)
	}
	return "guest"
}
