package cache

import "fmt"

func SessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func RateLimitKey(tenantSlug string) string {
	return fmt.Sprintf("ratelimit:%s", tenantSlug)
}
