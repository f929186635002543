package cache

import "fmt"

func RateLimitKey(clientIP string) string {
	return fmt.Sprintf("ratelimit:%s", clientIP)
}

func CatalogKey() string {
	return "catalog:endpoints"
}
