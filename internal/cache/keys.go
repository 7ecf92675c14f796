package cache

import (
	"fmt"

	"github.com/google/uuid"
)

func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}

func TableTemplateKey(templateID uuid.UUID) string {
	return fmt.Sprintf("layout:template:%s", templateID)
}
