package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// documentNumber builds numbers like INV-20240506-1F2E3D4C.
func documentNumber(prefix string, at time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return prefix + "-" + at.Format("20060102") + "-" + strings.ToUpper(suffix)
}
