package utils

import (
	"crypto/sha1"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerateETag derives a strong ETag from a document id and its last
// update time, so list/get responses can answer If-None-Match.
func GenerateETag(id primitive.ObjectID, updatedAt time.Time) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s:%d", id.Hex(), updatedAt.UnixNano())))
	return fmt.Sprintf(`"%x"`, sum)
}
