package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateETagStableAndQuoted(t *testing.T) {
	id := primitive.NewObjectID()
	at := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

	a := GenerateETag(id, at)
	b := GenerateETag(id, at)
	assert.Equal(t, a, b)
	assert.Regexp(t, `^"[0-9a-f]{40}"$`, a)
}

func TestGenerateETagChangesWithUpdateTime(t *testing.T) {
	id := primitive.NewObjectID()
	at := time.Now()

	assert.NotEqual(t, GenerateETag(id, at), GenerateETag(id, at.Add(time.Second)))
	assert.NotEqual(t, GenerateETag(id, at), GenerateETag(primitive.NewObjectID(), at))
}
