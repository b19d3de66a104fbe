package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectURL(t *testing.T) {
	t.Run("custom endpoint uses path style", func(t *testing.T) {
		url := objectURL("https://minio.internal:9000", "us-east-1", "avatars", "profile-pictures/u1/x.png")
		assert.Equal(t, "https://minio.internal:9000/avatars/profile-pictures/u1/x.png", url)
	})

	t.Run("trailing slash on endpoint is tolerated", func(t *testing.T) {
		url := objectURL("https://minio.internal:9000/", "us-east-1", "avatars", "key")
		assert.Equal(t, "https://minio.internal:9000/avatars/key", url)
	})

	t.Run("plain AWS S3 gets a virtual-hosted URL", func(t *testing.T) {
		url := objectURL("", "eu-central-1", "avatars", "profile-pictures/u1/x.png")
		assert.Equal(t, "https://avatars.s3.eu-central-1.amazonaws.com/profile-pictures/u1/x.png", url)
	})
}
