package initializers

import (
	"context"

	log "github.com/sirupsen/logrus"

	filestorage "startupai-backend/lib/file-storage"
	s3client "startupai-backend/s3"
)

func InitS3() {
	minioClient, err := s3client.NewClient()
	if err != nil {
		log.WithError(err).Error("failed to initialize S3 client")
		return
	}
	filestorage.NewHandler(minioClient)
	if err = filestorage.Instance.MakeBucket(context.Background()); err != nil {
		log.WithError(err).Error("failed to ensure evidence bucket")
	}
	log.Info("S3 client initialized")
}
