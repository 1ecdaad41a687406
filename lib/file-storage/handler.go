package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"

	"startupai-backend/config"
	"startupai-backend/db"
	evidencefilestore "startupai-backend/lib/file-storage/store"
	approvalapimodels "startupai-backend/models/api/approval"
	dbmodels "startupai-backend/models/db"
)

type Provider interface {
	UploadEvidence(ctx context.Context, spaceID, approvalID, fileName, contentType string, file []byte) (*approvalapimodels.EvidenceFileView, error)
	GetEvidence(ctx context.Context, spaceID, fileID string) ([]byte, *approvalapimodels.EvidenceFileView, error)
	ListEvidence(spaceID, approvalID string) ([]approvalapimodels.EvidenceFileView, error)
	MakeBucket(ctx context.Context) error
}

var Instance Provider

func NewHandler(s3client *minio.Client) {
	Instance = impl{
		s3client: s3client,
		store:    evidencefilestore.NewInstance(db.DB),
	}
}

type impl struct {
	s3client *minio.Client
	store    evidencefilestore.Provider
}

func (i impl) UploadEvidence(ctx context.Context, spaceID, approvalID, fileName, contentType string, file []byte) (*approvalapimodels.EvidenceFileView, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	rec := dbmodels.EvidenceFile{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		ApprovalID:  approvalID,
		Name:        fileName,
		ContentType: contentType,
		Size:        int64(len(file)),
	}
	recID, err := i.store.Create(rec)
	if err != nil {
		return nil, errors.Wrap(err, "failed to save evidence file record")
	}
	rec.ID = recID

	_, err = i.s3client.PutObject(ctx, config.Conf.S3.BucketName, i.objectName(spaceID, recID),
		bytes.NewReader(file), rec.Size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return nil, errors.Wrap(err, "failed to upload evidence file")
	}
	view := approvalapimodels.EvidenceFileConvert(rec)
	return &view, nil
}

func (i impl) GetEvidence(ctx context.Context, spaceID, fileID string) ([]byte, *approvalapimodels.EvidenceFileView, error) {
	rec, err := i.store.GetByID(spaceID, fileID)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, nil
	}
	object, err := i.s3client.GetObject(ctx, config.Conf.S3.BucketName, i.objectName(spaceID, fileID), minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to fetch evidence file")
	}
	defer object.Close()
	data, err := io.ReadAll(object)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read evidence file")
	}
	view := approvalapimodels.EvidenceFileConvert(*rec)
	return data, &view, nil
}

func (i impl) ListEvidence(spaceID, approvalID string) ([]approvalapimodels.EvidenceFileView, error) {
	list, err := i.store.List(spaceID, approvalID)
	if err != nil {
		return nil, err
	}
	result := make([]approvalapimodels.EvidenceFileView, 0, len(list))
	for _, rec := range list {
		result = append(result, approvalapimodels.EvidenceFileConvert(rec))
	}
	return result, nil
}

func (i impl) MakeBucket(ctx context.Context) error {
	bucketName := config.Conf.S3.BucketName
	exists, err := i.s3client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return i.s3client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: config.Conf.S3.Region})
}

func (i impl) objectName(spaceID, fileID string) string {
	return fmt.Sprintf("%s/%s", spaceID, fileID)
}
