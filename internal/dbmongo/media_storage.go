package dbmongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"seedling/internal/common"
)

var ErrImageNotFound = errors.New("image not found")

// ImageStorage implements the chat image store on top of a GridFS bucket.
type ImageStorage struct {
	gridFS  *gridfs.Bucket
	baseURL string
}

func NewImageStorage(mongoClient *MongoClient, mediaBaseURL string) *ImageStorage {
	return &ImageStorage{
		gridFS:  mongoClient.GridFS,
		baseURL: strings.TrimRight(mediaBaseURL, "/"),
	}
}

type ImageFile struct {
	Ref         string    `json:"ref"`
	URL         string    `json:"url"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	OwnerID     string    `json:"owner_id"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Upload stores an image and returns its ref and public URL.
func (s *ImageStorage) Upload(ctx context.Context, ownerID, filename, contentType string, content io.Reader) (*ImageFile, error) {
	if !common.IsAllowedImage(contentType) {
		return nil, common.ErrInvalidImage
	}

	now := time.Now().UTC()
	metadata := bson.M{
		"content_type": contentType,
		"owner_id":     ownerID,
		"uploaded_at":  now,
	}

	opts := options.GridFSUpload().SetMetadata(metadata)
	stream, err := s.gridFS.OpenUploadStream(filename, opts)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetWriteDeadline(deadline)
	}

	size, err := io.Copy(stream, content)
	if err != nil {
		_ = stream.Abort()
		return nil, fmt.Errorf("file copy failed: %w", err)
	}
	if err := stream.Close(); err != nil {
		return nil, fmt.Errorf("finalize upload: %w", err)
	}

	ref := stream.FileID.(primitive.ObjectID).Hex()
	return &ImageFile{
		Ref:         ref,
		URL:         s.URLFor(ref),
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		OwnerID:     ownerID,
		UploadedAt:  now,
	}, nil
}

func (s *ImageStorage) Open(ctx context.Context, ref string) (io.ReadCloser, *ImageFile, error) {
	objectID, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return nil, nil, ErrImageNotFound
	}

	stream, err := s.gridFS.OpenDownloadStream(objectID)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, nil, ErrImageNotFound
		}
		return nil, nil, fmt.Errorf("download failed: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetReadDeadline(deadline)
	}

	fileInfo := stream.GetFile()
	var metadata bson.M
	if fileInfo.Metadata != nil {
		_ = bson.Unmarshal(fileInfo.Metadata, &metadata)
	}

	return stream, &ImageFile{
		Ref:         ref,
		URL:         s.URLFor(ref),
		Filename:    fileInfo.Name,
		ContentType: getStringFromMap(metadata, "content_type"),
		Size:        fileInfo.Length,
		OwnerID:     getStringFromMap(metadata, "owner_id"),
		UploadedAt:  fileInfo.UploadDate,
	}, nil
}

func (s *ImageStorage) Delete(ctx context.Context, ref string) error {
	objectID, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return fmt.Errorf("invalid image ref %q: %w", ref, err)
	}
	if err := s.gridFS.DeleteContext(ctx, objectID); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil
		}
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

func (s *ImageStorage) URLFor(ref string) string {
	return s.baseURL + "/" + ref
}

func getStringFromMap(m bson.M, key string) string {
	if m == nil {
		return ""
	}
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}
