package service

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"lingua_edu_backend/internal/config"
	"lingua_edu_backend/internal/util"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// LessonSource 课程文档来源
type LessonSource interface {
	// List 返回支持格式的文档名，按名称排序
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, name string) ([]byte, error)
}

// LocalLessonSource 本地目录
type LocalLessonSource struct {
	Root string
}

func (p *LocalLessonSource) List(ctx context.Context) ([]string, error) {
	var names []string
	err := filepath.WalkDir(p.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := util.DocumentFormat(path); !ok {
			return nil
		}
		rel, err := filepath.Rel(p.Root, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(names)
	return names, err
}

func (p *LocalLessonSource) Read(ctx context.Context, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(p.Root, filepath.FromSlash(name)))
}

// MinioLessonSource MinIO 存储桶中某个前缀下的文档
type MinioLessonSource struct {
	Client *minio.Client
	Bucket string
	Prefix string
}

func NewMinioLessonSource(cfg *config.StorageConfig, prefix string) (*MinioLessonSource, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioLessonSource{Client: client, Bucket: cfg.MinioBucket, Prefix: prefix}, nil
}

func (p *MinioLessonSource) List(ctx context.Context) ([]string, error) {
	var names []string
	for obj := range p.Client.ListObjects(ctx, p.Bucket, minio.ListObjectsOptions{Prefix: p.Prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if _, ok := util.DocumentFormat(obj.Key); ok {
			names = append(names, obj.Key)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (p *MinioLessonSource) Read(ctx context.Context, name string) ([]byte, error) {
	obj, err := p.Client.GetObject(ctx, p.Bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

// NewLessonSource 根据 storage.type 选择来源；location 为本地目录或存储桶前缀
func NewLessonSource(cfg *config.StorageConfig, location string) (LessonSource, error) {
	switch cfg.Type {
	case util.StorageMinio:
		return NewMinioLessonSource(cfg, strings.TrimPrefix(location, "/"))
	case util.StorageLocal, "":
		if location == "" {
			location = cfg.LocalPath
		}
		return &LocalLessonSource{Root: location}, nil
	}
	return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
}
