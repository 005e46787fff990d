package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/mousephenotype/phenodcc-media/internal/pkg/logging"
	"github.com/mousephenotype/phenodcc-media/pkg/constant"
)

// S3Options 连接 S3 兼容存储所需的配置
type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string // 自定义 endpoint（MinIO 等），为空时使用 AWS
	AccessKey string
	SecretKey string
	Prefix    string // 对象键前缀，如 "media/src"
}

// s3API 是用到的 S3 客户端方法子集
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// AWSS3Provider 实现了 IStorageProvider 接口，用于处理与 AWS S3 的所有交互。
type AWSS3Provider struct {
	client  s3API
	presign func(ctx context.Context, input *s3.GetObjectInput, expires time.Duration) (string, error)
	bucket  string
	prefix  string
}

// NewAWSS3Provider 根据配置创建 S3 客户端
func NewAWSS3Provider(ctx context.Context, opts S3Options) (*AWSS3Provider, error) {
	client, err := newS3Client(ctx, opts)
	if err != nil {
		return nil, err
	}
	presignClient := s3.NewPresignClient(client)
	return &AWSS3Provider{
		client: client,
		presign: func(ctx context.Context, input *s3.GetObjectInput, expires time.Duration) (string, error) {
			req, err := presignClient.PresignGetObject(ctx, input, func(o *s3.PresignOptions) {
				o.Expires = expires
			})
			if err != nil {
				return "", err
			}
			return req.URL, nil
		},
		bucket: opts.Bucket,
		prefix: strings.Trim(opts.Prefix, "/"),
	}, nil
}

// newS3Client 获取 AWS S3 客户端
func newS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("S3 存储缺少存储桶名称")
	}

	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	// 未配置密钥时使用默认凭证链（环境变量、实例角色等）
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	var endpoint *string
	if opts.Endpoint != "" {
		if _, err := url.Parse(opts.Endpoint); err != nil {
			return nil, fmt.Errorf("S3 endpoint 无效: %w", err)
		}
		endpoint = aws.String(opts.Endpoint)
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("创建 AWS S3 配置失败: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != nil {
			o.BaseEndpoint = endpoint
			o.UsePathStyle = true
		}
	})
	logging.Info().Str("bucket", opts.Bucket).Str("region", region).Str("prefix", opts.Prefix).Msg("S3 客户端创建成功")
	return client, nil
}

// objectKey 拼接前缀与相对 key
func (p *AWSS3Provider) objectKey(key string) string {
	key = strings.TrimPrefix(path.Clean("/"+key), "/")
	if p.prefix == "" {
		return key
	}
	return p.prefix + "/" + key
}

func (p *AWSS3Provider) Open(ctx context.Context, key string) (*Object, error) {
	objectKey := p.objectKey(key)
	output, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("对象不存在 %s: %w", objectKey, constant.ErrStorageNotFound)
		}
		return nil, fmt.Errorf("从 AWS S3 获取文件失败: %w", err)
	}

	obj := &Object{
		Body:        output.Body,
		Size:        aws.ToInt64(output.ContentLength),
		ContentType: aws.ToString(output.ContentType),
		ModTime:     aws.ToTime(output.LastModified),
	}
	if obj.ContentType == "" || obj.ContentType == "binary/octet-stream" {
		obj.ContentType = contentTypeByKey(key)
	}
	return obj, nil
}

func (p *AWSS3Provider) IsExist(ctx context.Context, key string) (bool, error) {
	_, err := p.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.objectKey(key)),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("检查 AWS S3 文件是否存在失败: %w", err)
	}
	return true, nil
}

// GetDownloadURL 生成预签名 GET 链接，expiresIn <= 0 时默认 1 小时
func (p *AWSS3Provider) GetDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	if expiresIn <= 0 {
		expiresIn = time.Hour
	}
	u, err := p.presign(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.objectKey(key)),
	}, expiresIn)
	if err != nil {
		return "", fmt.Errorf("生成 AWS S3 预签名 URL 失败: %w", err)
	}
	return u, nil
}

// isNotFound GetObject 返回 NoSuchKey，HeadObject 返回 NotFound
func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}
