package constant

import "errors"

// 定义业务逻辑相关的标准错误
var (
	// ErrNotFound 表示资源未找到（查询成功但无数据），可以由 Handler 转换为 404
	ErrNotFound = errors.New("资源未找到")

	// ErrBadRequest 表示请求参数错误，可以由 Handler 转换为 400
	ErrBadRequest = errors.New("错误的请求")

	// ErrInternalServer 表示服务器内部错误，可以由 Handler 转换为 500
	ErrInternalServer = errors.New("内部服务器错误")

	// ErrStorageNotFound 表示存储中不存在对应的媒体文件，可以由 Handler 转换为 404
	ErrStorageNotFound = errors.New("存储中未找到媒体文件")

	// ErrFeatureNotSupported 表示当前存储驱动不支持该操作
	ErrFeatureNotSupported = errors.New("当前存储驱动不支持该操作")

	// ErrChecksumMissing 表示媒体文件尚未计算校验和，无法定位切片
	ErrChecksumMissing = errors.New("媒体文件缺少校验和")
)
