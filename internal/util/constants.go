package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 课程文档格式
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const (
	// ContextUserKey gin.Context 中保存 JWT Claims 的键
	ContextUserKey = "user"
)
