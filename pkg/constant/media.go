package constant

// 胚胎成像参数，命中时覆盖阶段与状态
const (
	ParamEmbryoOPT     = "IMPC_EOL_001_001"
	ParamEmbryoMRI     = "IMPC_EMO_001_001"
	ParamEmbryoMicroCT = "IMPC_EMA_001_001"
)

// EmbryoParameterKeys 胚胎成像参数白名单
var EmbryoParameterKeys = map[string]struct{}{
	ParamEmbryoOPT:     {},
	ParamEmbryoMRI:     {},
	ParamEmbryoMicroCT: {},
}

// IsEmbryoParameter 判断参数是否属于胚胎成像
func IsEmbryoParameter(parameterKey string) bool {
	_, ok := EmbryoParameterKeys[parameterKey]
	return ok
}

const (
	// EmbryoPhase 胚胎数据统一使用的阶段标记
	EmbryoPhase = 99
	// EmbryoFailStatus 查不到预处理记录时使用的状态
	EmbryoFailStatus = 0
	// UnresolvedMetadataGroup 元数据组无法解析时的索引
	UnresolvedMetadataGroup int64 = -1
	// BaselineGenotype 野生型（基线）的基因型 ID
	BaselineGenotype = 0
)

// 处理阶段
const (
	PhaseDownload = "download"
	PhaseChecksum = "checksum"
	PhaseTile     = "tile"
)

// 处理状态
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusDone      = "done"
	StatusCancelled = "cancelled"
	StatusFailed    = "failed"
)

// 缓存键
const (
	CacheKeyMetadataGroupPrefix = "phenodcc:media:mg:"
)
