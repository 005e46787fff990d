package model

import (
	"github.com/mousephenotype/phenodcc-media/internal/pkg/types"
)

// MediaFile 对应 media_file 表，一条记录代表一个待下载/已处理的媒体文件。
// Extension 只在读取时通过 file_extension 关联填充。
type MediaFile struct {
	ID            int64          `json:"id" sql:"id"`
	CentreID      int64          `json:"cid" sql:"cid"`
	PipelineID    int64          `json:"lid" sql:"lid"`
	GenotypeID    int64          `json:"gid" sql:"gid"`
	StrainID      int64          `json:"sid" sql:"sid"`
	ProcedureID   int64          `json:"pid" sql:"pid"`
	ParameterID   int64          `json:"qid" sql:"qid"`
	MeasurementID int64          `json:"mid" sql:"mid"`
	URL           string         `json:"url" sql:"url"`
	Checksum      *string        `json:"checksum" sql:"checksum"`
	IsImage       *int           `json:"isImage" sql:"is_image"`
	Width         *int           `json:"width" sql:"width"`
	Height        *int           `json:"height" sql:"height"`
	Created       types.NullTime `json:"created" sql:"created"`
	LastUpdate    types.NullTime `json:"lastUpdate" sql:"last_update"`
	Touched       types.NullTime `json:"touched" sql:"touched"`
	StatusID      int            `json:"statusId" sql:"status_id"`
	PhaseID       int            `json:"phaseId" sql:"phase_id"`
	ExtensionID   *int           `json:"extensionId" sql:"extension_id"`
	Extension     *string        `json:"extension,omitempty" sql:"extension"`
}

// HasExtension 判断扩展名是否已知
func (m *MediaFile) HasExtension() bool {
	return m.Extension != nil && *m.Extension != ""
}

// Phase 处理阶段（download / checksum / tile）
type Phase struct {
	ID          int            `json:"id" xml:"id" sql:"id"`
	ShortName   string         `json:"shortName" xml:"shortName" sql:"short_name"`
	Description string         `json:"description" xml:"description" sql:"description"`
	LastUpdate  types.NullTime `json:"lastUpdate" xml:"lastUpdate" sql:"last_update"`
}

// Status 处理状态（pending / running / done / cancelled / failed）
type Status struct {
	ID          int            `json:"id" xml:"id" sql:"id"`
	ShortName   string         `json:"shortName" xml:"shortName" sql:"short_name"`
	Description string         `json:"description" xml:"description" sql:"description"`
	RGBA        string         `json:"rgba" xml:"rgba" sql:"rgba"`
	LastUpdate  types.NullTime `json:"lastUpdate" xml:"lastUpdate" sql:"last_update"`
}

// FileExtension 媒体文件扩展名
type FileExtension struct {
	ID        int    `json:"id" xml:"id" sql:"id"`
	Extension string `json:"extension" xml:"extension" sql:"extension"`
}

// Association 媒体文件所在测量与另一个参数（例如注释）之间的关联
type Association struct {
	ID                int64  `json:"id" xml:"id" sql:"id"`
	CentreID          int64  `json:"cid" xml:"cid" sql:"cid"`
	PipelineID        int64  `json:"lid" xml:"lid" sql:"lid"`
	GenotypeID        int64  `json:"gid" xml:"gid" sql:"gid"`
	StrainID          int64  `json:"sid" xml:"sid" sql:"sid"`
	ProcedureID       int64  `json:"pid" xml:"pid" sql:"pid"`
	ParameterID       int64  `json:"qid" xml:"qid" sql:"qid"`
	MeasurementID     int64  `json:"mid" xml:"mid" sql:"mid"`
	AssocParameterID  int64  `json:"aqid" xml:"aqid" sql:"assoc_qid"`
	AssocParameterKey string `json:"aqeid" xml:"aqeid" sql:"assoc_qeid"`
	AssocName         string `json:"an" xml:"an" sql:"assoc_name"`
}

// MeasurementContext 定位一次测量所需的全部键
type MeasurementContext struct {
	CentreID      int64 `form:"cid" binding:"required"`
	PipelineID    int64 `form:"lid" binding:"required"`
	GenotypeID    int64 `form:"gid"`
	StrainID      int64 `form:"sid" binding:"required"`
	ProcedureID   int64 `form:"pid" binding:"required"`
	MeasurementID int64 `form:"mid" binding:"required"`
}

// CreateMediaFileParams 新建媒体文件记录所需字段
type CreateMediaFileParams struct {
	CentreID      int64
	PipelineID    int64
	GenotypeID    int64
	StrainID      int64
	ProcedureID   int64
	ParameterID   int64
	MeasurementID int64
	URL           string
	ExtensionID   *int
}

// UpdateMediaFileParams 更新处理结果；nil 字段保持不变
type UpdateMediaFileParams struct {
	Checksum *string
	IsImage  *int
	Width    *int
	Height   *int
	StatusID *int
	PhaseID  *int
}
