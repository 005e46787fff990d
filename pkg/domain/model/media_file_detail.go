package model

import (
	"encoding/xml"

	"github.com/mousephenotype/phenodcc-media/internal/pkg/types"
)

// MediaFileDetail 是一次查询返回的一行：一个动物、一次测量、一个媒体文件。
// MetadataGroup 只在服务端使用，输出时被 MetadataGroupIndex 取代。
type MediaFileDetail struct {
	ID                    *int64         `json:"id" xml:"id,omitempty" sql:"id"`
	MeasurementID         int64          `json:"mid" xml:"mid" sql:"mid"`
	AnimalID              int64          `json:"aid" xml:"aid" sql:"aid"`
	AnimalName            string         `json:"an" xml:"an" sql:"an"`
	GenotypeID            int64          `json:"gid" xml:"gid" sql:"gid"`
	Zygosity              int            `json:"z" xml:"z" sql:"z"`
	Sex                   int            `json:"g" xml:"g" sql:"g"`
	StartDate             types.NullTime `json:"d" xml:"d" sql:"d"`
	EquipmentModel        string         `json:"em" xml:"em" sql:"em"`
	EquipmentManufacturer string         `json:"en" xml:"en" sql:"en"`
	Checksum              *string        `json:"c" xml:"c,omitempty" sql:"c"`
	IsImage               *int           `json:"i" xml:"i,omitempty" sql:"i"`
	Extension             *string        `json:"e" xml:"e,omitempty" sql:"e"`
	Width                 *int           `json:"w" xml:"w,omitempty" sql:"w"`
	Height                *int           `json:"h" xml:"h,omitempty" sql:"h"`
	Phase                 *int           `json:"p" xml:"p,omitempty" sql:"p"`
	Status                *int           `json:"s" xml:"s,omitempty" sql:"s"`
	MetadataGroup         string         `json:"-" xml:"-" sql:"metadata_group"`
	MetadataGroupIndex    int64          `json:"m" xml:"m" sql:"-"`
	PipelineID            *int64         `json:"lid" xml:"lid,omitempty" sql:"lid"`
	ProcedureID           *int64         `json:"pid" xml:"pid,omitempty" sql:"pid"`
	ParameterID           *int64         `json:"qid" xml:"qid,omitempty" sql:"qid"`
}

// MetadataGroupToValues 元数据组校验和对应的完整取值
type MetadataGroupToValues struct {
	ID            int64  `json:"i" xml:"i" sql:"id"`
	MetadataGroup string `json:"m" xml:"m" sql:"metadata_group"`
	Values        string `json:"v" xml:"v" sql:"v"`
}

// ProcedureMetadataGroup 某个中心/基因型/品系/参数下出现过的（流程, 元数据组）组合
type ProcedureMetadataGroup struct {
	ProcedureKey  string `json:"procedure" sql:"procedure_key"`
	MetadataGroup string `json:"metadataGroup" sql:"metadata_group"`
}

// MediaFileDetailsPack 是媒体文件查询接口的返回信封
type MediaFileDetailsPack struct {
	XMLName        xml.Name                 `json:"-" xml:"mediaFileDetailsPack"`
	Success        bool                     `json:"success" xml:"success"`
	Total          int                      `json:"total" xml:"total"`
	MetadataGroups []*MetadataGroupToValues `json:"metadataGroups" xml:"metadataGroups"`
	Details        []*MediaFileDetail       `json:"details" xml:"details"`
}

// NewEmptyPack 返回一个不成功、total 为 0 的空信封
func NewEmptyPack() *MediaFileDetailsPack {
	return &MediaFileDetailsPack{
		MetadataGroups: []*MetadataGroupToValues{},
		Details:        []*MediaFileDetail{},
	}
}

// SetDataSet 设置结果集并同步 success/total
func (p *MediaFileDetailsPack) SetDataSet(details []*MediaFileDetail, groups []*MetadataGroupToValues) {
	if details == nil {
		details = []*MediaFileDetail{}
	}
	if groups == nil {
		groups = []*MetadataGroupToValues{}
	}
	p.Details = details
	p.MetadataGroups = groups
	p.Total = len(details)
	p.Success = p.Total > 0
}

// MediaFileFilter 查询媒体文件的过滤参数。
// 指针字段为 nil 表示请求中没有提供该参数。
type MediaFileFilter struct {
	CentreID        *int64 `form:"cid" uri:"cid"`
	PipelineID      *int64 `form:"lid"`
	GenotypeID      *int64 `form:"gid" uri:"gid"`
	StrainID        *int64 `form:"sid" uri:"sid"`
	ProcedureID     *int64 `form:"pid"`
	ParameterKey    string `form:"qeid" uri:"qeid"`
	IncludeBaseline bool   `form:"includeBaseline"`
}

// HasRequired 中心、基因型、品系和参数都必须提供
func (f *MediaFileFilter) HasRequired() bool {
	return f.CentreID != nil && f.GenotypeID != nil && f.StrainID != nil && f.ParameterKey != ""
}

// IsStrict 同时提供流程和 pipeline 时使用更严格的查询
func (f *MediaFileFilter) IsStrict() bool {
	return f.PipelineID != nil && f.ProcedureID != nil
}

// WantsBaseline 只有显式要求且不是野生型时才合并基线数据
func (f *MediaFileFilter) WantsBaseline() bool {
	return f.IncludeBaseline && f.GenotypeID != nil && *f.GenotypeID != 0
}

// DetailQuery 是仓库层使用的查询条件，由 MediaFileFilter 转换而来
type DetailQuery struct {
	CentreID     int64
	GenotypeID   int64
	StrainID     int64
	ParameterKey string
	// Strict 为 true 时额外按 PipelineID 与 ProcedureID 过滤
	Strict      bool
	PipelineID  int64
	ProcedureID int64
}

// ToDetailQuery 转换为仓库查询，调用方需先确认 HasRequired
func (f *MediaFileFilter) ToDetailQuery() DetailQuery {
	q := DetailQuery{
		CentreID:     *f.CentreID,
		GenotypeID:   *f.GenotypeID,
		StrainID:     *f.StrainID,
		ParameterKey: f.ParameterKey,
	}
	if f.IsStrict() {
		q.Strict = true
		q.PipelineID = *f.PipelineID
		q.ProcedureID = *f.ProcedureID
	}
	return q
}
