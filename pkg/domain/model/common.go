package model

// PaginationInput 是分页输入的基础结构，可被其他请求 DTO 嵌入。
type PaginationInput struct {
	Page     int `form:"page" binding:"omitempty,gte=1"`
	PageSize int `form:"pageSize" binding:"omitempty,gte=1,lte=1000"`
}

// GetPage 获取经过处理的安全页码，默认为 1。
func (p *PaginationInput) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取经过处理的安全每页数量，默认为 20。
func (p *PaginationInput) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// Offset 返回当前页第一条记录的偏移量
func (p *PaginationInput) Offset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// PageResult 分页查询结果
type PageResult[T any] struct {
	List     []T `json:"list"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}
