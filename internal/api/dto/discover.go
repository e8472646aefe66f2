package dto

// DiscoverDrawDTO 抽取公共胶囊
type DiscoverDrawDTO struct {
	Count int `form:"count" validate:"omitempty,min=1,max=10"`
}

// DiscoverSearchDTO 检索公共胶囊
type DiscoverSearchDTO struct {
	Keyword string `form:"q" validate:"omitempty,max=64"`
	PageDTO
}
