package dto

// Response 统一响应封装
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PageDTO 分页参数
type PageDTO struct {
	Page int `form:"page" json:"page" validate:"omitempty,min=1"`
	Size int `form:"size" json:"size" validate:"omitempty,min=1,max=50"`
}

// Normalize 填充分页默认值
func (p *PageDTO) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 || p.Size > 50 {
		p.Size = 10
	}
}
