package dto

// CompanyRequest 创建/修改公司
type CompanyRequest struct {
	Name        string `json:"name" binding:"required,max=255" example:"Acme Books"`
	Description string `json:"description" binding:"max=5000" example:""`
	Website     string `json:"website" binding:"omitempty,url,max=200" example:"https://acme.example.com"`
}

// PageQuery 通用分页参数
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}
