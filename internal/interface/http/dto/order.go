package dto

// UpdateOrderStatusRequest 修改订单状态
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending shipped cancelled" example:"shipped"`
}

// ListOrdersQuery 订单列表查询参数
type ListOrdersQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=pending shipped cancelled"`
	Scope    string `form:"scope" binding:"omitempty,oneof=mine all"`
}
