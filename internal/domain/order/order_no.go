package order

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// GenerateOrderNo 生成订单号
// 格式:ORD + 时间(yyyyMMddHHmmss) + 6位随机数,例如ORD20260101120000123456
// 订单号只用于展示和对账,唯一性由数据库唯一索引保证
func GenerateOrderNo() string {
	return generateOrderNo(time.Now())
}

func generateOrderNo(now time.Time) string {
	return fmt.Sprintf("ORD%s%06d", now.Format("20060102150405"), rand.IntN(1000000))
}
