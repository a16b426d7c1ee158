package router

// ルート名はそのままチャンクのトピックフィルタ値として使われる
const (
	RouteProducts = "products"
	RouteChitchat = "chitchat"
)

// ProductsSamples は商品相談ルートの代表発話
var ProductsSamples = []string{
	"Tôi muốn mua điện thoại Samsung",
	"Điện thoại iPhone 15 giá bao nhiêu?",
	"Cho tôi xem các mẫu điện thoại mới nhất",
	"Máy này có mấy màu?",
	"Điện thoại nào pin trâu nhất?",
	"So sánh camera của iPhone và Samsung giúp tôi",
	"Có khuyến mãi gì khi mua Xiaomi không?",
	"Tư vấn điện thoại chơi game trong tầm giá 10 triệu",
	"Máy còn hàng không shop?",
	"Thông số kỹ thuật của Galaxy S24 thế nào?",
	"Điện thoại này có hỗ trợ sạc nhanh không?",
	"Mua trả góp điện thoại cần những giấy tờ gì?",
}

// ChitchatSamples は雑談ルートの代表発話
var ChitchatSamples = []string{
	"Xin chào",
	"Chào buổi sáng",
	"Bạn khỏe không?",
	"Hôm nay thời tiết thế nào?",
	"Bạn tên là gì?",
	"Cảm ơn bạn nhiều nhé",
	"Tạm biệt",
	"Bạn có thể kể chuyện cười không?",
	"Dạo này có gì vui không?",
	"Chúc một ngày tốt lành",
}

// DefaultRoutes は既定のルート構成を返す
func DefaultRoutes() []Route {
	return []Route{
		{Name: RouteProducts, Samples: ProductsSamples},
		{Name: RouteChitchat, Samples: ChitchatSamples},
	}
}
