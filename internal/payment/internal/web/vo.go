package web

type PaymentStatusReq struct {
	OrderSN string `json:"orderSN"`
}

type PaymentVO struct {
	SN          string `json:"sn"`
	OrderSN     string `json:"orderSN"`
	TotalAmount int64  `json:"totalAmount"`
	Currency    string `json:"currency"`
	Channel     int64  `json:"channel"`
	PayURL      string `json:"payURL,omitempty"`
	Status      int64  `json:"status"`
	PaidAt      int64  `json:"paidAt,omitempty"`
}

// EpayCallbackReq 通用网关回调推送。内容不可信,只取订单号去查单
type EpayCallbackReq struct {
	OutTradeNo string `json:"outTradeNo"`
	TrackingID string `json:"trackingId"`
	State      string `json:"state"`
}
