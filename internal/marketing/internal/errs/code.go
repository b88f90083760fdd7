package errs

var (
	SystemError     = ErrorCode{Code: 507001, Msg: "系统错误"}
	DiscountInvalid = ErrorCode{Code: 507002, Msg: "优惠码无效"}
)

type ErrorCode struct {
	Code int
	Msg  string
}
