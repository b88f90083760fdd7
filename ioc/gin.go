package ioc

import (
	"net/http"
	"strings"

	"github.com/ecodeclub/emall/internal/cart"
	"github.com/ecodeclub/emall/internal/order"
	"github.com/ecodeclub/emall/internal/payment"
	"github.com/ecodeclub/ginx/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/server/egin"
)

func initGinxServer(sp session.Provider,
	cartHdl *cart.Handler,
	orderHdl *order.Handler,
	payHdl *payment.Handler,
) *egin.Component {
	session.SetDefaultProvider(sp)
	res := egin.Load("web").Build()
	res.Use(cors.New(cors.Config{
		ExposeHeaders:    []string{"X-Refresh-Token", "X-Access-Token"},
		AllowCredentials: true,
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowOriginFunc: func(origin string) bool {
			if strings.HasPrefix(origin, "http://localhost") {
				return true
			}
			// 只允许我的域名过来的
			return strings.Contains(origin, "meoying.com")
		},
	}))
	res.GET("/hello", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "hello, world!")
	})
	// 支付渠道回调不走登录
	payHdl.PublicRoutes(res.Engine)
	// 登录校验
	res.Use(session.CheckLoginMiddleware())
	cartHdl.PrivateRoutes(res.Engine)
	orderHdl.PrivateRoutes(res.Engine)
	payHdl.PrivateRoutes(res.Engine)
	return res
}
