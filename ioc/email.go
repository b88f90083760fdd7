package ioc

import (
	"github.com/ecodeclub/emall/internal/email"
	"github.com/ecodeclub/emall/internal/email/aliyun"
	"github.com/gotomicro/ego/core/econf"
)

func InitEmailService() email.Service {
	type Config struct {
		AccessKeyID     string `yaml:"accessKeyID"`
		AccessKeySecret string `yaml:"accessKeySecret"`
		AccountName     string `yaml:"accountName"`
	}
	var cfg Config
	err := econf.UnmarshalKey("aliyun.dm", &cfg)
	if err != nil {
		panic(err)
	}
	svc, err := aliyun.NewAliyunDirectMailAPI(cfg.AccessKeyID, cfg.AccessKeySecret, cfg.AccountName)
	if err != nil {
		panic(err)
	}
	return svc
}
