package router

import (
	"github.com/gin-gonic/gin"
	"github.com/worldguard/WorldGuard/config"
	"github.com/worldguard/WorldGuard/webserver/controller"
)

func New(vc *controller.VerificationController) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("health", controller.GetHealth)
	api := engine.Group("/api")
	{
		api.POST("verify", vc.PostVerify)
		api.GET("status/:Signal", vc.GetStatus)
		api.GET("outcomes/:ChatIdentifier", controller.GetOutcomes)
	}
	return engine
}

func Run(vc *controller.VerificationController) error {
	return New(vc).Run(config.GetConfig().Address)
}
