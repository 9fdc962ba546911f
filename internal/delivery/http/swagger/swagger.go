package http_swagger

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const docPath = "/api/v1/swagger/doc.json"

type Controller struct {
	handler gin.HandlerFunc
}

func New() *Controller {
	return &Controller{
		handler: ginSwagger.WrapHandler(swaggerFiles.Handler,
			ginSwagger.URL(docPath),
			ginSwagger.DefaultModelsExpandDepth(-1),
		),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/swagger/*any", c.handler)
}
