package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// 在线文档路径
const (
	docsPrefix   = "/v0/api-docs"
	docsSpecPath = docsPrefix + "/openapi.yaml"
)

// registerDocs 注册 OpenAPI 文档与 Swagger UI
func registerDocs(router *gin.Engine, spec []byte) {
	docs := router.Group(docsPrefix)
	docs.GET("/*any", func(c *gin.Context) {
		if c.Request.URL.Path == docsSpecPath {
			c.Data(http.StatusOK, "application/yaml; charset=utf-8", spec)
			return
		}
		if c.Param("any") == "/" {
			c.Redirect(http.StatusMovedPermanently, docsPrefix+"/index.html")
			return
		}
		swaggerUI(c)
	})
}

var swaggerUI = ginSwagger.WrapHandler(swaggerFiles.Handler,
	ginSwagger.URL(docsSpecPath),
	ginSwagger.DocExpansion("list"),
)
