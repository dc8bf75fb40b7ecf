package http_server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meysamhadeli/wsengine/logger"
	"github.com/meysamhadeli/wsengine/workspace/contracts"
)

// NewRouter builds a Gin engine serving one workspace.
func NewRouter(ws contracts.IWorkspace, accessToken string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logMiddleware(), accessTokenMiddleware(accessToken))

	r.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": true})
	})

	with := func(fn func(*workspaceController)) gin.HandlerFunc {
		return func(ctx *gin.Context) {
			fn(newWorkspaceController(ctx, ws))
		}
	}

	files := r.Group("/files")
	{
		files.GET("", with(func(c *workspaceController) { c.ListFiles() }))
		files.GET("/content", with(func(c *workspaceController) { c.ReadFile() }))
	}

	r.GET("/search", with(func(c *workspaceController) { c.Search() }))
	r.POST("/edits", with(func(c *workspaceController) { c.ApplyEdits() }))
	r.POST("/rollback", with(func(c *workspaceController) { c.Rollback() }))

	snapshots := r.Group("/snapshots")
	{
		snapshots.GET("", with(func(c *workspaceController) { c.ListSnapshots() }))
		snapshots.GET("/:id/diff", with(func(c *workspaceController) { c.DiffSnapshot() }))
	}

	return r
}

func accessTokenMiddleware(token string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token == "" {
			ctx.Next()
			return
		}

		requestedToken := ctx.GetHeader(AccessTokenHeader)
		if requestedToken == "" || requestedToken != token {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"ok":    false,
				"error": "unauthorized",
			})
			return
		}

		ctx.Next()
	}
}

func logMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		logger.Info("http: %v %v", ctx.Request.Method, ctx.Request.URL.String())
		ctx.Next()
	}
}
