package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mwhitt/bloglite/internal/middleware"
)

// NewRouter builds the gin engine with the full route table. templates is a
// glob pattern for the HTML templates.
func NewRouter(h *Handler, templates string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(gin.CustomRecovery(middleware.HandlePanics()))
	r.LoadHTMLGlob(templates)

	r.GET("/", h.ListPosts)
	r.GET("/post/:id", h.ShowPost)
	r.GET("/new-post", h.NewPost)
	r.POST("/new-post", h.CreatePost)
	r.GET("/edit_post/:id", h.EditPost)
	r.POST("/edit_post/:id", h.UpdatePost)
	r.GET("/delete/:id", h.DeletePost)
	r.GET("/about", h.About)
	r.GET("/contact", h.Contact)

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	r.NoRoute(func(c *gin.Context) {
		h.notFound(c)
	})

	return r
}
