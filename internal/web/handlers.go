package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mwhitt/bloglite/blog/application"
	"github.com/mwhitt/bloglite/blog/domain"
	"github.com/rs/zerolog/log"
)

// Handler serves every page of the blog. It holds no per-request state; all
// state lives in the store behind the service.
type Handler struct {
	service  *application.PostService
	renderer application.BodyRenderer
}

func NewHandler(service *application.PostService, renderer application.BodyRenderer) *Handler {
	return &Handler{
		service:  service,
		renderer: renderer,
	}
}

// postCard is the listing view model for a single post.
type postCard struct {
	*domain.Post
	Excerpt string
}

// ListPosts renders the front page with every post.
func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.service.ListPosts(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}

	cards := make([]postCard, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, postCard{Post: p, Excerpt: application.Excerpt(p.Body)})
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Posts": cards,
	})
}

// ShowPost renders a single post's detail page.
func (h *Handler) ShowPost(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	post, err := h.service.GetPost(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err)
		return
	}

	body, err := h.renderer.Render(post.Body)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.HTML(http.StatusOK, "post.html", gin.H{
		"Post":     post,
		"BodyHTML": body,
	})
}

// NewPost renders the empty create form.
func (h *Handler) NewPost(c *gin.Context) {
	h.renderForm(c, http.StatusOK, formView{Action: "/new-post"})
}

// CreatePost handles a create form submission.
func (h *Handler) CreatePost(c *gin.Context) {
	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderForm(c, http.StatusBadRequest, formView{Action: "/new-post", Form: form})
		return
	}

	if fieldErrs := form.Validate(); fieldErrs != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, formView{
			Action: "/new-post",
			Form:   form,
			Errors: fieldErrs,
		})
		return
	}

	_, err := h.service.CreatePost(c.Request.Context(), form.Fields())
	if errors.Is(err, domain.ErrDuplicateTitle) {
		h.renderForm(c, http.StatusUnprocessableEntity, formView{
			Action:   "/new-post",
			Form:     form,
			Conflict: err.Error(),
		})
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// EditPost renders the edit form pre-filled with the existing post.
func (h *Handler) EditPost(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	post, err := h.service.GetPost(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err)
		return
	}

	h.renderForm(c, http.StatusOK, formView{
		Editing: true,
		Action:  "/edit_post/" + strconv.FormatInt(id, 10),
		Form: PostForm{
			Title:    post.Title,
			Subtitle: post.Subtitle,
			Author:   post.Author,
			ImgURL:   post.ImgURL,
			Body:     post.Body,
		},
	})
}

// UpdatePost handles an edit form submission.
func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	action := "/edit_post/" + strconv.FormatInt(id, 10)

	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderForm(c, http.StatusBadRequest, formView{Editing: true, Action: action, Form: form})
		return
	}

	if fieldErrs := form.Validate(); fieldErrs != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, formView{
			Editing: true,
			Action:  action,
			Form:    form,
			Errors:  fieldErrs,
		})
		return
	}

	_, err := h.service.EditPost(c.Request.Context(), id, form.Fields())
	if errors.Is(err, domain.ErrDuplicateTitle) {
		h.renderForm(c, http.StatusUnprocessableEntity, formView{
			Editing:  true,
			Action:   action,
			Form:     form,
			Conflict: err.Error(),
		})
		return
	}
	if err != nil {
		h.storeError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/post/"+strconv.FormatInt(id, 10))
}

// DeletePost removes a post and returns to the front page.
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), id); err != nil {
		h.storeError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) About(c *gin.Context) {
	c.HTML(http.StatusOK, "about.html", nil)
}

func (h *Handler) Contact(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", nil)
}

// formView is everything make-post.html needs to render either flow.
type formView struct {
	Editing  bool
	Action   string
	Form     PostForm
	Errors   FieldErrors
	Conflict string
}

func (h *Handler) renderForm(c *gin.Context, status int, view formView) {
	c.HTML(status, "make-post.html", gin.H{
		"Editing":  view.Editing,
		"Action":   view.Action,
		"Form":     view.Form,
		"Errors":   view.Errors,
		"Conflict": view.Conflict,
	})
}

// postID parses the :id route parameter. A non-integer or non-positive value
// is treated the same as an unknown post.
func (h *Handler) postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.notFound(c)
		return 0, false
	}
	return id, true
}

func (h *Handler) storeError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrPostNotFound) {
		h.notFound(c)
		return
	}
	h.serverError(c, err)
}

func (h *Handler) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "error.html", gin.H{
		"Status":  http.StatusNotFound,
		"Message": "That post doesn't exist.",
	})
	c.Abort()
}

func (h *Handler) serverError(c *gin.Context, err error) {
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Status":  http.StatusInternalServerError,
		"Message": "Something went wrong.",
	})
	c.Abort()
}
