package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/dayboard/dayboard/internal/message/service"
	"github.com/dayboard/dayboard/pkg/logger"
	"github.com/dayboard/dayboard/pkg/respond"
)

// DefaultMaxLength is the longest accepted message body, in characters.
const DefaultMaxLength = 280

// messageRequest accepts the text under "message", or "body" as an alias.
type messageRequest struct {
	Message *string `json:"message"`
	Body    *string `json:"body"`
}

func (r messageRequest) text() *string {
	if r.Message != nil {
		return r.Message
	}
	return r.Body
}

type handler struct {
	svc       service.Service
	validate  *validator.Validate
	bodyRules string
	maxLength int
}

// RegisterMessageRoutes mounts the message endpoints on rg. maxLength <= 0
// falls back to DefaultMaxLength.
func RegisterMessageRoutes(rg gin.IRoutes, svc service.Service, maxLength int) {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	h := &handler{
		svc:       svc,
		validate:  validator.New(),
		bodyRules: fmt.Sprintf("min=1,max=%d", maxLength),
		maxLength: maxLength,
	}
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.DELETE("", h.deleteAll)
}

func (h *handler) list(c *gin.Context) {
	items := h.svc.List(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"cacheDate": h.svc.BucketKey(), "totalCount": len(items), "items": items})
}

func (h *handler) create(c *gin.Context) {
	body, ok := h.bindBody(c)
	if !ok {
		return
	}
	m, err := h.svc.Create(c.Request.Context(), body)
	if err != nil {
		h.fail(c, 0, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": m})
}

func (h *handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	body, ok := h.bindBody(c)
	if !ok {
		return
	}
	m, err := h.svc.Update(c.Request.Context(), id, body)
	if err != nil {
		h.fail(c, id, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": m})
}

func (h *handler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rest, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		h.fail(c, id, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    fmt.Sprintf("Message with ID %d deleted successfully.", id),
		"totalCount": len(rest),
		"items":      rest,
	})
}

func (h *handler) deleteAll(c *gin.Context) {
	h.svc.DeleteAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "All messages deleted successfully."})
}

func (h *handler) fail(c *gin.Context, id int, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respond.NotFound(c, fmt.Sprintf("Message with ID %d not found.", id))
	case errors.Is(err, service.ErrEmptyBody):
		respond.BadRequest(c, "Message must be at least 1 character long.")
	default:
		logger.Errorf("message %s: %v", c.Request.Method, err)
		respond.InternalError(c)
	}
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respond.BadRequest(c, "Invalid message ID.")
		return 0, false
	}
	return id, true
}

// bindBody decodes and validates the request text, writing a 400 on failure.
func (h *handler) bindBody(c *gin.Context) (string, bool) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			respond.BadRequest(c, "Message must be a string.")
		} else {
			respond.BadRequest(c, "Request body must be valid JSON.")
		}
		return "", false
	}
	text := req.text()
	if text == nil {
		respond.BadRequest(c, "Message is required.")
		return "", false
	}
	if err := h.validate.Var(*text, h.bodyRules); err != nil {
		respond.BadRequest(c, h.describe(err)...)
		return "", false
	}
	return *text, true
}

func (h *handler) describe(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "min":
			out = append(out, "Message must be at least 1 character long.")
		case "max":
			out = append(out, fmt.Sprintf("Message must be %d characters or less.", h.maxLength))
		default:
			out = append(out, fmt.Sprintf("Message failed %q validation.", fe.Tag()))
		}
	}
	return out
}
