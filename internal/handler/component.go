package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"vuebridge-backend/internal/component"
	"vuebridge-backend/internal/model"
	"vuebridge-backend/internal/service"
	"vuebridge-backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type ComponentHandler struct {
	componentService *service.ComponentService
}

func NewComponentHandler(componentService *service.ComponentService) *ComponentHandler {
	return &ComponentHandler{
		componentService: componentService,
	}
}

// RegisterRoutes mounts the component endpoints on group.
func (h *ComponentHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.GET("/:name/script", h.Script)
	group.POST("/:name/update", h.Update)
	group.PUT("/:name/content", h.PutContent)
	group.DELETE("/:name/content", h.DeleteContent)
}

func (h *ComponentHandler) List(c *gin.Context) {
	components, err := h.componentService.List()
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"components": components,
	})
}

// PutContent replaces the stored content file of a component with the
// request body.
func (h *ComponentHandler) PutContent(c *gin.Context) {
	content, err := c.GetRawData()
	if err != nil {
		h.fail(c, fmt.Errorf("%w: %v", component.ErrMalformedRequest, err))
		return
	}

	name := c.Param("name")
	if err := h.componentService.PutContent(name, content); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"name": name, "bytes": len(content)})
}

func (h *ComponentHandler) DeleteContent(c *gin.Context) {
	if err := h.componentService.DeleteContent(c.Param("name")); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ComponentHandler) Script(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.componentService.RenderScript(c.Param("name"), &buf); err != nil {
		h.fail(c, err)
		return
	}

	c.Data(http.StatusOK, "application/javascript; charset=utf-8", buf.Bytes())
}

func (h *ComponentHandler) Update(c *gin.Context) {
	req, err := bindUpdate(c)
	if err != nil {
		h.fail(c, fmt.Errorf("%w: %v", component.ErrMalformedRequest, err))
		return
	}

	patch, err := h.componentService.Update(c.Request.Context(), GetRequestID(c), c.Param("name"), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, patch)
}

// bindUpdate reads an update either from a JSON body or from multipart form
// fields of the same names, whose values are JSON encoded.
func bindUpdate(c *gin.Context) (component.Request, error) {
	var body model.UpdateRequest

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if c.Request.ContentLength == 0 {
			return component.Request{}, nil
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			return component.Request{}, err
		}
		return toRequest(body, nil), nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return component.Request{}, err
	}

	field := func(key string) json.RawMessage {
		if v := form.Value[key]; len(v) > 0 && v[0] != "" {
			return json.RawMessage(v[0])
		}
		return nil
	}
	body.Data = field("data")
	body.Props = field("props")
	body.Parameters = field("parameters")
	if v := form.Value["method"]; len(v) > 0 {
		body.Method = v[0]
	}

	if err := binding.Validator.ValidateStruct(&body); err != nil {
		return component.Request{}, err
	}
	return toRequest(body, component.FormFiles(form.File)), nil
}

func toRequest(body model.UpdateRequest, files component.FileLookup) component.Request {
	return component.Request{
		Data:       body.Data,
		Props:      body.Props,
		Method:     body.Method,
		Parameters: body.Parameters,
		Files:      files,
	}
}

func (h *ComponentHandler) fail(c *gin.Context, err error) {
	kind := errorKind(err)
	c.JSON(statusFor(kind), model.ErrorResponse{
		Error:     err.Error(),
		Kind:      kind,
		RequestID: GetRequestID(c),
	})
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, storage.ErrContentNotFound):
		return "ContentNotFound"
	case errors.Is(err, storage.ErrInvalidName):
		return "InvalidName"
	default:
		return component.KindName(err)
	}
}

func statusFor(kind string) int {
	switch kind {
	case "MalformedRequest", "ArityMismatch", "InvalidArgument", "InvalidName":
		return http.StatusBadRequest
	case "MethodNotFound", "UnknownComponent", "ContentNotFound":
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
