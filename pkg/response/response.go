package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/errors"
)

// The wire contract is intentionally plain: collection reads return bare JSON
// arrays and writes return a small status acknowledgement, so browser clients
// can consume responses without unwrapping an envelope.

// Ack is the acknowledgement body returned by write endpoints.
type Ack struct {
	Status string `json:"status"`
}

// Collection sends a raw JSON array, substituting an empty one for nil slices.
func Collection[T any](c *gin.Context, records []T) {
	c.Header("Cache-Control", "no-store")
	if records == nil {
		records = []T{}
	}
	c.JSON(http.StatusOK, records)
}

// OK acknowledges a successful write.
func OK(c *gin.Context) {
	c.JSON(http.StatusOK, Ack{Status: "ok"})
}

// Created acknowledges a successful create.
func Created(c *gin.Context) {
	c.JSON(http.StatusCreated, Ack{Status: "ok"})
}

// JSON sends an arbitrary success payload.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, data)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, gin.H{"status": "error", "error": appErr})
}
