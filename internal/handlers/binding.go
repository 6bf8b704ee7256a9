package handlers

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
)

// BindNestedOrFlat binds the request body to obj, accepting both the wrapped
// form {"loan": {...}} and the flat form {...}. Clients generated from the
// older API send the wrapped shape; everything else sends flat JSON. When the
// wrapper key is present its value must bind, flat fallback only applies when
// the key is absent.
func BindNestedOrFlat(c *gin.Context, key string, obj interface{}) error {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
	}
	// Leave the body readable for any later binding on the same request.
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err == nil {
		if inner, ok := wrapper[key]; ok {
			return json.Unmarshal(inner, obj)
		}
	}

	return json.Unmarshal(body, obj)
}
