// internal/gems/schema.go
package gems

import "gemfinder/internal/common/validation"

var gemsPageSchema = validation.MustCompile("gems-page", map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"result"},
	"properties": map[string]interface{}{
		"result": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "object"},
		},
		"totalPages": map[string]interface{}{"type": "integer", "minimum": 0},
		"totalItems": map[string]interface{}{"type": "integer", "minimum": 0},
	},
})

var categoriesSchema = validation.MustCompile("categories", map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"result"},
	"properties": map[string]interface{}{
		"result": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "object"},
		},
	},
})

// errorBody is the shape of a backend error response.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
