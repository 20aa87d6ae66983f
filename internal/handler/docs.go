package handler

import (
	"net/http"
	"os"

	"go.uber.org/zap"
)

// DocsHandler serves OpenAPI documentation
type DocsHandler struct {
	openapiPath string
	logger      *zap.Logger
}

// NewDocsHandler creates a docs handler
func NewDocsHandler(openapiPath string, logger *zap.Logger) *DocsHandler {
	return &DocsHandler{openapiPath: openapiPath, logger: logger}
}

// ServeOpenAPI serves the openapi.yml file
func (h *DocsHandler) ServeOpenAPI(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(h.openapiPath)
	if err != nil {
		h.logger.Warn("OpenAPI document unavailable", zap.String("path", h.openapiPath), zap.Error(err))
		http.Error(w, "OpenAPI document not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Reviewer Service API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.10.3/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5.10.3/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      SwaggerUIBundle({ url: "/openapi.yml", dom_id: '#swagger-ui' });
    };
  </script>
</body>
</html>`

// ServeSwaggerUI serves a Swagger UI page pointed at /openapi.yml
func (h *DocsHandler) ServeSwaggerUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(swaggerUIPage))
}
