package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>dayboard API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Paths assume the default MESSAGES_PREFIX and VIEWS_PREFIX.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "dayboard", "version": "v0.1.0" },
  "components": {
    "schemas": {
      "Message": { "type": "object", "properties": { "id": {"type":"integer"}, "body": {"type":"string"}, "createdAt": {"type":"string","format":"date-time"}, "updatedAt": {"type":"string","format":"date-time"} } },
      "MessageInput": { "type": "object", "required": ["message"], "properties": { "message": {"type":"string","minLength":1,"maxLength":280} } },
      "BlogView": { "type": "object", "properties": { "slug": {"type":"string"}, "count": {"type":"integer"}, "lastViewed": {"type":"string","format":"date-time"}, "uniqueVisitors": {"type":"integer"} } },
      "VisitInput": { "type": "object", "required": ["visitorId"], "properties": { "visitorId": {"type":"string","minLength":1} } }
    }
  },
  "paths": {
    "/messages": {
      "get": { "summary": "List messages in today's bucket", "responses": { "200": { "description": "cacheDate, totalCount and items" } } },
      "post": { "summary": "Create a message", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/MessageInput"} } } }, "responses": { "201": { "description": "created item" }, "400": { "description": "validation failed" } } },
      "delete": { "summary": "Delete every message in today's bucket", "responses": { "200": { "description": "cleared" } } }
    },
    "/messages/{id}": {
      "put": { "summary": "Replace a message body", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/MessageInput"} } } }, "responses": { "200": { "description": "updated item" }, "400": { "description": "validation failed" }, "404": { "description": "no such message" } } },
      "delete": { "summary": "Delete a message", "responses": { "200": { "description": "remaining items" }, "404": { "description": "no such message" } } }
    },
    "/views": {
      "get": { "summary": "List view counters", "responses": { "200": { "description": "totalCount and items" } } }
    },
    "/views/{slug}": {
      "get": { "summary": "Count a view (de-duplicated when visitorId query is set)", "responses": { "200": { "description": "updated counter" }, "400": { "description": "empty visitorId" } } },
      "post": { "summary": "Count a de-duplicated view", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/VisitInput"} } } }, "responses": { "200": { "description": "updated counter" }, "400": { "description": "missing visitorId" } } }
    },
    "/views/{slug}/stats": {
      "get": { "summary": "Read a counter without counting", "responses": { "200": { "description": "counter" }, "404": { "description": "never viewed" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition" } } } }
  }
}`
