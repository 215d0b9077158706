// Package docs registers the swagger document of every shopgate service with
// swag. Each service serves its own instance at /swagger/.
package docs

import (
	"fmt"

	"github.com/swaggo/swag"
)

// Instance names, one per binary.
const (
	Users        = "users"
	Auth         = "auth"
	Orders       = "orders"
	Gateway      = "gateway"
	PKCEAuthz    = "pkce-authz"
	PKCEResource = "pkce-resource"
)

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/shopgate"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
%s
        "/livez": {
            "get": {"tags": ["Health"], "summary": "Health Check Endpoint", "produces": ["application/json"], "responses": {"200": {"description": "status, uptime, version"}}}
        },
        "/readyz": {
            "get": {"tags": ["Health"], "summary": "Readiness Check Endpoint", "produces": ["application/json"], "responses": {"200": {"description": "ready"}, "503": {"description": "service not ready"}}}
        },
        "/metrics": {
            "get": {"tags": ["Health"], "summary": "Prometheus metrics", "produces": ["text/plain"], "responses": {"200": {"description": "exposition format"}}}
        }
    }
}`

func register(instance, title, description, paths string) *swag.Spec {
	spec := &swag.Spec{
		Version:          "0.1.0",
		BasePath:         "/",
		Schemes:          []string{"http", "https"},
		Title:            title,
		Description:      description,
		InfoInstanceName: instance,
		SwaggerTemplate:  fmt.Sprintf(docTemplate, paths),
		LeftDelim:        "{{",
		RightDelim:       "}}",
	}
	swag.Register(spec.InstanceName(), spec)
	return spec
}
