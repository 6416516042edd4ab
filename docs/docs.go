// Package docs registra la definición OpenAPI servida en /swagger/.
// Se regenera con: swag init -g cmd/api/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/animals": {
            "get": {
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Listar animales",
                "responses": {"200": {"description": "OK"}, "500": {"description": "Failed to fetch animals"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Registrar animal",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}}
            }
        },
        "/api/animals/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Buscar animales",
                "parameters": [
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "string", "name": "species", "in": "query"},
                    {"type": "string", "name": "vaccinationStatus", "in": "query"},
                    {"type": "string", "name": "area", "in": "query"},
                    {"type": "string", "name": "healthStatus", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/animals/lookup/{publicId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Buscar por identificador público",
                "parameters": [{"type": "string", "name": "publicId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Animal not found"}}
            }
        },
        "/api/animals/export.xlsx": {
            "get": {
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["animals"],
                "summary": "Exportar registro",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/animals/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Obtener animal",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Animal not found"}}
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Actualizar animal",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Animal not found"}}
            },
            "delete": {
                "tags": ["animals"],
                "summary": "Eliminar animal",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Animal not found"}}
            }
        },
        "/api/animals/{id}/qr.png": {
            "get": {
                "produces": ["image/png"],
                "tags": ["animals"],
                "summary": "Imagen QR del animal",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Animal not found"}}
            }
        },
        "/api/animals/{id}/tag": {
            "get": {
                "produces": ["text/html"],
                "tags": ["animals"],
                "summary": "Etiqueta imprimible",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Animal not found"}}
            }
        },
        "/api/animals/{id}/vaccinations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["vaccinations"],
                "summary": "Listar vacunas del animal",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Animal not found"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["vaccinations"],
                "summary": "Registrar vacuna",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}, "404": {"description": "Animal not found"}}
            }
        },
        "/api/helplines": {
            "get": {
                "produces": ["application/json"],
                "tags": ["helplines"],
                "summary": "Directorio de ayuda",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Estadísticas del dashboard",
                "responses": {"200": {"description": "OK"}, "500": {"description": "Failed to fetch stats"}}
            }
        },
        "/api/upload": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["uploads"],
                "summary": "Subir foto",
                "parameters": [{"type": "file", "name": "photo", "in": "formData", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid file"}, "500": {"description": "File upload failed"}}
            }
        },
        "/api/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Estado del servicio",
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "StreetPaws API",
	Description:      "Registro de animales callejeros, vacunas, ayuda y etiquetas QR.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
