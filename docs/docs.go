// Package docs registra el documento OpenAPI que sirve /swagger/*.
// Se regenera con `swag init -g cmd/api/main.go`.
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
        "/health": {
            "get": {
                "tags": [
                    "health"
                ],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/login": {
            "get": {
                "tags": [
                    "auth"
                ],
                "summary": "Página de login",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/auth/signup": {
            "post": {
                "tags": [
                    "auth"
                ],
                "summary": "Registro con email y password",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/auth/signin": {
            "post": {
                "tags": [
                    "auth"
                ],
                "summary": "Login con email y password",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/auth/signout": {
            "post": {
                "tags": [
                    "auth"
                ],
                "summary": "Cerrar sesión",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/auth/oauth/google/start": {
            "get": {
                "tags": [
                    "auth"
                ],
                "summary": "Iniciar login con Google",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/auth/callback": {
            "get": {
                "tags": [
                    "auth"
                ],
                "summary": "Callback OAuth",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/auth/redirect": {
            "get": {
                "tags": [
                    "auth"
                ],
                "summary": "Redirección post-login",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/register": {
            "post": {
                "tags": [
                    "registration"
                ],
                "summary": "Enviar wizard de registro",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/register/draft": {
            "get": {
                "tags": [
                    "registration"
                ],
                "summary": "Ver borrador del wizard",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "put": {
                "tags": [
                    "registration"
                ],
                "summary": "Actualizar borrador",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "delete": {
                "tags": [
                    "registration"
                ],
                "summary": "Descartar borrador",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/register/draft/next": {
            "post": {
                "tags": [
                    "registration"
                ],
                "summary": "Avanzar un paso",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/register/draft/back": {
            "post": {
                "tags": [
                    "registration"
                ],
                "summary": "Volver un paso",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/dashboard": {
            "get": {
                "tags": [
                    "dashboard"
                ],
                "summary": "Dashboard del dueño",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/pets": {
            "get": {
                "tags": [
                    "pets"
                ],
                "summary": "Listar mis mascotas",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/pets/{petID}": {
            "get": {
                "tags": [
                    "pets"
                ],
                "summary": "Ver mascota (solo dueño)",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    }
                ]
            },
            "patch": {
                "tags": [
                    "pets"
                ],
                "summary": "Editar mascota",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/pets/{petID}/photos/{slot}": {
            "put": {
                "tags": [
                    "pets"
                ],
                "summary": "Reemplazar foto",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "slot",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/pets/{petID}/nfc": {
            "get": {
                "tags": [
                    "nfc"
                ],
                "summary": "Estado NFC de la mascota",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    }
                ]
            },
            "delete": {
                "tags": [
                    "nfc"
                ],
                "summary": "Desvincular tag",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/pets/{petID}/nfc/manual": {
            "post": {
                "tags": [
                    "nfc"
                ],
                "summary": "Marcar tag como conectado (manual)",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/pets/{petID}/nfc/pairing": {
            "post": {
                "tags": [
                    "nfc"
                ],
                "summary": "Iniciar pairing",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/pets/{petID}/nfc/pairing/{sessionID}": {
            "get": {
                "tags": [
                    "nfc"
                ],
                "summary": "Ver sesión de pairing",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "sessionID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/pets/{petID}/nfc/pairing/{sessionID}/read": {
            "post": {
                "tags": [
                    "nfc"
                ],
                "summary": "Reportar contenido leído del tag",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "sessionID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/pets/{petID}/nfc/pairing/{sessionID}/confirm": {
            "post": {
                "tags": [
                    "nfc"
                ],
                "summary": "Confirmar sobrescritura del tag",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "sessionID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/pets/{petID}/nfc/pairing/{sessionID}/cancel": {
            "post": {
                "tags": [
                    "nfc"
                ],
                "summary": "Cancelar pairing",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "sessionID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/pets/{petID}/nfc/pairing/{sessionID}/written": {
            "post": {
                "tags": [
                    "nfc"
                ],
                "summary": "Tag escrito",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "sessionID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/pets/{petID}/nfc/pairing/{sessionID}/failed": {
            "post": {
                "tags": [
                    "nfc"
                ],
                "summary": "Reportar error de escritura",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "sessionID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/contacts": {
            "get": {
                "tags": [
                    "contacts"
                ],
                "summary": "Listar contactos",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "put": {
                "tags": [
                    "contacts"
                ],
                "summary": "Reemplazar contactos",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/scans": {
            "get": {
                "tags": [
                    "scans"
                ],
                "summary": "Logs de scans",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/p/{petID}": {
            "get": {
                "tags": [
                    "profile"
                ],
                "summary": "Perfil público de la mascota",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/p/{petID}/scans": {
            "post": {
                "tags": [
                    "scans"
                ],
                "summary": "Registrar scan del tag",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/p/{petID}/scans/{scanID}": {
            "patch": {
                "tags": [
                    "scans"
                ],
                "summary": "Agregar ubicación a un scan",
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "petID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "scanID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/{slug}": {
            "get": {
                "tags": [
                    "profile"
                ],
                "summary": "Perfil público por slug",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "name": "slug",
                        "in": "path",
                        "required": true
                    }
                ]
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
	Title:            "Pet Tag API",
	Description:      "Perfiles de mascotas con tag NFC: registro, pairing, perfil público y scans.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
