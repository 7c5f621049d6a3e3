package server

//go:generate swag init -g internal/server/swagger.go -o internal/server/docs

// @title Paydash API
// @version 0.1
// @description JSON surface of the payment dashboard: validation and transformation actions, paged operation histories and statistics. Every call acts on the session named by the paydash_session cookie.
// @contact.name Paydash Maintainers
// @contact.url https://github.com/raysh454/paydash
// @BasePath /

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/raysh454/paydash/internal/server/docs" // registers the generated spec
)

func swaggerHandler() http.HandlerFunc {
	return httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))
}
