// Package api exposes the router over HTTP: the chat provider webhook, the
// authenticated REST API and the MCP endpoint.
//
//	@title						ArcAgent API
//	@version					1.0
//	@description				Chat payment assistant: registrations, payments and account reads.
//	@BasePath					/
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						X-API-Key
package api

//go:generate go run github.com/swaggo/swag/cmd/swag@v1.16.6 init --generalInfo doc.go --dir .,./handler,./request,./response,../core,../model,../activity --output docs --outputTypes go
