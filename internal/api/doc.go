// Package api provides the certificate REST API.
//
//	@title						CarbonJar Certificates API
//	@version					1.0
//	@description				Issue, verify and share course completion certificates.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package api
