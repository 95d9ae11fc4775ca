package main

// General API documentation for swaggo. Regenerate with
// `swag init -g cmd/modelsvc/docs.go -o docs`.
//
// @title           modelsvc API
// @version         1.0
// @description     HTTP API serving a single prediction model: status, metadata, predictions and file jobs.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
