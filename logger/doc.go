// Package logger provides structured logging for inkflow using zerolog.
//
// Logs go to stderr by default so the terminal host can keep stdout for the
// document. Component loggers ("completion", "llm", "httpclient") are
// obtained through Get and share the configured level and format.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("completion")
//	log.Info("session completed", logger.Fields(logger.FieldSessionID, id))
package logger
