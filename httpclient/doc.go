// Package httpclient is the outbound HTTP layer for provider calls.
//
// Client applies default headers and per-request authentication (bearer,
// named API-key header, raw Authorization value, or a custom function),
// classifies error statuses into *Error, and offers two modes:
//
//   - Do reads the whole response and retries connection failures.
//   - DoStream returns the open body of a 2xx response for incremental
//     decoding; it never retries.
//
// The sse subpackage frames streamed bodies into lines.
//
//	client, err := httpclient.New(httpclient.Config{Timeout: time.Minute})
//	stream, err := client.DoStream(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "https://api.openai.com/v1/chat/completions",
//	    Body:   body,
//	    Auth:   httpclient.BearerAuth(key),
//	})
package httpclient
