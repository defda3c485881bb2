// Package llm turns a prompt into a stream of text fragments from one of
// several interchangeable chat-completion providers.
//
// Three tables drive it:
//
//   - the provider registry (Lookup, Providers): id, endpoint, family, models
//   - the dialect table (DialectFor): per-family auth, body shape and
//     fragment extraction
//   - Settings: the user's provider choice and per-provider overrides
//
// Adding a provider that speaks an existing wire shape is one registry row;
// adding a new wire shape is one RegisterDialect call.
//
// # Usage
//
//	client := llm.NewClient(llm.NewHTTPTransport(httpClient))
//	req, err := client.Prepare(settings, "list three colors")
//	stream, err := client.Open(ctx, req)
//	defer stream.Close()
//	for {
//	    f, ok, err := stream.Next(ctx)
//	    if err != nil || !ok {
//	        break
//	    }
//	    fmt.Print(f.Text)
//	}
package llm
