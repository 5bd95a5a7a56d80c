// Package vault provides a Go client for the Cayce Vault API.
//
//	client := vault.New("https://vault.example.com")
//
//	readings, _ := client.PrecisionSearch(ctx, "healing through prayer")
//	insight, _ := client.InsightSearch(ctx, "healing through prayer")
//	status, _ := client.Health(ctx)
//
// Server-side failures are returned as *vault.APIError carrying the HTTP
// status and the server's detail message.
package vault
