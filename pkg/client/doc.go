// Package client implements the HTTP side of the image fetcher.
//
// A Client issues plain GET requests with a single identifying header
// (User-Agent: UbuntuImageFetcher/1.0) and a 12 second timeout that covers
// the whole exchange, body included. Redirects follow net/http defaults.
//
// Failures are never returned raw: Get and Response.ReadAll hand back an
// *errors.Error whose Type tells the caller what went wrong:
//
//	malformed_url  the URL cannot be turned into a request
//	http_status    the server answered with a non-2xx status
//	timeout        the deadline passed before the exchange finished
//	connection     DNS, refused or reset connections, TLS failures
//	unexpected     anything else
//
// Usage:
//
//	c := client.NewClient(client.DefaultTimeout, log)
//	resp, err := c.Get(ctx, "https://example.com/cat.png")
//	if err != nil {
//	    return err
//	}
//	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "image/") {
//	    resp.Close()
//	    return nil
//	}
//	body, err := resp.ReadAll()
package client
