// Package download provides the mirroring engine: it walks course sources,
// extracts their material links and transfers each file to disk.
//
// # Manager
//
// The Manager coordinates the entire process, strictly one step at a time:
//
//  1. Fetch the source page and isolate its link region
//  2. Resolve every link to a remote URL and a local path
//  3. Skip files already present (unless forced)
//  4. Download the rest, with Basic Authentication where required
//
// # Basic Usage
//
//	manager := download.NewManager(client, settings.Options(), store, download.Unattended{},
//	    func(event download.ProgressEvent) {
//	        fmt.Println(event.Message)
//	    })
//
//	summary, err := manager.Run(ctx, sources)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Failure Handling
//
// A page that cannot be reached is handed to the FailurePolicy, which may
// ask the operator to reconnect and retry. A 401 on a file stops the source
// (and, unless Options.ContinueAfterAuthError is set, the run). Any other
// bad status fails only that link unless Options.Strict is set. Nothing is
// written to disk before the response status has been checked.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent.
// Transfer events carry the running byte count and the Content-Length
// (-1 when unknown) for every 4096-byte chunk.
package download
