// Package recorder writes resolution results to history storage without
// blocking the request path.
//
// A Recorder is passed to download.NewResolver as its Observer:
//
//	rec := recorder.New(store, &recorder.Config{BufferSize: 256}, collector, logger)
//	defer rec.Close()
//	resolver := download.NewResolver(client, download.Options{Observer: rec})
package recorder
