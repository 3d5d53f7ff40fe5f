// Package securerelay implements an authenticated decryption and
// record-validation pipeline. It fetches an opaque encrypted payload from
// an external source, authenticates and decrypts it with AES-256-GCM,
// validates the resulting user records, and forwards them to a downstream
// sink over HTTP.
//
// Decryption keys are derived per flow from a passphrase and salt using
// PBKDF2 with 100,000 iterations; key material comes from a pluggable
// [KeyProvider] and is never cached or logged. Payloads below 1 MiB are
// decrypted in one buffered operation, larger ones in ordered 64 KiB
// chunks, with identical results either way.
//
// Basic usage:
//
//	relay, err := securerelay.New(
//	    securerelay.WithSourceURL("https://source.example.com/payload"),
//	    securerelay.WithSinkURL("https://sink.example.com/webhook"),
//	    securerelay.WithKeyProvider(&securerelay.EnvKeyProvider{}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := relay.Run(ctx)
//	if err != nil {
//	    var flowErr *securerelay.FlowError
//	    if errors.As(err, &flowErr) {
//	        log.Fatalf("flow failed at %s: %v", flowErr.Stage, flowErr.Err)
//	    }
//	    log.Fatal(err)
//	}
//
//	fmt.Println("forwarded", len(result.Records), "records")
//
// Every flow is a single unit of work: each stage runs at most once, the
// first failure stops the pipeline, and the failure is attributed to its
// stage through [FlowError]. Distinct flows share no mutable state and
// may run concurrently.
package securerelay
