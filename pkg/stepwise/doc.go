// Package stepwise extracts command information from network-device test
// session logs. It decodes the base64 payloads a test runner embeds in its
// JSON session log, splits the run into setup, per-step, and teardown
// regions, and arranges the commands sent to the device — together with
// their responses and expected patterns — into one document per log.
//
// Quick start:
//
//	x := stepwise.New()
//	doc, err := x.FromFile(context.Background(), "run_042.pytestlog.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, step := range doc.Steps {
//	    fmt.Println(step.Name, len(step.Entries))
//	}
//
// Extraction is defensive: malformed or missing fields degrade to empty
// values and a warning on the document, never to an error. Only unreadable
// input files fail, and those errors match ErrLogRead. An Extractor holds
// no per-run state and is safe for concurrent use.
package stepwise
