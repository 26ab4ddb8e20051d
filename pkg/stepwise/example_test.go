package stepwise_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/crimson-sun/stepwise/pkg/stepwise"
)

func Example() {
	dir, err := os.MkdirTemp("", "stepwise-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "run_042.pytestlog.json")
	if err := os.WriteFile(path, []byte(sessionLog), 0o644); err != nil {
		log.Fatal(err)
	}

	x := stepwise.New()
	doc, err := x.FromFile(context.Background(), path)
	if err != nil {
		log.Fatal(err)
	}

	for _, step := range doc.Steps {
		fmt.Printf("%s: %d entries\n", step.Name, len(step.Entries))
	}
	// Output:
	// setup: 1 entries
	// login: 2 entries
	// teardown: 1 entries
}
