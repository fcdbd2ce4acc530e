package handlers

import (
	"context"
	"fmt"
	"os"
)

// Outputs prints the values the pipeline published on its last successful
// apply, straight from the state document.
func Outputs(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}

	doc, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if len(doc.Outputs) == 0 {
		fmt.Println("No outputs recorded. Run 'k3strap apply' first.")
		return nil
	}

	printOutputs(os.Stdout, doc.Outputs)
	return nil
}
