package handlers

import (
	"context"
	"fmt"

	"github.com/sunnydmess/k3strap/internal/config/wizard"
	"github.com/sunnydmess/k3strap/internal/sshkey"
)

// InitOptions carries the init command's flags.
type InitOptions struct {
	OutputPath string
	Force      bool
	FullOutput bool
}

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = wizard.FileExists

	// runWizard runs the interactive configuration wizard.
	runWizard = wizard.RunWizard

	// confirmOverwrite asks before replacing an existing file.
	confirmOverwrite = wizard.ConfirmOverwrite

	// writeConfig writes the config to a file.
	writeConfig = wizard.WriteConfig

	// generateDeployKey creates and writes a fresh ed25519 key pair.
	generateDeployKey = func(comment, path string) error {
		kp, err := sshkey.GenerateEd25519(comment)
		if err != nil {
			return err
		}
		return sshkey.WriteKeyPair(kp, path)
	}
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, opts InitOptions) error {
	if fileExists(opts.OutputPath) && !opts.Force {
		ok, err := confirmOverwrite(opts.OutputPath)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := wizard.BuildConfig(result)

	if result.GenerateKey {
		if err := generateDeployKey("k3strap-deploy-key", cfg.GitOps.DeployKeyPath); err != nil {
			return fmt.Errorf("failed to generate deploy key: %w", err)
		}
		fmt.Printf("Deploy key written to %s (add %s.pub to your repository's deploy keys)\n",
			cfg.GitOps.DeployKeyPath, cfg.GitOps.DeployKeyPath)
	}

	if err := writeConfig(cfg, opts.OutputPath, opts.FullOutput); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(opts.OutputPath, cfg.ClusterName)
	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("k3strap - single-node k3s with GitOps")
	fmt.Println("=====================================")
	fmt.Println()
	fmt.Println("This wizard creates a cluster configuration with sensible defaults.")
	fmt.Println()
}

// printInitSuccess prints the success message with next steps.
func printInitSuccess(outputPath, clusterName string) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File:    %s\n", outputPath)
	fmt.Printf("  Cluster: %s\n", clusterName)
	fmt.Println()
	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Printf("  1. Review %s if needed\n", outputPath)
	fmt.Println()
	fmt.Println("  2. Preview the pipeline:")
	fmt.Printf("     k3strap plan -c %s\n", outputPath)
	fmt.Println()
	fmt.Println("  3. Provision the cluster:")
	fmt.Printf("     k3strap apply -c %s\n", outputPath)
	fmt.Println()
}
