package bootstrap

import (
	"context"
	"errors"
	"strings"

	"github.com/sunnydmess/k3strap/internal/plan"
)

// AdminCredentialHint tells the operator where the generated admin token
// lives on the provisioned host.
const AdminCredentialHint = "sudo cat /var/lib/rancher/k3s/server/node-token"

// Apply loads the persisted state, builds the pipeline, and executes it.
// State is saved even when the run fails partway, so nodes that succeeded
// keep their fingerprints and a re-invocation picks up where this one
// stopped.
func (s *Sequencer) Apply(ctx context.Context) (*plan.Summary, error) {
	doc, err := s.Store.Load(ctx)
	if err != nil {
		return nil, err
	}
	doc.BeginRun()

	p, err := s.BuildPlan()
	if err != nil {
		return nil, err
	}

	summary, runErr := s.executor().Apply(ctx, p, doc)

	if runErr == nil {
		doc.Outputs = s.Outputs()
	}
	if err := s.Store.Save(ctx, doc); err != nil {
		if runErr != nil {
			return summary, errors.Join(runErr, err)
		}
		return summary, err
	}
	return summary, runErr
}

// Destroy tears the pipeline down in reverse order. Teardown is
// best-effort: every failure is collected and returned, none aborts the
// walk. Cleanly torn-down nodes are forgotten, so the next apply starts
// from scratch.
func (s *Sequencer) Destroy(ctx context.Context) []error {
	doc, err := s.Store.Load(ctx)
	if err != nil {
		return []error{err}
	}

	p, err := s.BuildPlan()
	if err != nil {
		return []error{err}
	}

	errs := s.executor().Destroy(ctx, p, doc)

	doc.Outputs = make(map[string]string)
	if err := s.Store.Save(ctx, doc); err != nil {
		errs = append(errs, err)
	}
	return errs
}

// Outputs returns the named results the pipeline publishes after a
// successful apply.
func (s *Sequencer) Outputs() map[string]string {
	return map[string]string{
		"k3s_version":           s.Config.K3s.Version,
		"username":              s.Resolved.User,
		"host":                  s.Resolved.Host,
		"gitops_namespace":      s.Config.GitOps.Namespace,
		"workload_namespaces":   strings.Join(s.Config.Workloads.Namespaces, ","),
		"kubeconfig_path":       s.Resolved.Kubeconfig,
		"admin_credential_hint": AdminCredentialHint,
	}
}

func (s *Sequencer) executor() *plan.Executor {
	return &plan.Executor{Workers: s.Config.Workers, Observer: s.Observer}
}
