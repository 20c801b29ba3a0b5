package advisor

import (
	"context"
	"strings"

	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/zerr"
)

type resolveAnswer struct {
	Requirements []string `json:"requirements"`
}

type diagnoseAnswer struct {
	RootCause           string `json:"root_cause"`
	Package             string `json:"package"`
	SuggestedConstraint string `json:"suggested_constraint"`
}

type downgradesAnswer struct {
	Changes []struct {
		Package string `json:"package"`
		Version string `json:"version"`
	} `json:"changes"`
}

// ResolveConflict asks for a corrected requirement set.
func (c *Client) ResolveConflict(ctx context.Context, log string, requested []string) ([]string, error) {
	text, err := c.generate(ctx, resolvePrompt(log, requested))
	if err != nil {
		return nil, err
	}
	var answer resolveAnswer
	if err := decodePayload(text, resolvePayload, &answer); err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(answer.Requirements))
	for _, line := range answer.Requirements {
		if line = domain.StripComment(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// DiagnoseRootCause asks whether pkg itself or another package caused the failure.
func (c *Client) DiagnoseRootCause(ctx context.Context, pkg, log string) (domain.Diagnosis, error) {
	text, err := c.generate(ctx, diagnosePrompt(pkg, log))
	if err != nil {
		return domain.Diagnosis{}, err
	}
	var answer diagnoseAnswer
	if err := decodePayload(text, diagnosePayload, &answer); err != nil {
		return domain.Diagnosis{}, err
	}
	return domain.Diagnosis{
		Cause:      domain.Cause(answer.RootCause),
		Culprit:    strings.TrimSpace(answer.Package),
		Constraint: strings.TrimSpace(answer.SuggestedConstraint),
	}, nil
}

// SuggestPriorVersions asks for up to k earlier versions of pkg, newest first.
func (c *Client) SuggestPriorVersions(ctx context.Context, pkg, failed, log string, k int) ([]string, error) {
	text, err := c.generate(ctx, versionsPrompt(pkg, failed, log, k))
	if err != nil {
		return nil, err
	}
	var versions []string
	if err := decodePayload(text, versionsPayload, &versions); err != nil {
		return nil, err
	}
	if len(versions) > k {
		versions = versions[:k]
	}
	return versions, nil
}

// ProposeDowngrades asks for version changes that may heal a failing set.
func (c *Client) ProposeDowngrades(ctx context.Context, failing []string, log string) ([]domain.PackageSpec, error) {
	text, err := c.generate(ctx, downgradesPrompt(failing, log))
	if err != nil {
		return nil, err
	}
	var answer downgradesAnswer
	if err := decodePayload(text, downgradesPayload, &answer); err != nil {
		return nil, err
	}
	specs := make([]domain.PackageSpec, 0, len(answer.Changes))
	for _, change := range answer.Changes {
		specs = append(specs, domain.Pin(change.Package, change.Version))
	}
	return specs, nil
}

// SummarizeError condenses a failure log into one line.
func (c *Client) SummarizeError(ctx context.Context, log string) (string, error) {
	text, err := c.generate(ctx, summarizePrompt(log))
	if err != nil {
		return "", err
	}
	summary := strings.Join(strings.Fields(text), " ")
	if summary == "" {
		return "", zerr.Wrap(domain.ErrAdvisorMalformed, "empty summary")
	}
	return summary, nil
}
