package advisor

import (
	"fmt"
	"strings"
)

// maxLogBytes bounds how much of a failure log is quoted in a prompt. The tail is kept.
const maxLogBytes = 8000

func clip(log string) string {
	log = strings.TrimSpace(log)
	if len(log) <= maxLogBytes {
		return log
	}
	return "...\n" + log[len(log)-maxLogBytes:]
}

func resolvePrompt(log string, requested []string) string {
	return fmt.Sprintf(`You are an expert Python dependency resolver. Installing the requirements below failed.
Propose a corrected requirement list that keeps exactly the same packages and changes only version specifiers.
Your response MUST be a single, valid JSON object and nothing else.

Requirements:
---
%s
---
Installer output:
---
%s
---
Example response: {"requirements": ["numpy==1.26.4", "pandas>=2.1,<2.2"]}
`, strings.Join(requested, "\n"), clip(log))
}

func diagnosePrompt(pkg, log string) string {
	return fmt.Sprintf(`You are an expert Python dependency diagnostician. Upgrading %q failed with the error below.
Your response MUST be a single, valid JSON object and nothing else.
The "root_cause" key must be either "self" or "incompatibility". If "incompatibility", you MUST also provide
the "package" that conflicts with the upgrade and a "suggested_constraint" for it such as "<4".

Error:
---
%s
---
Example response: {"root_cause": "incompatibility", "package": "protobuf", "suggested_constraint": "<4"}
`, pkg, clip(log))
}

func versionsPrompt(pkg, failed, log string, k int) string {
	return fmt.Sprintf(`You are a Python package versioning expert. Version %s of %q failed to install or validate.
Provide the %d most recent release versions of %q before %s that are most likely to work, in descending order.
Your response MUST be a single, valid JSON array of strings and nothing else.

Error:
---
%s
---
Example response: ["1.2.3", "1.2.2", "1.2.1"]
`, failed, pkg, k, pkg, failed, clip(log))
}

func downgradesPrompt(failing []string, log string) string {
	return fmt.Sprintf(`You are an expert Python dependency debugging AI. A project's validation fails with the packages below installed.
Suggest a targeted downgrade of one or more of these packages to fix the error.
Your response MUST be a single, valid JSON object and nothing else.

Installed packages:
---
%s
---
Validation error log:
---
%s
---
Example response: {"changes": [{"package": "numpy", "version": "1.26.4"}]}
`, strings.Join(failing, "\n"), clip(log))
}

func summarizePrompt(log string) string {
	return fmt.Sprintf(`Summarize the root cause of this Python pip install error in one concise sentence. Answer with the sentence only.
Error log:
---
%s
---
`, clip(log))
}
