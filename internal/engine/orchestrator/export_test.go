package orchestrator

// ComposeRequirements exposes composeRequirements for tests.
var ComposeRequirements = composeRequirements
