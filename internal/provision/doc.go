// Package provision sequences the provisioning pipeline: prerequisite
// checks, component installation, model fetching, and desktop shortcuts.
// Stages run strictly in order and the first failure aborts the run.
package provision
