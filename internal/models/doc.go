// Package models pulls language model weights through the model runner's
// CLI, one model at a time, with retry on transient failures.
package models
