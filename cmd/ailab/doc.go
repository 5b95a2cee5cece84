// Command ailab provisions a local AI stack: the Ollama model runner, the
// Open WebUI front end, the models both serve, and desktop shortcuts.
package main
