// Package models lists the chat models an OpenAI-compatible endpoint offers,
// so users can pick a translation model for their API key.
package models
