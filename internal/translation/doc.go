// Package translation provides the language-model backends that translate
// notebook prose (OpenAI-compatible chat APIs and Gemini) together with
// decorators for caching, rate limiting and circuit breaking. Every backend
// translates one text per call and returns the model reply verbatim.
package translation
