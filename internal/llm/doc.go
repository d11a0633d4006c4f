// Package llm talks to the language models that act as the AI collaborator for SMS parsing
// and insight summaries. It supports OpenAI, Anthropic and Gemini, with rate limiting,
// retries and tolerant decoding of the model's JSON replies.
package llm
