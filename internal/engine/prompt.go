package engine

// LLM prompt templates — data only, no logic.

// TranslatePrompt renders transcript text into the target language.
// Args: target language name, source language hint, text.
const TranslatePrompt = `Translate the following video transcript into %s.
Source language: %s.

Rules:
- Output ONLY the translation — no preamble, no notes, no quotes.
- Preserve sentence boundaries and the original meaning.
- Keep proper nouns, product names, and code identifiers untranslated.
- Plain text only, no markdown.

Transcript:
%s`
