package vision

// extractionPrompt instructs the model to read book spines and respond
// with JSON only. Position and confidence let downstream ordering and
// filtering work without a second pass over the image.
const extractionPrompt = `You are analyzing a photograph of book spines on a shelf.

Identify every book whose spine is readable. For each book report:
- "title": the title exactly as printed on the spine
- "author": the author's name if visible, otherwise omit
- "publisher": the publisher if visible, otherwise omit
- "series": the series name if the spine shows one, otherwise omit
- "isbn": the ISBN if printed and readable, otherwise omit
- "position": where the book sits, like "top shelf, 3rd from left"
- "confidence": 0.0 to 1.0, how certain you are of the title reading

Rules:
- Respond with a JSON array only. No prose, no markdown.
- Never invent a title you cannot read. Skip unreadable spines.
- Do not guess authors. Omit the field when the spine does not show one.
- Report titles in their printed language; do not translate.

Example response:
[{"title":"The Hobbit","author":"J.R.R. Tolkien","position":"top shelf, 1st from left","confidence":0.95}]`
