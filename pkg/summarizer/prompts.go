package summarizer

const summaryPromptTemplate = `
Write a concise summary of the following text in at most {{.MaxWords}} words.
Preserve the key facts, names, dates, and figures. Do not add information
that is not present in the text. Respond with the summary only, without
preamble.

TEXT:
{{.Text}}

SUMMARY:
`

type summaryPromptData struct {
	MaxWords int
	Text     string
}
