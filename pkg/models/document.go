package models

// Document is the text content extracted from an uploaded file.
type Document struct {
	Filename  string `json:"filename"`
	Format    string `json:"format"`
	Content   string `json:"content"`
	WordCount int    `json:"word_count"`
}
