package ingest

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getprecis/precis/pkg/models"
)

const docxXMLHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`

// buildDocx assembles a minimal DOCX archive with one paragraph per
// element of paragraphs.
func buildDocx(t *testing.T, paragraphs []string) []byte {
	t.Helper()

	var body strings.Builder
	body.WriteString(docxXMLHeader)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>`)
		body.WriteString(p)
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(body.String()))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestReadDocumentTxt(t *testing.T) {
	content := "This is a plain text document.\nWith two lines."
	doc, err := ReadDocument(strings.NewReader(content), "notes.txt")
	require.NoError(t, err)

	assert.Equal(t, "notes.txt", doc.Filename)
	assert.Equal(t, "Plain Text", doc.Format)
	assert.Equal(t, content, doc.Content)
	assert.Equal(t, 9, doc.WordCount)
}

func TestReadDocumentDocx(t *testing.T) {
	paragraphs := []string{
		"The first paragraph of the document.",
		"The second paragraph follows it.",
	}
	data := buildDocx(t, paragraphs)

	doc, err := ReadDocument(bytes.NewReader(data), "report.docx")
	require.NoError(t, err)

	assert.Equal(t, "Word Document", doc.Format)
	assert.Equal(t, strings.Join(paragraphs, "\n"), doc.Content)
	assert.Equal(t, 11, doc.WordCount)
}

func TestReadDocumentDocxMatchesPastedText(t *testing.T) {
	// Extracting from a DOCX must yield the same text a user would
	// paste, so downstream summaries are identical.
	paragraphs := []string{"Shared content used either way."}
	data := buildDocx(t, paragraphs)

	doc, err := ReadDocument(bytes.NewReader(data), "upload.docx")
	require.NoError(t, err)

	pasted := CleanText(paragraphs[0])
	extracted := CleanText(doc.Content)
	assert.Equal(t, pasted, extracted)
}

func TestReadDocumentUnsupportedFormat(t *testing.T) {
	_, err := ReadDocument(strings.NewReader("data"), "image.png")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUnsupportedFormat)
}

func TestReadDocumentMalformedDocx(t *testing.T) {
	_, err := ReadDocument(strings.NewReader("not a zip archive"), "broken.docx")
	require.Error(t, err)
}

func TestReadDocumentInvalidUTF8(t *testing.T) {
	_, err := ReadDocument(bytes.NewReader([]byte{0xff, 0xfe, 0xfd}), "binary.txt")
	require.Error(t, err)
}

func TestExtractDocxTextMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = extractDocxText(buf.Bytes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document.xml not found")
}
