package sdk

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

// MaxDocumentSize is the largest resume or cover letter the API accepts.
const MaxDocumentSize = 5 << 20

var (
	// ErrUnsupportedDocument is returned for documents that are not PDF or DOCX.
	ErrUnsupportedDocument = errors.New("sdk: only PDF and DOCX files are allowed")
	// ErrDocumentTooLarge is returned for documents over MaxDocumentSize.
	ErrDocumentTooLarge = errors.New("sdk: file size should not exceed 5MB")
)

var documentTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Upload is a file attached to a multipart request.
type Upload struct {
	Filename string
	Content  []byte
	// ContentType overrides the type inferred from Filename and Content.
	ContentType string
}

// UploadFromFile reads path into an Upload named after its base name.
func UploadFromFile(path string) (Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Upload{}, err
	}
	return Upload{Filename: filepath.Base(path), Content: data}, nil
}

func (u Upload) ext() string {
	return strings.ToLower(filepath.Ext(u.Filename))
}

// contentType resolves the part's media type: the explicit override, the
// document table, the system MIME table, then content sniffing.
func (u Upload) contentType() string {
	if ct := normalizeMediaType(u.ContentType); ct != "" {
		return ct
	}
	if ct, ok := documentTypes[u.ext()]; ok {
		return ct
	}
	if ct := normalizeMediaType(mime.TypeByExtension(u.ext())); ct != "" {
		return ct
	}
	return normalizeMediaType(http.DetectContentType(u.Content))
}

// normalizeMediaType lowercases value and drops parameters such as charset.
func normalizeMediaType(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return ""
	}
	return strings.ToLower(mediaType)
}

// validateDocument applies the server's resume/cover letter rules locally so
// oversize uploads fail before any bytes are sent.
func validateDocument(field string, u Upload) error {
	if strings.TrimSpace(u.Filename) == "" {
		return fmt.Errorf("sdk: %s: filename required", field)
	}
	if _, ok := documentTypes[u.ext()]; !ok {
		return fmt.Errorf("%w: %s: %s", ErrUnsupportedDocument, field, u.Filename)
	}
	if len(u.Content) > MaxDocumentSize {
		return fmt.Errorf("%w: %s: %s is %d bytes", ErrDocumentTooLarge, field, u.Filename, len(u.Content))
	}
	return nil
}

type multipartForm struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func newMultipartForm() *multipartForm {
	f := &multipartForm{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

// field writes a text part; empty values are skipped.
func (f *multipartForm) field(name, value string) {
	if f.err != nil || value == "" {
		return
	}
	f.err = f.w.WriteField(name, value)
}

func (f *multipartForm) file(name string, u *Upload) {
	if f.err != nil || u == nil {
		return
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, name, filepath.Base(u.Filename)))
	h.Set("Content-Type", u.contentType())
	part, err := f.w.CreatePart(h)
	if err != nil {
		f.err = err
		return
	}
	_, f.err = part.Write(u.Content)
}

// finish closes the form and returns its body and content type.
func (f *multipartForm) finish() ([]byte, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	if err := f.w.Close(); err != nil {
		return nil, "", err
	}
	return f.buf.Bytes(), f.w.FormDataContentType(), nil
}
